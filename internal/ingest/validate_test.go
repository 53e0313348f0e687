package ingest_test

import (
	"errors"

	"antiscam/internal/ingest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = DescribeTable("ValidateIdentity",
	func(mutate func(*ingest.Identity), field string) {
		id := identity()
		mutate(&id)
		err := ingest.ValidateIdentity(&id)
		if field == "" {
			Expect(err).NotTo(HaveOccurred())
			return
		}
		var verr *ingest.ValidationError
		Expect(errors.As(err, &verr)).To(BeTrue())
		Expect(verr.Field).To(Equal(field))
	},
	Entry("valid", func(*ingest.Identity) {}, ""),
	Entry("short name", func(i *ingest.Identity) { i.Name = "Al" }, "name"),
	Entry("name padded with spaces", func(i *ingest.Identity) { i.Name = "  Al  " }, "name"),
	Entry("multibyte name", func(i *ingest.Identity) { i.Name = "李小龍" }, ""),
	Entry("short contact", func(i *ingest.Identity) { i.Contact = "98123" }, "contact"),
	Entry("short address", func(i *ingest.Identity) { i.Address = "Pune" }, "address"),
	Entry("email without at", func(i *ingest.Identity) { i.Email = "ravi.example.com" }, "email"),
	Entry("email with nothing after at", func(i *ingest.Identity) { i.Email = "ravi@" }, "email"),
)

package urlscan_test

import (
	"context"
	"time"

	"antiscam/internal/pkg/urlscan"
	"antiscam/internal/testhelpers"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

var _ = Describe("Client", func() {
	var c *urlscan.Client

	BeforeEach(func() {
		testhelpers.Activate()
		c = urlscan.New("scan-key", zap.NewNop())
		c.UseDefaultClient()
	})

	AfterEach(func() {
		testhelpers.Deactivate()
	})

	It("defaults the scheme to https and returns the first search hit", func() {
		scan := testhelpers.New("https://urlscan.io").
			Post("/api/v1/scan/").MatchHeader("API-Key", "scan-key").
			Reply(200).Body(testhelpers.MustLoadFixture("urlscan_scan.json"))
		testhelpers.New("https://urlscan.io").
			Get("/api/v1/search/?q=domain:example.com").
			Reply(200).Body(testhelpers.MustLoadFixture("urlscan_search.json"))

		result, err := c.Lookup(context.Background(), "example.com")
		Expect(err).NotTo(HaveOccurred())

		var submitted map[string]string
		Expect(scan.Captured().JSON(&submitted)).To(Succeed())
		Expect(submitted).To(Equal(map[string]string{"url": "https://example.com", "visibility": "public"}))

		Expect(result.SubmittedURL).To(Equal("https://example.com"))
		Expect(string(result.ScanResult)).To(ContainSubstring("Submission successful"))
		Expect(result.Report).NotTo(BeNil())
		Expect(result.Report.IP).To(Equal("93.184.215.14"))
		Expect(result.Report.ASN).To(Equal("AS15133"))
		Expect(result.Report.Country).To(Equal("US"))
		Expect(result.Report.TLSIssuer).To(HavePrefix("DigiCert"))
		Expect(result.Report.TLSValidFrom).To(BeTemporally("==", time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC)))
		Expect(result.Report.TLSValidUntil()).To(BeTemporally("==", time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC)))
		Expect(result.Report.ResultURL).To(HavePrefix("https://urlscan.io/api/v1/result/"))
	})

	It("keeps an explicit http scheme", func() {
		scan := testhelpers.New("https://urlscan.io").
			Post("/api/v1/scan/").Reply(200).BodyString(`{"message":"Submission successful"}`)
		testhelpers.New("https://urlscan.io").
			Get("/api/v1/search/").Reply(200).BodyString(`{"results":[]}`)

		result, err := c.Lookup(context.Background(), "http://login-verify.example.net/path")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.SearchResult).To(BeNil())
		Expect(result.Report).To(BeNil())

		var submitted map[string]string
		Expect(scan.Captured().JSON(&submitted)).To(Succeed())
		Expect(submitted["url"]).To(Equal("http://login-verify.example.net/path"))
	})

	It("fails when the scan is rejected", func() {
		testhelpers.New("https://urlscan.io").
			Post("/api/v1/scan/").Reply(400).BodyString(`{"message":"DNS Error","status":400}`)

		_, err := c.Lookup(context.Background(), "nonexistent.invalid")
		Expect(err).To(MatchError(urlscan.ErrLookup))
	})

	DescribeTable("NormalizeURL",
		func(in string, want string, wantErr bool) {
			u, err := urlscan.NormalizeURL(in)
			if wantErr {
				Expect(err).To(MatchError(urlscan.ErrInvalidURL))
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(u.String()).To(Equal(want))
		},
		Entry("bare host", "example.com", "https://example.com", false),
		Entry("with path", " example.com/login ", "https://example.com/login", false),
		Entry("https kept", "https://a.example.com", "https://a.example.com", false),
		Entry("empty", "", "", true),
		Entry("no host", "https://", "", true),
		Entry("bad escape", "exa mple.com/%zz", "", true),
	)
})

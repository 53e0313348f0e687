package retell_test

import (
	"time"

	"antiscam/internal/pkg/retell"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Signature", func() {
	body := []byte(`{"event":"call_ended"}`)
	signedAt := time.UnixMilli(1700000000000)

	It("produces the versioned header value", func() {
		Expect(retell.Sign(body, "key_123", signedAt)).To(Equal(
			"v=1700000000000,d=0a73ea7eddcbb830b5ee5697954d85c6f41c4918124ca5a37bb08f65ce276c91"))
	})

	It("accepts its own signature", func() {
		sig := retell.Sign(body, "key_123", signedAt)
		Expect(retell.Verify(body, "key_123", sig, signedAt.Add(time.Minute))).To(Succeed())
	})

	DescribeTable("rejects",
		func(payload []byte, key, sig string, now time.Time, want error) {
			Expect(retell.Verify(payload, key, sig, now)).To(MatchError(want))
		},
		Entry("an empty header", body, "key_123", "", signedAt, retell.ErrMissingSignature),
		Entry("garbage", body, "key_123", "not-a-signature", signedAt, retell.ErrMalformedSignature),
		Entry("a missing digest", body, "key_123", "v=1700000000000", signedAt, retell.ErrMalformedSignature),
		Entry("a tampered body", []byte(`{"event":"call_started"}`), "key_123", retell.Sign(body, "key_123", signedAt), signedAt, retell.ErrInvalidSignature),
		Entry("the wrong key", body, "other", retell.Sign(body, "key_123", signedAt), signedAt, retell.ErrInvalidSignature),
		Entry("a stale timestamp", body, "key_123", retell.Sign(body, "key_123", signedAt), signedAt.Add(6*time.Minute), retell.ErrExpiredSignature),
	)
})

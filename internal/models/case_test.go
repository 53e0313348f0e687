package models_test

import (
	"encoding/json"

	"antiscam/internal/models"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson"
)

func strPtr(s string) *string { return &s }

var _ = Describe("CaseContext", func() {
	It("flattens caller fields next to pipeline fields", func() {
		ctx := models.CaseContext{
			ImageAnalysis: strPtr("- bank asked for OTP"),
			AudioURL:      strPtr("https://cdn.example.com/a.mp3"),
			Extra:         map[string]any{"platform": "whatsapp"},
		}

		data, err := json.Marshal(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(MatchJSON(`{
			"platform": "whatsapp",
			"imageAnalysis": "- bank asked for OTP",
			"audioTranscription": null,
			"imageUrls": [],
			"audioUrls": "https://cdn.example.com/a.mp3"
		}`))
	})

	It("splits a flat object back into typed and caller fields", func() {
		var ctx models.CaseContext
		Expect(json.Unmarshal([]byte(`{"imageUrls":["u1","u2"],"amountLost":"5000"}`), &ctx)).To(Succeed())

		Expect(ctx.ImageURLs).To(Equal([]string{"u1", "u2"}))
		Expect(ctx.ImageAnalysis).To(BeNil())
		Expect(ctx.Extra).To(Equal(map[string]any{"amountLost": "5000"}))
	})

	It("stores caller fields inline in the document", func() {
		ctx := models.CaseContext{
			ImageURLs: []string{"u1"},
			Extra:     map[string]any{"platform": "sms"},
		}

		raw, err := bson.Marshal(ctx)
		Expect(err).NotTo(HaveOccurred())

		var doc bson.M
		Expect(bson.Unmarshal(raw, &doc)).To(Succeed())
		Expect(doc).To(HaveKeyWithValue("platform", "sms"))
		Expect(doc).To(HaveKey("imageUrls"))
	})

	DescribeTable("HasEvidence",
		func(ctx models.CaseContext, want bool) {
			Expect(ctx.HasEvidence()).To(Equal(want))
		},
		Entry("empty", models.CaseContext{}, false),
		Entry("blank analysis", models.CaseContext{ImageAnalysis: strPtr("")}, false),
		Entry("images", models.CaseContext{ImageURLs: []string{"u"}}, true),
		Entry("transcript", models.CaseContext{AudioTranscription: strPtr("hello")}, true),
		Entry("audio url", models.CaseContext{AudioURL: strPtr("https://a")}, true),
	)
})

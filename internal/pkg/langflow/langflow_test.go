package langflow_test

import (
	"context"
	"errors"

	"antiscam/internal/pkg/langflow"
	"antiscam/internal/testhelpers"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

const runURL = "https://flows.example.com/lf/org-1/api/v1/run/flow-1"

var _ = Describe("Client", func() {
	var c *langflow.Client

	BeforeEach(func() {
		testhelpers.Activate()
		var err error
		c, err = langflow.New(runURL, "lf-token", zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		c.UseDefaultClient()
	})

	AfterEach(func() {
		testhelpers.Deactivate()
	})

	It("requires a run url", func() {
		_, err := langflow.New("", "t", zap.NewNop())
		Expect(err).To(MatchError(langflow.ErrNotConfigured))
	})

	It("posts the situation and returns the first message", func() {
		exp := testhelpers.New("https://flows.example.com").
			Post("/lf/org-1/api/v1/run/flow-1?stream=false").
			MatchHeader("Authorization", "Bearer lf-token").
			Reply(200).
			BodyString(`{"outputs":[{"outputs":[{"messages":[{"message":"This looks like a bank impersonation scam."}]}]}]}`)

		msg, err := c.Predict(context.Background(), "caller asked me to upgrade my bank account")
		Expect(err).NotTo(HaveOccurred())
		Expect(msg).To(Equal("This looks like a bank impersonation scam."))

		var sent map[string]any
		Expect(exp.Captured().JSON(&sent)).To(Succeed())
		Expect(sent).To(HaveKeyWithValue("input_value", "caller asked me to upgrade my bank account"))
		Expect(sent).To(HaveKeyWithValue("input_type", "chat"))
		Expect(sent).To(HaveKeyWithValue("output_type", "chat"))
	})

	It("returns an empty message when the flow produced none", func() {
		testhelpers.New("https://flows.example.com").
			Post("/lf/org-1/api/v1/run/flow-1").
			Reply(200).BodyString(`{"outputs":[{"outputs":[]}]}`)

		msg, err := c.Predict(context.Background(), "x")
		Expect(err).NotTo(HaveOccurred())
		Expect(msg).To(BeEmpty())
	})

	It("wraps upstream failures", func() {
		testhelpers.New("https://flows.example.com").
			Post("/lf/org-1/api/v1/run/flow-1").
			Reply(502).BodyString("bad gateway")

		_, err := c.Predict(context.Background(), "x")
		Expect(err).To(MatchError(langflow.ErrPrediction))
	})

	It("wraps transport failures", func() {
		testhelpers.New("https://flows.example.com").
			Post("/lf/org-1/api/v1/run/flow-1").
			ReplyError(errors.New("connection reset"))

		_, err := c.Predict(context.Background(), "x")
		Expect(err).To(MatchError(langflow.ErrPrediction))
	})
})

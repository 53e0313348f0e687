package middleware_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"antiscam/internal/middleware"
	"antiscam/internal/pkg/retell"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

var _ = Describe("RetellSignature", func() {
	var (
		router  *gin.Engine
		now     time.Time
		reached []byte
	)

	body := []byte(`{"event":"call_ended","call":{"call_id":"call_1"}}`)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		now = time.UnixMilli(1700000000000)
		reached = nil

		router = gin.New()
		router.POST("/hook", middleware.RetellSignatureAt("key_123", zap.NewNop(), func() time.Time { return now }), func(c *gin.Context) {
			reached, _ = io.ReadAll(c.Request.Body)
			c.Status(http.StatusNoContent)
		})
	})

	send := func(payload []byte, signature string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(payload))
		if signature != "" {
			req.Header.Set("x-retell-signature", signature)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	It("passes the untouched body to the handler when the signature verifies", func() {
		resp := send(body, retell.Sign(body, "key_123", now))
		Expect(resp.Code).To(Equal(http.StatusNoContent))
		Expect(reached).To(Equal(body))
	})

	It("rejects a missing header", func() {
		resp := send(body, "")
		Expect(resp.Code).To(Equal(http.StatusUnauthorized))
		Expect(reached).To(BeNil())
	})

	It("rejects a tampered signature", func() {
		sig := retell.Sign(body, "key_123", now)
		tampered := sig[:len(sig)-1] + "0"
		if tampered == sig {
			tampered = sig[:len(sig)-1] + "1"
		}

		resp := send(body, tampered)
		Expect(resp.Code).To(Equal(http.StatusUnauthorized))
		Expect(reached).To(BeNil())
	})
})

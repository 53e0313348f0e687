package logger_test

import (
	"net/http"
	"net/http/httptest"

	"antiscam/internal/logger"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var _ = Describe("Logger", func() {
	It("falls back to info on an unknown level", func() {
		log, err := logger.New("loud", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(log.Core().Enabled(zapcore.DebugLevel)).To(BeFalse())
		Expect(log.Core().Enabled(zapcore.InfoLevel)).To(BeTrue())
	})

	It("honors debug level", func() {
		log, err := logger.New("debug", true)
		Expect(err).NotTo(HaveOccurred())
		Expect(log.Core().Enabled(zapcore.DebugLevel)).To(BeTrue())
	})

	Describe("GinLogger", func() {
		It("logs the request line with its status", func() {
			gin.SetMode(gin.TestMode)
			core, logs := observer.New(zapcore.InfoLevel)

			router := gin.New()
			router.Use(logger.GinLogger(zap.New(core)))
			router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

			entries := logs.All()
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Level).To(Equal(zapcore.WarnLevel))
			Expect(entries[0].ContextMap()).To(HaveKeyWithValue("path", "/missing"))
			Expect(entries[0].ContextMap()).To(HaveKeyWithValue("status", int64(http.StatusNotFound)))
		})
	})
})

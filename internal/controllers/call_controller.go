package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"antiscam/internal/middleware"
	"antiscam/internal/pkg/retell"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CallController struct {
	Caller CallPlacer
	Logger *zap.Logger
}

type callRequest struct {
	UserID  any    `json:"userId"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

// Trigger places an outbound call that reads the case back to the reporter.
func (cc *CallController) Trigger(c *gin.Context) {
	var req callRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	callID, err := cc.Caller.CreatePhoneCall(c.Request.Context(), retell.CallRequest{
		CaseID:  fmt.Sprint(req.UserID),
		Name:    req.Name,
		Contact: req.Contact,
		Address: req.Address,
	})
	if err != nil {
		cc.Logger.Error("failed to trigger call", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to trigger call"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"callId": callID})
}

type webhookEvent struct {
	Event string `json:"event"`
	Call  struct {
		CallID string `json:"call_id"`
	} `json:"call"`
}

// Webhook acknowledges signed call events. Events are only logged.
func (cc *CallController) Webhook(c *gin.Context) {
	body, ok := c.Get(middleware.RawBodyKey)
	raw, _ := body.([]byte)
	if !ok || raw == nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	var ev webhookEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		cc.Logger.Warn("malformed webhook body", zap.Error(err))
		c.Status(http.StatusNoContent)
		return
	}

	log := cc.Logger.With(zap.String("event", ev.Event), zap.String("call_id", ev.Call.CallID))
	switch ev.Event {
	case "call_started":
		log.Info("call started")
	case "call_ended":
		log.Info("call ended")
	case "call_analyzed":
		log.Info("call analyzed")
	default:
		log.Info("unknown call event")
	}

	c.Status(http.StatusNoContent)
}

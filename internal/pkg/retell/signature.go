package retell

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader carries the webhook signature.
const SignatureHeader = "x-retell-signature"

// MaxSignatureAge bounds how old a signed webhook may be.
const MaxSignatureAge = 5 * time.Minute

var (
	ErrMissingSignature   = errors.New("missing signature")
	ErrMalformedSignature = errors.New("malformed signature")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrExpiredSignature   = errors.New("signature expired")
)

// Sign produces a header value of the form v=<unix ms>,d=<hex digest>, where
// the digest is HMAC-SHA256 over the body followed by the timestamp.
func Sign(body []byte, apiKey string, at time.Time) string {
	ts := strconv.FormatInt(at.UnixMilli(), 10)
	return fmt.Sprintf("v=%s,d=%s", ts, digest(body, apiKey, ts))
}

// Verify checks a signature header against the raw body.
func Verify(body []byte, apiKey, signature string, now time.Time) error {
	if signature == "" {
		return ErrMissingSignature
	}

	var ts, got string
	for _, part := range strings.Split(signature, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return ErrMalformedSignature
		}
		switch k {
		case "v":
			ts = v
		case "d":
			got = v
		}
	}
	if ts == "" || got == "" {
		return ErrMalformedSignature
	}

	ms, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrMalformedSignature
	}
	age := now.Sub(time.UnixMilli(ms))
	if age > MaxSignatureAge || age < -MaxSignatureAge {
		return ErrExpiredSignature
	}

	want := digest(body, apiKey, ts)
	if !hmac.Equal([]byte(strings.ToLower(got)), []byte(want)) {
		return ErrInvalidSignature
	}
	return nil
}

func digest(body []byte, apiKey, ts string) string {
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write(body)
	mac.Write([]byte(ts))
	return hex.EncodeToString(mac.Sum(nil))
}

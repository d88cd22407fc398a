package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"linebridge/pkg/errors"
)

// Sign computes the base64-encoded HMAC-SHA256 of body under secret, the
// signature scheme LINE uses for the X-Line-Signature header.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the header value against the raw request body using
// a constant-time comparison. Any mismatch, including an undecodable header,
// is a signature failure.
func VerifySignature(secret, body []byte, signature string) error {
	if signature == "" {
		return errors.ErrSignatureInvalid.WithMessage("missing signature header")
	}

	provided, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return errors.ErrSignatureInvalid.WithCause(err)
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	expected := mac.Sum(nil)

	if !hmac.Equal(provided, expected) {
		return errors.ErrSignatureInvalid
	}

	return nil
}

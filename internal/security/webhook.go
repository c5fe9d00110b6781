package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WebhookTolerance bounds how far a webhook timestamp may drift from now.
const WebhookTolerance = 5 * time.Minute

const webhookSecretPrefix = "whsec_"

// WebhookHeaders are the delivery headers sent with every identity-provider webhook.
type WebhookHeaders struct {
	ID        string
	Timestamp string
	Signature string
}

// SignWebhook computes the "v1,<base64>" signature for a payload.
func SignWebhook(secret, msgID string, timestamp time.Time, body []byte) (string, error) {
	key, err := decodeWebhookSecret(secret)
	if err != nil {
		return "", err
	}
	return "v1," + computeSignature(key, msgID, strconv.FormatInt(timestamp.Unix(), 10), body), nil
}

// VerifyWebhook checks the signature and timestamp of a webhook delivery. The
// signature header may carry several space-separated "v1,<sig>" entries;
// any one matching is accepted.
func VerifyWebhook(secret string, headers WebhookHeaders, body []byte, now time.Time) error {
	if headers.ID == "" || headers.Timestamp == "" || headers.Signature == "" {
		return fmt.Errorf("missing webhook headers")
	}

	ts, err := strconv.ParseInt(headers.Timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid webhook timestamp: %w", err)
	}
	sent := time.Unix(ts, 0)
	if now.Sub(sent) > WebhookTolerance || sent.Sub(now) > WebhookTolerance {
		return fmt.Errorf("webhook timestamp outside tolerance")
	}

	key, err := decodeWebhookSecret(secret)
	if err != nil {
		return err
	}
	expected := []byte(computeSignature(key, headers.ID, headers.Timestamp, body))

	for _, entry := range strings.Fields(headers.Signature) {
		version, sig, ok := strings.Cut(entry, ",")
		if !ok || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), expected) {
			return nil
		}
	}

	return fmt.Errorf("no matching webhook signature")
}

func decodeWebhookSecret(secret string) ([]byte, error) {
	if !strings.HasPrefix(secret, webhookSecretPrefix) {
		return []byte(secret), nil
	}
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, webhookSecretPrefix))
	if err != nil {
		return nil, fmt.Errorf("invalid webhook secret: %w", err)
	}
	return key, nil
}

func computeSignature(key []byte, msgID, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msgID))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

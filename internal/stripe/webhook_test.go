package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

func signPayload(t *testing.T, payload []byte, ts int64, secret string) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestConstructEvent_ValidSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123","status":"succeeded","latest_charge":"ch_456"}}}`)
	now := time.Now()
	header := signPayload(t, payload, now.Unix(), testSecret)

	event, err := constructEvent(payload, header, testSecret, now, DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentIntentSucceeded, event.Type)
	assert.Equal(t, "pi_123", event.Data.Object.ID)
	assert.Equal(t, "ch_456", event.Data.Object.LatestCharge)
}

func TestConstructEvent_WrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	now := time.Now()
	header := signPayload(t, payload, now.Unix(), "whsec_other")

	_, err := constructEvent(payload, header, testSecret, now, DefaultTolerance)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestConstructEvent_TamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	now := time.Now()
	header := signPayload(t, payload, now.Unix(), testSecret)

	tampered := []byte(`{"id":"evt_1","type":"payment_intent.payment_failed"}`)
	_, err := constructEvent(tampered, header, testSecret, now, DefaultTolerance)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestConstructEvent_StaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	now := time.Now()
	header := signPayload(t, payload, now.Add(-10*time.Minute).Unix(), testSecret)

	_, err := constructEvent(payload, header, testSecret, now, DefaultTolerance)
	assert.ErrorIs(t, err, ErrTimestampTooOld)
}

func TestConstructEvent_MalformedHeader(t *testing.T) {
	payload := []byte(`{}`)
	for _, header := range []string{"", "garbage", "t=notanumber,v1=abc", "v1=deadbeef"} {
		_, err := constructEvent(payload, header, testSecret, time.Now(), DefaultTolerance)
		assert.ErrorIs(t, err, ErrInvalidSignatureHeader, "header %q", header)
	}
}

func TestConstructEvent_MultipleSignatures(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	now := time.Now()

	mac := hmac.New(sha256.New, []byte(testSecret))
	fmt.Fprintf(mac, "%d.%s", now.Unix(), payload)
	good := hex.EncodeToString(mac.Sum(nil))
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", now.Unix(), "00ff00ff", good)

	_, err := constructEvent(payload, header, testSecret, now, DefaultTolerance)
	assert.NoError(t, err)
}

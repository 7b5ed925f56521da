package payments

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "whsec_test"

func signedHeader(payload []byte, at time.Time, secret string) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, computeSignature(payload, ts, secret))
}

func TestConstructEvent(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_123","payment_status":"paid"}}}`)
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

	event, err := constructEvent(payload, signedHeader(payload, now, webhookSecret), webhookSecret, now, DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, EventCheckoutCompleted, event.Type)
	assert.JSONEq(t, `{"id":"cs_123","payment_status":"paid"}`, string(event.Data.Object))
}

func TestConstructEventTamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	header := signedHeader(payload, now, webhookSecret)

	tampered := []byte(`{"id":"evt_2","type":"checkout.session.completed"}`)
	_, err := constructEvent(tampered, header, webhookSecret, now, DefaultTolerance)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	header := signedHeader(payload, now, "whsec_other")

	_, err := constructEvent(payload, header, webhookSecret, now, DefaultTolerance)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	signedAt := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	header := signedHeader(payload, signedAt, webhookSecret)

	_, err := constructEvent(payload, header, webhookSecret, signedAt.Add(6*time.Minute), DefaultTolerance)
	assert.ErrorIs(t, err, ErrStaleTimestamp)

	// A timestamp from the future is just as suspect.
	_, err = constructEvent(payload, header, webhookSecret, signedAt.Add(-6*time.Minute), DefaultTolerance)
	assert.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestConstructEventMalformedHeader(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

	for _, header := range []string{"", "t=abc,v1=deadbeef", "v1=deadbeef", "t=1751364000"} {
		_, err := constructEvent(payload, header, webhookSecret, now, DefaultTolerance)
		assert.ErrorIs(t, err, ErrInvalidSignature, "header %q", header)
	}
}

func TestConstructEventSecondSignatureAccepted(t *testing.T) {
	// During secret rotation the header carries multiple v1 entries.
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	ts := now.Unix()
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", ts, computeSignature(payload, ts, "whsec_old"), computeSignature(payload, ts, webhookSecret))

	event, err := constructEvent(payload, header, webhookSecret, now, DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
}

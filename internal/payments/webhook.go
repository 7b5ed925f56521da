package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance bounds how stale a webhook timestamp may be.
const DefaultTolerance = 5 * time.Minute

const EventCheckoutCompleted = "checkout.session.completed"

var (
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrStaleTimestamp   = errors.New("webhook timestamp outside tolerance")
)

type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// ConstructEvent verifies the raw payload against the Stripe-Signature
// header (t=<unix>,v1=<hex hmac-sha256 of "<t>.<payload>">) and decodes the
// event. The payload must be the exact bytes received on the wire.
func ConstructEvent(payload []byte, sigHeader, secret string) (*Event, error) {
	return constructEvent(payload, sigHeader, secret, time.Now(), DefaultTolerance)
}

func constructEvent(payload []byte, sigHeader, secret string, now time.Time, tolerance time.Duration) (*Event, error) {
	ts, sigs, err := parseSigHeader(sigHeader)
	if err != nil {
		return nil, err
	}

	issued := time.Unix(ts, 0)
	if now.Sub(issued) > tolerance || issued.Sub(now) > tolerance {
		return nil, ErrStaleTimestamp
	}

	expected := computeSignature(payload, ts, secret)
	matched := false
	for _, sig := range sigs {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, ErrInvalidSignature
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("malformed webhook payload: %w", err)
	}
	return &event, nil
}

func parseSigHeader(header string) (ts int64, sigs []string, err error) {
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err = strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, ErrInvalidSignature
			}
		case "v1":
			sigs = append(sigs, kv[1])
		}
	}
	if ts == 0 || len(sigs) == 0 {
		return 0, nil, ErrInvalidSignature
	}
	return ts, sigs, nil
}

func computeSignature(payload []byte, ts int64, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

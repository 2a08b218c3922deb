package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSignature is returned when an inbound event cannot be
// authenticated against the shared webhook secret.  An event that fails
// here is discarded without touching the ledger; the provider is expected
// to retry delivery on the non-2xx response.
var ErrInvalidSignature = errors.New("invalid event signature")

// VerifySignature authenticates a raw webhook payload against the
// provider's signature header.  The header has the form
//
//	t=<unix seconds>,v1=<hex hmac>
//
// where the hmac is HMAC-SHA256 over "<t>.<payload>" keyed with the
// shared secret.  The timestamp must be within tolerance of now to bound
// replay of captured deliveries.  Multiple v1 entries are accepted (the
// provider sends several while a secret is being rotated); any match
// passes.
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	var ts int64 = -1
	var candidates []string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			ts = n
		case "v1":
			candidates = append(candidates, v)
		}
	}
	if ts < 0 || len(candidates) == 0 {
		return ErrInvalidSignature
	}

	sent := time.Unix(ts, 0)
	age := now.Sub(sent)
	if age < 0 {
		age = -age
	}
	if tolerance > 0 && age > tolerance {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, c := range candidates {
		if hmac.Equal([]byte(c), []byte(expected)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// Sign produces a signature header for the given payload.  It exists for
// tests and for the development-mode event simulator.
func Sign(payload []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return "t=" + ts + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}

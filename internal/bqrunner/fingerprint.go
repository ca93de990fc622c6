package bqrunner

import (
	"crypto/sha256"
	"encoding/hex"
	"maps"
)

// FingerprintLabel is the job label carrying the query fingerprint.
const FingerprintLabel = "bqchain_query"

const fingerprintDomain = "bqchain/query/v1"

// Fingerprint identifies a query text across jobs and retries:
// the first 32 hex digits of SHA256(domain + 0x00 + text). It fits a
// BigQuery label value.
func Fingerprint(text string) string {
	h := sha256.New()
	h.Write([]byte(fingerprintDomain))
	h.Write([]byte{0x00})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))[:32]
}

// jobLabels returns the configured labels plus the fingerprint of text.
// A configured FingerprintLabel wins.
func (r *Runner) jobLabels(text string) map[string]string {
	labels := map[string]string{FingerprintLabel: Fingerprint(text)}
	maps.Copy(labels, r.labels)
	return labels
}

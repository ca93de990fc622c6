package bqrunner

import "github.com/google/uuid"

// JobIDGenerator names BigQuery jobs. Every attempt gets a fresh ID;
// BigQuery rejects a reused job ID.
type JobIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable job IDs: "bqchain_<uuidv7>".
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate panics if UUID generation fails (should never happen in
// practice).
func (UUIDv7Generator) Generate() string {
	return "bqchain_" + uuid.Must(uuid.NewV7()).String()
}

package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string; used for every entity key in the directory tables.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Valid reports whether s is a well-formed ULID. Handlers use it to reject bad path ids
// before touching storage.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

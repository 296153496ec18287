package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateID returns a short random hex identifier, used to tag a run when
// no caller-supplied id (e.g. a database primary key) is available.
func GenerateID() string {
	b := make([]byte, 8) // 16 hex characters
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return hex.EncodeToString(b)
}

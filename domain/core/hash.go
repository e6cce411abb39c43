package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Short returns the first 12 hex characters, for logs
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// ComputeDatasetFingerprint hashes a header and numeric matrix.
// Floats are written with 'g' formatting at full precision so that two runs
// agree on the fingerprint exactly when they agree bit for bit.
func ComputeDatasetFingerprint(header []string, rows [][]float64) Hash {
	var data strings.Builder
	for _, name := range header {
		data.WriteString(strconv.Quote(name))
		data.WriteByte(',')
	}
	data.WriteByte('\n')
	for _, row := range rows {
		for _, v := range row {
			data.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			data.WriteByte(',')
		}
		data.WriteByte('\n')
	}
	return NewHash([]byte(data.String()))
}

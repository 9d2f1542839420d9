// Package idgen generates the short, URL-safe ids that name archive batches.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// BatchPrefix is prepended to every export batch id.
const BatchPrefix = "exp-"

// alphabet is alphanumeric only; ids appear in S3 keys and file names.
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// batchLength is the number of random characters in a batch id.
const batchLength = 12

// BatchID returns a new export batch id such as "exp-V1StGXR8Z5jd".
func BatchID() (string, error) {
	return New(BatchPrefix, batchLength)
}

// New returns prefix followed by n random characters.
func New(prefix string, n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("idgen: length must be positive, got %d", n)
	}
	id, err := nanoid.Generate(alphabet, n)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

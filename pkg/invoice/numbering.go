package invoice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultPrefix is prepended to every invoice number.
const DefaultPrefix = "DVT"

// NumberingSource hands out invoice numbers.
type NumberingSource interface {
	Next(ctx context.Context) (string, error)
}

// FormatNumber renders n as prefix plus five zero-padded digits.
func FormatNumber(prefix string, n int64) string {
	return fmt.Sprintf("%s%05d", prefix, n)
}

// DirCounter derives the next number from the count of regular files in
// Dir. It is read-only and not safe against concurrent runs; any foreign
// file in Dir bumps the number.
type DirCounter struct {
	Dir    string
	Prefix string
}

// Next returns the file count plus one. A missing directory counts as empty.
func (c DirCounter) Next(_ context.Context) (string, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("reading invoice directory %s: %w", c.Dir, err)
	}

	var count int64
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			count++
		}
	}

	prefix := c.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return FormatNumber(prefix, count+1), nil
}

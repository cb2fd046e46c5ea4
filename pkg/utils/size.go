package utils

import "github.com/dustin/go-humanize"

// FormatSize renders a byte count for display ("1.5 MB"). Formatted sizes
// are a projection computed at the API edge and are never persisted.
func FormatSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.Bytes(uint64(size))
}

package common

import (
	"time"

	"github.com/inhies/go-bytesize"
)

// GetSize renders a byte count human-readable ("12.4MB"). Zero means
// the upstream did not report a size.
func GetSize(sizeVal int64) string {
	if sizeVal <= 0 {
		return "-"
	}
	size := bytesize.New(float64(sizeVal))
	return size.String()
}

// GetTime renders an upload timestamp for table output; the zero time
// renders as unknown.
func GetTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

package memory

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

func copyTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t

	return &c
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return items
}

// Package seen tracks the video ids already delivered for each keyword,
// bounded per keyword with oldest-first eviction.
//
// The in-memory store serves single-instance mode. The Redis store shares
// dedup state across instances so two pollers never deliver the same video
// twice within the retention window.
package seen

import "context"

// Store records delivered video ids per keyword.
type Store interface {
	// CheckAndMark reports whether videoID was already delivered for the
	// keyword and, if not, records it atomically. The record is bounded:
	// once a keyword holds capacity ids, marking a new one evicts the oldest.
	CheckAndMark(ctx context.Context, keyword, videoID string) (seen bool, err error)

	// Clear releases all state held for a keyword. Called when the last
	// watcher of a keyword unsubscribes.
	Clear(ctx context.Context, keyword string) error
}

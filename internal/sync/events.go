package sync

import "time"

// SyncEvent reports catalog sync progress per source.
// Types: "sync.page", "sync.complete", "sync.skipped", "sync.error".
type SyncEvent struct {
	Type    string    `json:"type"`
	Source  string    `json:"source"`
	Page    int       `json:"page,omitempty"`
	Items   int       `json:"items,omitempty"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// LibraryEvent reports a change to a user's library.
// Types: "library.update" or "library.delete".
type LibraryEvent struct {
	Type           string    `json:"type"`
	UserID         string    `json:"user_id"`
	SeriesID       string    `json:"series_id"`
	CurrentChapter int       `json:"current_chapter,omitempty"`
	Status         string    `json:"status,omitempty"`
	At             time.Time `json:"at"`
}

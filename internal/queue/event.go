// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// WatchlistAddedEvent is published when a user saves a content item to
// their watchlist. Downstream consumers can log, notify or feed
// analytics without touching the primary database.
type WatchlistAddedEvent struct {
	ItemUID    string `json:"item_uid"`
	UserID     uint64 `json:"user_id"`
	ContentUID string `json:"content_uid"`
	Title      string `json:"title"`
	AddedAt    string `json:"added_at"`
}

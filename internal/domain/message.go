// Package domain holds shared domain types and sentinel errors.
package domain

import "time"

// Message is a single piece of channel text handed to the engine by an
// ingestion collaborator. The engine never fetches messages itself.
type Message struct {
	ID     int64
	Sender int64
	Date   time.Time
	Text   string
}

package models

import "time"

// ActionType enumerates the recognized kinds of user events. See §6 of the
// engine design for value semantics per type.
type ActionType string

const (
	ActionRate          ActionType = "rate"
	ActionWatchTime     ActionType = "watchTime"
	ActionAddWatchlist  ActionType = "add_watchlist"
	ActionView          ActionType = "view"
	ActionClick         ActionType = "click"
)

// ValidActionTypes is the fixed set validateAction checks raw payloads
// against.
var ValidActionTypes = map[ActionType]bool{
	ActionRate:         true,
	ActionWatchTime:    true,
	ActionAddWatchlist: true,
	ActionView:         true,
	ActionClick:        true,
}

// ActionMetadata carries optional item attributes attached to an action at
// ingest time, used by the profile builder to attribute preference signal
// without a second catalog lookup.
type ActionMetadata struct {
	Genres      []string `json:"genres,omitempty" db:"genres"`
	Directors   []string `json:"directors,omitempty" db:"directors"`
	Actors      []string `json:"actors,omitempty" db:"actors"`
	Runtime     int      `json:"runtime,omitempty" db:"runtime"`
	ReleaseYear int      `json:"releaseYear,omitempty" db:"release_year"`
}

// Action is an immutable record of a user event. Produced by the tracking
// boundary, never mutated once persisted.
type Action struct {
	UserID     string          `json:"userId" db:"user_id"`
	ItemID     int             `json:"itemId" db:"item_id"`
	ActionType ActionType      `json:"actionType" db:"action_type"`
	Value      float64         `json:"value" db:"value"`
	Timestamp  time.Time       `json:"timestamp" db:"timestamp"`
	Metadata   *ActionMetadata `json:"metadata,omitempty" db:"metadata"`
}

// RawAction is the unvalidated payload accepted at the ingestion boundary
// (HTTP body or Kafka message) before validateAction promotes it to an
// Action or rejects it as INVALID_ACTION.
type RawAction struct {
	UserID     string          `json:"userId"`
	ItemID     *int            `json:"itemId"`
	ActionType string          `json:"actionType"`
	Value      *float64        `json:"value"`
	Timestamp  *time.Time      `json:"timestamp,omitempty"`
	Metadata   *ActionMetadata `json:"metadata,omitempty"`
}

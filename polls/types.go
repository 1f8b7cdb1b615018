// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import "time"

// Validation bounds for poll payloads.
const (
	TitleMinLen       = 5
	TitleMaxLen       = 100
	DescriptionMaxLen = 500
	OptionMinCount    = 2
	OptionValueMaxLen = 100
)

// PollForm is the submitted payload for creating or editing a poll.
type PollForm struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Options     []OptionInput `json:"options"`
}

// OptionInput is one submitted option. ID is empty for options that do
// not exist yet; an existing option that is not echoed back by its ID
// is deleted on update.
type OptionInput struct {
	ID    string `json:"id,omitempty"`
	Value string `json:"value"`
}

// Domain types

type Poll struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Option struct {
	ID        string    `json:"id"`
	PollID    string    `json:"poll_id"`
	Value     string    `json:"value"`
	Votes     int64     `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
}

type PollWithOptions struct {
	Poll       Poll     `json:"poll"`
	Options    []Option `json:"options"`
	TotalVotes int64    `json:"total_votes"`
}

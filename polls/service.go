// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlsen/ballotbox/store"
)

// Invalidator receives the view-invalidation signal after a successful
// mutation.
type Invalidator interface {
	Invalidate(path string)
}

// Service sequences validation, authorization, store writes and view
// invalidation for poll mutations. Every call is one sequential chain
// of store operations: no retries, no compensating writes. A step that
// fails aborts the rest and surfaces that step's error; steps already
// applied stay applied.
type Service struct {
	store store.Store
	views Invalidator
	now   func() time.Time
}

func NewService(st store.Store, views Invalidator) *Service {
	return &Service{
		store: st,
		views: views,
		now:   time.Now,
	}
}

// CreateData is the success payload of a poll mutation.
type CreateData struct {
	PollID string `json:"pollId"`
}

// CreatePoll validates the payload and inserts the poll plus its
// options. The options insert is not rolled back against an already
// inserted poll row on failure.
func (s *Service) CreatePoll(ctx context.Context, form PollForm, userID string) (CreateData, error) {
	if userID == "" {
		return CreateData{}, ErrMissingUser
	}
	if err := Validate(form); err != nil {
		return CreateData{}, err
	}

	pollID := uuid.New().String()
	now := s.now().UTC()

	_, err := s.store.InsertRow(ctx, "polls", store.Row{
		"id":          pollID,
		"title":       form.Title,
		"description": form.Description,
		"user_id":     userID,
		"created_at":  now,
		"updated_at":  now,
	})
	if err != nil {
		return CreateData{}, &StoreError{Op: "creating poll", Err: err}
	}

	rows := make([]store.Row, len(form.Options))
	for i, opt := range form.Options {
		rows[i] = store.Row{
			"id":         uuid.New().String(),
			"poll_id":    pollID,
			"value":      opt.Value,
			"votes":      0,
			"created_at": now,
		}
	}
	if err := s.store.InsertRows(ctx, "options", rows); err != nil {
		return CreateData{}, &StoreError{Op: "creating options", Err: err}
	}

	s.views.Invalidate("/polls")
	slog.Info("poll created", "poll_id", pollID, "user_id", userID, "options", len(form.Options))

	return CreateData{PollID: pollID}, nil
}

// UpdatePoll validates, authorizes, writes the poll row, then applies
// the reconciliation plan for the option set: value updates one at a
// time, one batched delete, one batched insert, strictly in that
// order.
func (s *Service) UpdatePoll(ctx context.Context, pollID string, form PollForm, userID string) (CreateData, error) {
	if userID == "" {
		return CreateData{}, ErrMissingUser
	}
	if err := Validate(form); err != nil {
		return CreateData{}, err
	}
	if err := CheckAuthorization(ctx, s.store, pollID, userID); err != nil {
		return CreateData{}, err
	}

	err := s.store.UpdateRows(ctx, "polls", store.Row{
		"title":       form.Title,
		"description": form.Description,
		"updated_at":  s.now().UTC(),
	}, store.Filter{"id": pollID})
	if err != nil {
		return CreateData{}, &StoreError{Op: "updating poll", Err: err}
	}

	optionRows, err := s.store.SelectRows(ctx, "options", store.Filter{"poll_id": pollID})
	if err != nil {
		return CreateData{}, &StoreError{Op: "fetching options", Err: err}
	}
	existing := make([]ExistingOption, len(optionRows))
	for i, row := range optionRows {
		existing[i] = ExistingOption{ID: row.String("id"), Value: row.String("value")}
	}

	plan := Reconcile(pollID, existing, form.Options)

	for _, upd := range plan.ToUpdate {
		err := s.store.UpdateRows(ctx, "options",
			store.Row{"value": upd.Value},
			store.Filter{"id": upd.ID})
		if err != nil {
			return CreateData{}, &StoreError{Op: "updating option", Err: err}
		}
	}

	if len(plan.ToDelete) > 0 {
		err := s.store.DeleteRows(ctx, "options", store.Filter{"id": plan.ToDelete})
		if err != nil {
			return CreateData{}, &StoreError{Op: "deleting options", Err: err}
		}
	}

	if len(plan.ToCreate) > 0 {
		now := s.now().UTC()
		rows := make([]store.Row, len(plan.ToCreate))
		for i, opt := range plan.ToCreate {
			rows[i] = store.Row{
				"id":         uuid.New().String(),
				"poll_id":    opt.PollID,
				"value":      opt.Value,
				"votes":      0,
				"created_at": now,
			}
		}
		if err := s.store.InsertRows(ctx, "options", rows); err != nil {
			return CreateData{}, &StoreError{Op: "creating new options", Err: err}
		}
	}

	s.views.Invalidate("/polls")
	s.views.Invalidate("/polls/" + pollID)
	slog.Info("poll updated", "poll_id", pollID,
		"updated", len(plan.ToUpdate), "deleted", len(plan.ToDelete), "created", len(plan.ToCreate))

	return CreateData{PollID: pollID}, nil
}

// VoteData is the success payload of a vote.
type VoteData struct {
	OptionID string `json:"optionId"`
}

// Vote increments an option's count. There is no per-user vote record;
// repeated calls count repeatedly.
func (s *Service) Vote(ctx context.Context, optionID string) (VoteData, error) {
	err := s.store.IncrementVote(ctx, optionID)
	if errors.Is(err, store.ErrNoRows) {
		return VoteData{}, ErrOptionNotFound
	}
	if err != nil {
		return VoteData{}, &StoreError{Op: "recording vote", Err: err}
	}

	// Refresh the cached views that show vote counts. Best effort: the
	// vote itself already succeeded.
	row, err := s.store.SelectSingle(ctx, "options", store.Filter{"id": optionID})
	if err != nil {
		slog.Warn("vote recorded but option lookup failed", "option_id", optionID, "error", err)
	} else {
		s.views.Invalidate("/polls")
		s.views.Invalidate("/polls/" + row.String("poll_id"))
	}

	return VoteData{OptionID: optionID}, nil
}

// GetPoll returns one poll with its options.
func (s *Service) GetPoll(ctx context.Context, pollID string) (PollWithOptions, error) {
	row, err := s.store.SelectSingle(ctx, "polls", store.Filter{"id": pollID})
	if errors.Is(err, store.ErrNoRows) {
		return PollWithOptions{}, ErrNotFound
	}
	if err != nil {
		return PollWithOptions{}, &StoreError{Op: "fetching poll", Err: err}
	}

	optionRows, err := s.store.SelectRows(ctx, "options", store.Filter{"poll_id": pollID})
	if err != nil {
		return PollWithOptions{}, &StoreError{Op: "fetching options", Err: err}
	}

	return assemble(row, optionRows), nil
}

// ListPolls returns every poll with its options, newest first.
func (s *Service) ListPolls(ctx context.Context) ([]PollWithOptions, error) {
	pollRows, err := s.store.SelectRows(ctx, "polls", nil)
	if err != nil {
		return nil, &StoreError{Op: "listing polls", Err: err}
	}

	optionRows, err := s.store.SelectRows(ctx, "options", nil)
	if err != nil {
		return nil, &StoreError{Op: "fetching options", Err: err}
	}
	byPoll := make(map[string][]store.Row)
	for _, row := range optionRows {
		pollID := row.String("poll_id")
		byPoll[pollID] = append(byPoll[pollID], row)
	}

	results := make([]PollWithOptions, len(pollRows))
	for i, row := range pollRows {
		results[i] = assemble(row, byPoll[row.String("id")])
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Poll.CreatedAt.After(results[j].Poll.CreatedAt)
	})

	return results, nil
}

func assemble(pollRow store.Row, optionRows []store.Row) PollWithOptions {
	poll := Poll{
		ID:          pollRow.String("id"),
		Title:       pollRow.String("title"),
		Description: pollRow.String("description"),
		UserID:      pollRow.String("user_id"),
		CreatedAt:   pollRow.Time("created_at"),
		UpdatedAt:   pollRow.Time("updated_at"),
	}

	options := make([]Option, len(optionRows))
	var total int64
	for i, row := range optionRows {
		options[i] = Option{
			ID:        row.String("id"),
			PollID:    row.String("poll_id"),
			Value:     row.String("value"),
			Votes:     row.Int("votes"),
			CreatedAt: row.Time("created_at"),
		}
		total += options[i].Votes
	}
	sort.Slice(options, func(i, j int) bool {
		if !options[i].CreatedAt.Equal(options[j].CreatedAt) {
			return options[i].CreatedAt.Before(options[j].CreatedAt)
		}
		return options[i].ID < options[j].ID
	})

	return PollWithOptions{Poll: poll, Options: options, TotalVotes: total}
}

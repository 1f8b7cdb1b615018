// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

// ExistingOption is an option as currently persisted.
type ExistingOption struct {
	ID    string
	Value string
}

// OptionUpdate is a single-field value change keyed by option id.
type OptionUpdate struct {
	ID    string
	Value string
}

// NewOption is a not-yet-persisted option bound to its poll.
type NewOption struct {
	PollID string
	Value  string
}

// Plan partitions a submitted option set against the persisted one.
// The three sets are disjoint.
type Plan struct {
	ToUpdate []OptionUpdate
	ToDelete []string
	ToCreate []NewOption
}

// Reconcile computes the update/delete/insert plan for a poll edit.
// Pairing is by id equality:
//
//   - submitted options with a known id and a changed value → ToUpdate
//   - persisted ids absent from the submission → ToDelete
//   - submitted options without an id → ToCreate
//
// Updating in place rather than replacing the whole set preserves
// option identity, and with it the accumulated vote count, whenever
// the client echoes the id back. Omitting an existing option's id
// deletes it; that is the contract, not an accident to repair here.
//
// Duplicate ids within the submission resolve last-write-wins. An
// empty submission yields a delete-everything plan; the validator's
// minimum-option rule keeps that unreachable through the service.
// Pure function; no side effects.
func Reconcile(pollID string, existing []ExistingOption, submitted []OptionInput) Plan {
	existingByID := make(map[string]string, len(existing))
	for _, opt := range existing {
		existingByID[opt.ID] = opt.Value
	}

	// Later duplicates overwrite earlier ones: last write wins.
	submittedByID := make(map[string]OptionInput, len(submitted))
	for _, opt := range submitted {
		if opt.ID != "" {
			submittedByID[opt.ID] = opt
		}
	}

	var plan Plan
	seen := make(map[string]bool, len(submitted))
	for _, opt := range submitted {
		if opt.ID == "" {
			plan.ToCreate = append(plan.ToCreate, NewOption{PollID: pollID, Value: opt.Value})
			continue
		}
		if seen[opt.ID] {
			continue
		}
		seen[opt.ID] = true

		final := submittedByID[opt.ID]
		if current, ok := existingByID[opt.ID]; ok && current != final.Value {
			plan.ToUpdate = append(plan.ToUpdate, OptionUpdate{ID: opt.ID, Value: final.Value})
		}
	}

	for _, opt := range existing {
		if _, ok := submittedByID[opt.ID]; !ok {
			plan.ToDelete = append(plan.ToDelete, opt.ID)
		}
	}

	return plan
}

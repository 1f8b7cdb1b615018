// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import "fmt"

// Validate checks a submitted poll payload against the structural
// rules. It collects every violation rather than stopping at the
// first, and returns a *ValidationError when any rule fails. Any
// violation blocks the whole operation; there is no partial pass.
//
// Rules:
//   - title length in [5, 100]
//   - description optional, length <= 500
//   - at least 2 options, each value length in [1, 100]
func Validate(form PollForm) error {
	var issues []Issue

	if len(form.Title) < TitleMinLen {
		issues = append(issues, Issue{
			Field:   "title",
			Message: "Title must be at least 5 characters",
		})
	} else if len(form.Title) > TitleMaxLen {
		issues = append(issues, Issue{
			Field:   "title",
			Message: "Title must be less than 100 characters",
		})
	}

	if len(form.Description) > DescriptionMaxLen {
		issues = append(issues, Issue{
			Field:   "description",
			Message: "Description must be less than 500 characters",
		})
	}

	if len(form.Options) < OptionMinCount {
		issues = append(issues, Issue{
			Field:   "options",
			Message: "At least 2 options are required",
		})
	}
	for i, opt := range form.Options {
		if len(opt.Value) == 0 {
			issues = append(issues, Issue{
				Field:   fmt.Sprintf("options[%d].value", i),
				Message: "Option cannot be empty",
			})
		} else if len(opt.Value) > OptionValueMaxLen {
			issues = append(issues, Issue{
				Field:   fmt.Sprintf("options[%d].value", i),
				Message: "Option must be less than 100 characters",
			})
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

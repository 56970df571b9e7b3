// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

// Package validation checks request DTOs with go-playground/validator v10.
//
// A single validator instance is shared by every handler. It reports fields
// by their json tag so error details use the names clients sent:
//
//	var req models.SignupRequest
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    // verr.ToAPIError() -> 400 VALIDATION_ERROR with per-field details
//	}
//
// Supported messages cover required, email, alphanum, eqfield, oneof, the
// numeric comparisons and min/max with string-aware wording. Any other tag
// falls back to "<field> failed <tag> validation".
package validation

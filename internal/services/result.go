package services

import (
	"encoding/json"
	"fmt"

	"github.com/desertthunder/setlist/internal/shared"
)

// Outcome tags a [Result].
type Outcome int

const (
	// OutcomeBody is a success carrying a JSON body.
	OutcomeBody Outcome = iota
	// OutcomeEmpty is a success whose body was discarded or absent.
	OutcomeEmpty
	// OutcomeFailed carries one of the shared error kinds.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBody:
		return "body"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the outcome of a provider call: a JSON body, an empty success, or an error.
type Result struct {
	kind Outcome
	body json.RawMessage
	err  error
}

func bodyResult(body json.RawMessage) Result { return Result{kind: OutcomeBody, body: body} }
func emptyResult() Result { return Result{kind: OutcomeEmpty} }
func failedResult(err error) Result { return Result{kind: OutcomeFailed, err: err} }

// Kind reports which outcome this is.
func (r Result) Kind() Outcome { return r.kind }

// Err returns the failure, or nil on success.
func (r Result) Err() error { return r.err }

// Body returns the raw JSON body; nil for empty and failed results.
func (r Result) Body() json.RawMessage { return r.body }

// Unwrap splits the result into the (body, error) pair; an empty success yields (nil, nil).
func (r Result) Unwrap() (json.RawMessage, error) {
	return r.body, r.err
}

// Decode unmarshals the body into v.
//
// An empty result is an error here since the caller asked for a body; use [Result.Err]
// for calls that expect nothing back.
func (r Result) Decode(v any) error {
	switch r.kind {
	case OutcomeFailed:
		return r.err
	case OutcomeEmpty:
		return fmt.Errorf("%w: expected a response body, got none", shared.ErrAPIRequest)
	}
	if err := json.Unmarshal(r.body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

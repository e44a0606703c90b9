package domain

import "errors"

// ErrUnknownAction is returned when a label is not one of the defined actions.
var ErrUnknownAction = errors.New("unknown action")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrExhausted is returned by generative actions (QUERY, UTTERANCE) when the
// generator has nothing left to issue. It ends a session gracefully.
var ErrExhausted = errors.New("generator exhausted")

// ErrEndOfPage is returned when the SERP cursor is past the last result.
var ErrEndOfPage = errors.New("end of result page")

// ErrNoQueryIssued is returned when a result is requested before any query was issued.
var ErrNoQueryIssued = errors.New("no query issued")

// ErrNoResponse is returned when a response is requested before any utterance was issued.
var ErrNoResponse = errors.New("no response available")

// ErrNothingExamined is returned when a document is requested before any snippet was examined.
var ErrNothingExamined = errors.New("no snippet examined")

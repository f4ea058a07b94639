// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel errors for engine lifecycle conditions. The API layer maps
// these to user-facing responses; none should crash the process.
var (
	// ErrInsufficientData is returned by Train when the feature store
	// holds no events.
	ErrInsufficientData = errors.New("insufficient training data: feature store is empty")

	// ErrNotReady is returned by serving operations before any
	// successful Train or LoadModel, so the uninitialized state stays
	// observable instead of looking like "no matches".
	ErrNotReady = errors.New("engine not ready: no trained model")

	// ErrTrainingInProgress is returned when Train is called while
	// another training run holds the training lock.
	ErrTrainingInProgress = errors.New("training already in progress")
)

// NotFoundError reports a lookup for an event absent from the trained
// event ordering.
type NotFoundError struct {
	EventID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("event %q not found", e.EventID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// InvalidFilterError reports a malformed filter value, detected at the
// boundary before any scoring work.
type InvalidFilterError struct {
	Field  string
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter %s: %s", e.Field, e.Reason)
}

// IsInvalidFilter reports whether err is an InvalidFilterError.
func IsInvalidFilter(err error) bool {
	var inv *InvalidFilterError
	return errors.As(err, &inv)
}

// PersistenceError reports a model snapshot save or load failure. A
// failed load leaves the engine in its prior state.
type PersistenceError struct {
	Op   string // "save" or "load"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s model snapshot %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistence reports whether err is a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

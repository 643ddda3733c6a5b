// Package errors defines the failure taxonomy shared by the engine and its callers.
//
// Three kinds exist. A ValidationError means the caller supplied malformed
// input and nothing was mutated. A PolicyRejection is a normal "not allowed
// right now" answer (habit already done, not enough gold) that callers are
// expected to render as a disabled action. A NotFoundError names an unknown
// character, item, habit or skill. Anything else is a storage failure.
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable policy rejection code.
type Code string

const (
	CodeHabitDoneToday       Code = "HABIT_DONE_TODAY"
	CodeInsufficientCurrency Code = "INSUFFICIENT_CURRENCY"
	CodeTaskAlreadyCompleted Code = "TASK_ALREADY_COMPLETED"
	CodeSkillAlreadyMastered Code = "SKILL_ALREADY_MASTERED"
	CodeWorkoutInProgress    Code = "WORKOUT_IN_PROGRESS"
	CodeNoActiveWorkout      Code = "NO_ACTIVE_WORKOUT"
	CodeWorkoutNotCleared    Code = "WORKOUT_NOT_CLEARED"
	CodeWorkoutCleared       Code = "WORKOUT_CLEARED"
	CodeAllSetsDone          Code = "ALL_SETS_DONE"
	CodeNotPermitted         Code = "NOT_PERMITTED"
)

// ValidationError reports malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidation builds a ValidationError.
func NewValidation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PolicyRejection reports an action the rules do not allow in the current state.
type PolicyRejection struct {
	Code   Code
	Reason string
}

func (e *PolicyRejection) Error() string {
	return e.Reason
}

// Is matches rejections by code so wrapped or detailed copies still match the sentinels.
func (e *PolicyRejection) Is(target error) bool {
	t, ok := target.(*PolicyRejection)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithReason returns a copy of the rejection carrying a more specific reason.
func (e *PolicyRejection) WithReason(format string, args ...any) *PolicyRejection {
	return &PolicyRejection{Code: e.Code, Reason: fmt.Sprintf(format, args...)}
}

var (
	ErrHabitDoneToday       = &PolicyRejection{Code: CodeHabitDoneToday, Reason: "habit already completed today"}
	ErrInsufficientCurrency = &PolicyRejection{Code: CodeInsufficientCurrency, Reason: "not enough gold"}
	ErrTaskAlreadyCompleted = &PolicyRejection{Code: CodeTaskAlreadyCompleted, Reason: "task already completed"}
	ErrSkillAlreadyMastered = &PolicyRejection{Code: CodeSkillAlreadyMastered, Reason: "skill already mastered"}
	ErrWorkoutInProgress    = &PolicyRejection{Code: CodeWorkoutInProgress, Reason: "a workout is already in progress"}
	ErrNoActiveWorkout      = &PolicyRejection{Code: CodeNoActiveWorkout, Reason: "no workout in progress"}
	ErrWorkoutNotCleared    = &PolicyRejection{Code: CodeWorkoutNotCleared, Reason: "workout has exercises left"}
	ErrWorkoutCleared       = &PolicyRejection{Code: CodeWorkoutCleared, Reason: "workout already cleared, claim the rewards"}
	ErrAllSetsDone          = &PolicyRejection{Code: CodeAllSetsDone, Reason: "all planned sets already done"}
	ErrNotPermitted         = &PolicyRejection{Code: CodeNotPermitted, Reason: "session lacks the admin capability"}
)

// NotFoundError reports an unknown entity.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Name)
}

// NewNotFound builds a NotFoundError.
func NewNotFound(kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsPolicy reports whether err is or wraps a PolicyRejection.
func IsPolicy(err error) bool {
	var target *PolicyRejection
	return errors.As(err, &target)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// CodeOf returns the rejection code carried by err, or "" if it is not a PolicyRejection.
func CodeOf(err error) Code {
	var target *PolicyRejection
	if errors.As(err, &target) {
		return target.Code
	}
	return ""
}

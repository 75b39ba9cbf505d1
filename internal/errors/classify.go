package errors

import (
	"errors"
	"syscall"

	"github.com/dgraph-io/badger/v4"

	"github.com/manav03panchal/undoctl/internal/drawing"
	"github.com/manav03panchal/undoctl/internal/undo"
)

// Category represents the type of error for display and handling purposes.
type Category int

const (
	// CategoryUnknown is the default for unclassified errors.
	CategoryUnknown Category = iota
	// CategoryUser indicates an error the user can fix (bad input, nothing to undo).
	CategoryUser
	// CategorySystem indicates a system-level error (disk full, corrupt journal).
	CategorySystem
	// CategoryRecoverable indicates an error that goes away on retry.
	CategoryRecoverable
	// CategoryInternal indicates misuse of the undo engine by its host.
	CategoryInternal
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategorySystem:
		return "system"
	case CategoryRecoverable:
		return "recoverable"
	case CategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// userSentinels are errors the user triggers and can avoid.
var userSentinels = []error{
	undo.ErrNothingToUndo,
	undo.ErrNothingToRedo,
	drawing.ErrShapeNotFound,
	drawing.ErrDuplicateName,
	drawing.ErrInvalidShape,
	ErrInvalidScript,
	ErrInvalidCommand,
	ErrInvalidTimestamp,
	ErrInvalidConfig,
	ErrJournalDisabled,
	ErrNotATerminal,
}

// internalSentinels are contract violations by the code driving the engine.
var internalSentinels = []error{
	undo.ErrUnbalancedGrouping,
	undo.ErrUnbalancedEnable,
	undo.ErrRemovalDuringReplay,
	undo.ErrNoTarget,
}

// Classify determines the category of an error.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	// Typed errors first
	if IsUserError(err) {
		return CategoryUser
	}
	if IsSystemError(err) {
		return CategorySystem
	}

	if matchesAny(err, internalSentinels) {
		return CategoryInternal
	}
	if matchesAny(err, userSentinels) {
		return CategoryUser
	}
	if isRecoverablePattern(err) {
		return CategoryRecoverable
	}
	if isSystemLevel(err) {
		return CategorySystem
	}

	return CategoryUnknown
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// isSystemLevel checks if an error is a system-level error.
func isSystemLevel(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOSPC, syscall.EACCES, syscall.EPERM, syscall.ENOENT, syscall.EIO, syscall.EROFS:
			return true
		}
	}

	return errors.Is(err, ErrDiskFull) ||
		errors.Is(err, ErrDatabaseCorrupted) ||
		errors.Is(err, ErrPermissionDenied)
}

// isRecoverablePattern checks if an error goes away on retry.
func isRecoverablePattern(err error) bool {
	if errors.Is(err, ErrLockHeld) ||
		errors.Is(err, badger.ErrConflict) {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EAGAIN, syscall.EINTR:
			return true
		}
	}

	return false
}

// ClassifiedError wraps an error with its classification.
type ClassifiedError struct {
	Err      error
	Category Category
}

func (e *ClassifiedError) Error() string {
	return e.Err.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// WithCategory wraps an error with an explicit category.
func WithCategory(err error, category Category) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{
		Err:      err,
		Category: category,
	}
}

// GetCategory returns the category of an error.
// If the error was wrapped with WithCategory, returns that category.
// Otherwise, uses Classify to determine the category.
func GetCategory(err error) Category {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category
	}
	return Classify(err)
}

// IsUserCategory returns true if the error is a user-fixable error.
func IsUserCategory(err error) bool {
	return GetCategory(err) == CategoryUser
}

// IsInternalCategory returns true if the error is an engine misuse.
func IsInternalCategory(err error) bool {
	return GetCategory(err) == CategoryInternal
}

// FormatByCategory returns a user-appropriate error message based on category.
func FormatByCategory(err error) string {
	if err == nil {
		return ""
	}

	category := GetCategory(err)
	msg := err.Error()
	suggestion := GetSuggestion(err)

	switch category {
	case CategoryUser:
		if suggestion != "" {
			return msg + "\n\nTry: " + suggestion
		}
		return msg

	case CategorySystem:
		if suggestion != "" {
			return "System error: " + msg + "\n\n" + suggestion
		}
		return "System error: " + msg

	case CategoryRecoverable:
		if suggestion != "" {
			return msg + "\n\n" + suggestion
		}
		return msg + " (try again)"

	case CategoryInternal:
		return "Internal error: " + msg

	default:
		return msg
	}
}

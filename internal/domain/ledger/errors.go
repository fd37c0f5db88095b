package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrAgreementNotFound = errors.New("ledger: agreement not found")
	// ErrNoActiveAgreement is the terminal-state rejection: recording a
	// payment once paymentsMade == months.
	ErrNoActiveAgreement = errors.New("ledger: no active agreement")
)

// RevertError is a ledger-level rejection of a submitted mutation. The
// mutation is known NOT to have applied. Reason carries the revert string
// when the node surfaced one.
type RevertError struct {
	Op     string
	Reason string
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("ledger: %s reverted", e.Op)
	}
	return fmt.Sprintf("ledger: %s reverted: %s", e.Op, e.Reason)
}

// NetworkError is a transport failure before the outcome of a call was
// observed; for reads it is safe to retry, for mutations the caller must
// not assume the submission was dropped.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("ledger: %s: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// IndeterminateError means a mutation was submitted but its finality was not
// observed within the bounded wait. It must not be treated as success and
// must not be silently retried.
type IndeterminateError struct {
	Op   string
	Hash string
}

func (e *IndeterminateError) Error() string {
	return fmt.Sprintf("ledger: %s outcome unknown (tx %s)", e.Op, e.Hash)
}

// IsRevert reports whether err classifies as a ledger-level revert.
func IsRevert(err error) bool {
	var re *RevertError
	return errors.As(err, &re)
}

// IsIndeterminate reports whether err is an unresolved submission.
func IsIndeterminate(err error) bool {
	var ie *IndeterminateError
	return errors.As(err, &ie)
}

package domain

import (
	"errors"
	"time"
)

// OutcomeKind classifies how a single command ended.
type OutcomeKind string

const (
	OutcomeSucceeded           OutcomeKind = "succeeded"
	OutcomeFailed              OutcomeKind = "failed"
	OutcomeSucceededWithStderr OutcomeKind = "succeeded_with_stderr"
)

// ExecutionOutcome is the result of one command in a confirmed sequence.
type ExecutionOutcome struct {
	Index    int
	Command  string
	Kind     OutcomeKind
	Stdout   string
	Stderr   string
	Err      error
	ExitCode int
	Duration time.Duration
}

// Continues reports whether the next queued command may start.
func (o ExecutionOutcome) Continues() bool {
	return o.Kind == OutcomeSucceeded
}

// Classify maps a finished process to an outcome kind. Any stderr output stops
// the chain even on a clean exit.
func Classify(err error, stderr string) OutcomeKind {
	switch {
	case err != nil:
		return OutcomeFailed
	case stderr != "":
		return OutcomeSucceededWithStderr
	default:
		return OutcomeSucceeded
	}
}

// ExitCode returns the process exit status carried by err: 0 for nil and -1
// when the process never reported one.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return -1
}

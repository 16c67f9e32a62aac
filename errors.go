package mcastkit

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/opd-ai/mcastkit/probe"
	"github.com/opd-ai/mcastkit/transport"
	"github.com/opd-ai/mcastkit/video"
)

// FailureKind sorts keyword failures into the categories a test report
// distinguishes.
type FailureKind int

const (
	// FailureExternal covers runtime faults in the system under test
	// or its environment: socket errors, stream decode failures,
	// filesystem problems during an operation.
	FailureExternal FailureKind = iota
	// FailureNotFound covers missing input files and directories.
	FailureNotFound
	// FailureInvalidArgument covers keyword arguments that can never
	// work: TTL out of range, a unicast group, an unknown image
	// format.
	FailureInvalidArgument
	// FailureAssertion covers verification keywords whose check did
	// not hold.
	FailureAssertion
)

// String returns the report label for the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureExternal:
		return "external failure"
	case FailureNotFound:
		return "not found"
	case FailureInvalidArgument:
		return "invalid argument"
	case FailureAssertion:
		return "assertion failed"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

// KeywordError is the failure type every keyword returns. It names the
// keyword, classifies the failure, and wraps the underlying cause.
type KeywordError struct {
	Keyword string
	Kind    FailureKind
	Err     error
}

// Error formats the failure with its keyword context.
func (e *KeywordError) Error() string {
	return fmt.Sprintf("keyword %s: %v", e.Keyword, e.Err)
}

// Unwrap returns the underlying error.
func (e *KeywordError) Unwrap() error {
	return e.Err
}

// invalidArgumentSentinels are the causes that mean the caller's
// arguments can never work, regardless of environment.
var invalidArgumentSentinels = []error{
	transport.ErrTTLRange,
	transport.ErrBadGroupAddress,
	transport.ErrNotMulticast,
	transport.ErrPortRange,
	transport.ErrNilSocket,
	probe.ErrBadHost,
	video.ErrBadImageFormat,
	video.ErrBadDimensions,
	video.ErrUnsupportedVideo,
	video.ErrNilFrame,
	ErrBadStreamURL,
}

// classify maps an underlying error onto the failure taxonomy.
func classify(err error) FailureKind {
	if errors.Is(err, fs.ErrNotExist) {
		return FailureNotFound
	}
	for _, sentinel := range invalidArgumentSentinels {
		if errors.Is(err, sentinel) {
			return FailureInvalidArgument
		}
	}
	return FailureExternal
}

// newKeywordError wraps err as a classified keyword failure.
func newKeywordError(keyword string, err error) *KeywordError {
	return &KeywordError{
		Keyword: keyword,
		Kind:    classify(err),
		Err:     err,
	}
}

// newAssertionError builds an assertion-kind failure with the given
// message.
func newAssertionError(keyword, format string, args ...interface{}) *KeywordError {
	return &KeywordError{
		Keyword: keyword,
		Kind:    FailureAssertion,
		Err:     fmt.Errorf(format, args...),
	}
}

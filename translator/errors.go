package translator

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind int

const (
	// KindInvalidInput covers everything the submitter can fix: a bad url,
	// data type or descriptor, an unknown assembly, a hubCheck error.
	KindInvalidInput Kind = iota
	KindForbidden
	// KindConflict is a concurrent submission of the same hub, retriable.
	KindConflict
	// KindUpstream means a remote host or the validator could not be reached.
	KindUpstream
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	case KindInternal:
		return "internal"
	}
	return "unknown"
}

const (
	MsgMissingURL    = "Something went wrong with the hub submission, please make sure that 'url' field exists"
	MsgBadURL        = "Something went wrong with the hub submission, please make sure that url is correct"
	MsgSuccess       = "The hub is submitted/updated successfully"
	MsgLockBusy      = "a submission for this hub is already in progress, please retry later"
	msgInternal      = "An internal error has occurred!"
	msgNotOwner      = "The hub '%s' was submitted by another user, only its owner can update it"
	msgTrackdbOwned  = "The trackDb '%s' belongs to a hub of another user"
	msgInvalidType   = "'%s' isn't a valid data type, the valid ones are: '%s'"
	msgUnreachable   = "Couldn't fetch '%s', please make sure that the remote server is reachable"
	msgNoGenomesFile = "The hub '%s' doesn't declare a genomesFile"
	msgNoGenome      = "No genome found in '%s'"
	msgNoTrackDb     = "The genome '%s' doesn't declare a trackDb"
	msgNoAssembly    = "None of the requested assemblies (%s) is declared in '%s'"
	msgHubCheckDown  = "The hub validator is unavailable, please retry later or skip hubCheck"
)

// SubmissionError is the single structured error of a rejected submission.
// Message is safe to show to the submitter.
type SubmissionError struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, cause error) *SubmissionError {
	return &SubmissionError{Kind: kind, Message: message, Err: cause}
}

func internalError(cause error) *SubmissionError {
	return newError(KindInternal, msgInternal, cause)
}

// AsSubmissionError returns the SubmissionError in err's chain, or an
// internal one wrapping err.
func AsSubmissionError(err error) *SubmissionError {
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		return subErr
	}
	return internalError(err)
}

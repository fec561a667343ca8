package hubcheck

import (
	"fmt"
	"strings"
)

type Status int

const (
	StatusSuccess Status = iota
	StatusWarning
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	}
	return "unknown"
}

const (
	successMessage = "hubCheck done! Nothing to report!"
	warningMessage = "Warnings found (they can be ignored)"
	warningPrefix  = "warning:"
)

// Result is the outcome of validating one hub. Only StatusError blocks a
// submission.
type Result struct {
	Status  Status
	Message string
	Details []string
}

func (r *Result) IsError() bool {
	return r.Status == StatusError
}

// ParseOutput classifies hubCheck output. hubCheck exits non-zero even when
// it only has warnings, so the exit code alone says nothing. The first line
// is a summary, every later line starting with "warning:" is a warning and
// every other line an error. Errors take precedence over warnings.
func ParseOutput(hubURL string, exitCode int, output string) *Result {
	if exitCode == 0 {
		return &Result{Status: StatusSuccess, Message: successMessage}
	}
	lines := nonEmptyLines(output)
	if len(lines) == 0 {
		return &Result{
			Status:  StatusError,
			Message: fmt.Sprintf("Error in hub %s: hubCheck exited with code %d", hubURL, exitCode),
		}
	}
	summary, details := lines[0], lines[1:]

	hasError, hasWarning := false, false
	for _, line := range details {
		if strings.HasPrefix(line, warningPrefix) {
			hasWarning = true
		} else {
			hasError = true
		}
	}
	// A lone summary line on a failed run is the fatal error itself.
	if hasError || !hasWarning {
		return &Result{
			Status:  StatusError,
			Message: fmt.Sprintf("Error in hub %s: %s", hubURL, strings.Trim(summary, ":")),
			Details: details,
		}
	}
	return &Result{Status: StatusWarning, Message: warningMessage, Details: details}
}

func nonEmptyLines(output string) []string {
	lines := []string{}
	for _, line := range strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

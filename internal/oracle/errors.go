package oracle

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports that an oracle executable could not be located.
	ErrNotFound = errors.New("oracle executable not found")
	// ErrFailure marks every *Error so callers can classify without errors.As.
	ErrFailure = errors.New("oracle failure")
)

// Error describes a failed oracle invocation.
type Error struct {
	Tool     string
	Args     []string
	ExitCode int // -1 when the process did not exit normally
	Output   string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Tool)
	if len(e.Args) > 0 {
		b.WriteByte(' ')
		b.WriteString(e.Args[0])
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	} else if e.ExitCode != 0 {
		fmt.Fprintf(&b, ": exit status %d", e.ExitCode)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		b.WriteString(": ")
		b.WriteString(out)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFailure}
	}
	return []error{ErrFailure, e.Err}
}

// Output returns the raw program output attached to err, if any.
func Output(err error) (string, bool) {
	var oerr *Error
	if errors.As(err, &oerr) {
		return oerr.Output, true
	}
	return "", false
}

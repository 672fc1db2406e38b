package format

import (
	"errors"
	"fmt"
)

// ErrNoSpeeches is returned by FormatBuilder.Build when the document
// defined no speeches.  Callers surface it together with the document
// name collected so far.
var ErrNoSpeeches = errors.New("there are no speeches in this format")

// BuilderError reports a violated builder constraint: a duplicate
// reference, an unknown reference, or a call-ordering problem.  It
// carries a human-readable message so parsers can accumulate it into
// their error logs verbatim.
type BuilderError struct {
	msg string
}

func (e *BuilderError) Error() string { return e.msg }

func builderErrorf(format string, args ...interface{}) *BuilderError {
	return &BuilderError{msg: fmt.Sprintf(format, args...)}
}

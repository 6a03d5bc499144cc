package codec

import (
	stderrors "errors"
)

// Reporter renders a decode failure as human-readable lines.
type Reporter interface {
	Report(err error) []string
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(err error) []string

// Report calls f(err).
func (f ReporterFunc) Report(err error) []string { return f(err) }

// PathReporter renders one "path: message" line per issue.
var PathReporter Reporter = ReporterFunc(Report)

// Report renders err as one line per issue when it wraps a *DecodeError,
// or as a single line otherwise. A nil error yields no lines.
func Report(err error) []string {
	if err == nil {
		return nil
	}
	var decErr *DecodeError
	if !stderrors.As(err, &decErr) {
		return []string{err.Error()}
	}
	lines := make([]string, len(decErr.Issues))
	for i, issue := range decErr.Issues {
		lines[i] = issue.String()
	}
	return lines
}

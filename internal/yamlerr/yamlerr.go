// Package yamlerr turns yaml.v3 decoding errors into file:line:column
// diagnostics.
package yamlerr

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Error is a YAML decoding error located in its source. Line and Column are
// 1-based; zero means the decoder did not report them.
type Error struct {
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	var loc string
	switch {
	case e.Line > 0 && e.Column > 0:
		loc = fmt.Sprintf("%d:%d", e.Line, e.Column)
	case e.Line > 0:
		loc = fmt.Sprintf("%d", e.Line)
	}

	switch {
	case e.File != "" && loc != "":
		return fmt.Sprintf("%s:%s: %s", e.File, loc, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	case loc != "":
		return fmt.Sprintf("line %s: %s", loc, e.Message)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Locate wraps err, as returned by a yaml.v3 decoder reading file, with the
// position it reports. A type error with several entries is located at the
// first one.
func Locate(file string, err error) *Error {
	e := &Error{File: file, Err: err}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		e.Line, e.Column, e.Message = splitLocation(typeErr.Errors[0])
		if n := len(typeErr.Errors); n > 1 {
			e.Message += fmt.Sprintf(" (and %d more)", n-1)
		}
		return e
	}

	e.Line, e.Column, e.Message = splitLocation(strings.TrimPrefix(err.Error(), "yaml: "))
	return e
}

// splitLocation parses the "line N:" or "line N: column M:" prefix yaml.v3
// puts in front of its messages.
func splitLocation(msg string) (line, column int, rest string) {
	var l, c int
	if n, _ := fmt.Sscanf(msg, "line %d: column %d:", &l, &c); n == 2 {
		return l, c, strings.TrimPrefix(msg, fmt.Sprintf("line %d: column %d: ", l, c))
	}
	if n, _ := fmt.Sscanf(msg, "line %d:", &l); n == 1 {
		return l, 0, strings.TrimPrefix(msg, fmt.Sprintf("line %d: ", l))
	}
	return 0, 0, msg
}

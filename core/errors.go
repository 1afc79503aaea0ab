/*
Package core holds definitions shared by all packages of textmesh.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package core

import (
	"errors"
	"fmt"
	"io"
)

// Error codes for layout and asset handling
const (
	NOERROR    int = 0
	EMISSING   int = 122 // asset or glyph does not exist
	EINVALID   int = 123 // validation of input failed
	EFORMAT    int = 124 // font data or descriptor malformed
	EINTERNAL  int = 125 // internal error
	EEXHAUSTED int = 126 // iteration limit reached
)

func errorText(ecode int) string {
	switch ecode {
	case NOERROR:
		return "OK"
	case EMISSING:
		return "asset not found"
	case EINVALID:
		return "invalid input"
	case EFORMAT:
		return "malformed font data"
	case EINTERNAL:
		return "internal error"
	case EEXHAUSTED:
		return "iteration limit exhausted"
	}
	return "undefined error"
}

// AppError is an error with an associated error code and a user-message.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type meshError struct {
	error
	code int
	msg  string
}

func (e meshError) Unwrap() error {
	return e.error
}

func (e meshError) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("[%d] %v", e.code, e.error)
	}
	return fmt.Sprintf("[%d] %s: %v", e.code, e.msg, e.error)
}

func (e meshError) ErrorCode() int {
	return e.code
}

func (e meshError) UserMessage() string {
	return e.msg
}

var _ AppError = meshError{}

// WrapError wraps err, adding an error code and a user message.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return meshError{err, code, fmt.Sprintf(format, v...)}
}

// Error creates an error with an error code and a user-message.
func Error(code int, format string, v ...interface{}) error {
	return meshError{
		errors.New(errorText(code)),
		code,
		fmt.Sprintf(format, v...),
	}
}

// Code returns the error code associated with an error.
// Errors without a code report EINTERNAL, a nil error NOERROR.
func Code(err error) (code int) {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the user message associated with an error.
// If err is nil, it returns "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// ReportError writes a one-line description of err to w.
func ReportError(w io.Writer, err error) {
	if e := AppError(nil); errors.As(err, &e) {
		fmt.Fprintf(w, "[%d] %s\n", e.ErrorCode(), e.UserMessage())
		return
	}
	fmt.Fprintf(w, "error: %s\n", err.Error())
}

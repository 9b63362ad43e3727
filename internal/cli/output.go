package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/poolsort/internal/engine"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Sort failure (ordering violation, worker start failure, allocation)
	ExitCommandError = 2 // Command error (bad flags, unreadable input, database not found, etc.)
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error // optional cause
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps err to a process exit code. Errors that are not an
// ExitError count as sort failures.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Response is the JSON envelope written by every command in --format json.
type Response struct {
	Status string         `json:"status"` // "ok" or "error"
	Data   any            `json:"data,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

// ResponseError describes a failed command in the JSON envelope.
type ResponseError struct {
	Code     string `json:"code"` // SortErrorCode, or COMMAND_ERROR
	Message  string `json:"message"`
	ExitCode int    `json:"exit_code"`
}

// CodeCommandError is the envelope code for failures outside the sort engine.
const CodeCommandError = "COMMAND_ERROR"

// OutputFormatter writes command results. Results go to Out; diagnostics
// go to Diag so they never mix with JSON or sorted values.
type OutputFormatter struct {
	Format  string
	Out     io.Writer
	Diag    io.Writer
	Verbose bool

	p *message.Printer
}

func newFormatter(format string, out, diag io.Writer, verbose bool) *OutputFormatter {
	return &OutputFormatter{
		Format:  format,
		Out:     out,
		Diag:    diag,
		Verbose: verbose,
		p:       message.NewPrinter(language.English),
	}
}

func (f *OutputFormatter) isJSON() bool { return f.Format == "json" }

// Data writes v inside a success envelope on one line.
func (f *OutputFormatter) Data(v any) error {
	return json.NewEncoder(f.Out).Encode(Response{Status: "ok", Data: v})
}

// Fail reports err. JSON mode writes an error envelope to Out; text mode
// writes one line to Diag.
func (f *OutputFormatter) Fail(err error) {
	code := errorCode(err)
	if f.isJSON() {
		_ = json.NewEncoder(f.Out).Encode(Response{
			Status: "error",
			Error: &ResponseError{
				Code:     code,
				Message:  err.Error(),
				ExitCode: GetExitCode(err),
			},
		})
		return
	}
	fmt.Fprintf(f.Diag, "Error [%s]: %v\n", code, err)
}

// Summary writes a human-readable line to Out. Integers are digit-grouped.
func (f *OutputFormatter) Summary(format string, args ...any) {
	f.p.Fprintf(f.Out, format+"\n", args...)
}

// Verbosef writes a digit-grouped line to Diag when --verbose is set.
func (f *OutputFormatter) Verbosef(format string, args ...any) {
	if !f.Verbose {
		return
	}
	f.p.Fprintf(f.Diag, format+"\n", args...)
}

// errorCode returns the engine error code carried by err, if any.
func errorCode(err error) string {
	var se *engine.SortError
	if errors.As(err, &se) {
		return string(se.Code)
	}
	return CodeCommandError
}

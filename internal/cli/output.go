package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/entitygraph/internal/graphdoc"
	"github.com/roach88/entitygraph/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Scenario failure or store rejection
	ExitCommandError = 2 // Bad flags, missing files, malformed documents
)

// Error codes reported in CLIError.Code for failures that carry no code of
// their own. Graph document errors report their graphdoc E0xx code and
// store errors their store code, e.g. DUPLICATE_IDENTITY.
const (
	ErrCodeGeneric     = "E100" // Unclassified failure
	ErrCodeNotFound    = "E101" // Path not found
	ErrCodeWriteFailed = "E103" // File write error
	ErrCodeTestFailed  = "E104" // One or more scenarios failed
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Err != nil:
		return e.Err.Error()
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

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError describes a failure in a CLIResponse.
type CLIError struct {
	Code    string         `json:"code"`              // graphdoc, store or E1xx code
	Message string         `json:"message"`           // human-readable message
	Details map[string]any `json:"details,omitempty"` // field, position, identity, op
}

// classify maps a command failure to its response error and exit code.
// Document problems and invalid store arguments are command errors; any
// other store rejection is a failure.
func classify(err error) (*CLIError, int) {
	var (
		docErr   *graphdoc.Error
		storeErr *store.Error
	)
	switch {
	case errors.As(err, &docErr):
		details := map[string]any{}
		if docErr.Field != "" {
			details["field"] = docErr.Field
		}
		if docErr.Pos.IsValid() {
			details["file"] = docErr.Pos.Filename()
			details["line"] = docErr.Pos.Line()
			details["column"] = docErr.Pos.Column()
		}
		return &CLIError{Code: docErr.Code, Message: err.Error(), Details: nonEmpty(details)}, ExitCommandError

	case errors.As(err, &storeErr):
		details := map[string]any{}
		if storeErr.Op != "" {
			details["op"] = storeErr.Op
		}
		if !storeErr.Identity.IsZero() {
			details["identity"] = storeErr.Identity.String()
		}
		exit := ExitFailure
		if store.IsInvalidArgument(err) {
			exit = ExitCommandError
		}
		return &CLIError{Code: string(storeErr.Code), Message: err.Error(), Details: nonEmpty(details)}, exit

	case errors.Is(err, os.ErrNotExist):
		return &CLIError{Code: ErrCodeNotFound, Message: err.Error()}, ExitCommandError

	default:
		return &CLIError{Code: ErrCodeGeneric, Message: err.Error()}, ExitFailure
	}
}

func nonEmpty(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return m
}

// OutputFormatter renders command payloads and failures as text or as a
// JSON CLIResponse.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; keeps JSON on Writer clean
	Verbose   bool
}

// newFormatter builds a formatter writing to cmd's streams.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// Result writes data as a JSON envelope, or calls text to render it.
func (f *OutputFormatter) Result(data any, text func(w io.Writer) error) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	return text(f.Writer)
}

// Fail reports err and returns it as an ExitError with the exit code
// classify assigns.
func (f *OutputFormatter) Fail(err error) error {
	cliErr, exit := classify(err)
	return f.FailWith(exit, cliErr, err)
}

// FailWith reports cliErr and returns err as an ExitError with exit.
func (f *OutputFormatter) FailWith(exit int, cliErr *CLIError, err error) error {
	if f.Format == "json" {
		if encErr := f.encode(CLIResponse{Status: "error", Error: cliErr}); encErr != nil {
			return encErr
		}
	} else {
		fmt.Fprintf(f.Writer, "Error [%s]: %s\n", cliErr.Code, cliErr.Message)
		if f.Verbose {
			for _, k := range slices.Sorted(maps.Keys(cliErr.Details)) {
				fmt.Fprintf(f.Writer, "  %s: %v\n", k, cliErr.Details[k])
			}
		}
	}
	return WrapExitError(exit, "", err)
}

// Debugf writes a diagnostic line to ErrWriter in verbose mode.
func (f *OutputFormatter) Debugf(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/Avaneesh2012/futuride/internal/languages"
	"github.com/Avaneesh2012/futuride/internal/metrics"
	"github.com/Avaneesh2012/futuride/internal/runner"
	"github.com/Avaneesh2012/futuride/internal/validate"
	"github.com/rs/zerolog"
)

const (
	StatusSuccess         = "success"
	StatusPreview         = "preview"
	StatusValidationError = "validation_error"
	StatusUnsupported     = "unsupported_language"
	StatusTimeout         = "timeout"
	StatusError           = "error"
)

type Request struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// Response mirrors the JSON the API returns: output and error are both
// optional, and success holds exactly when error is absent. HTMLPreview is
// set only for preview languages, which never produce stdout/stderr.
type Response struct {
	Output      *string `json:"output"`
	Error       *string `json:"error"`
	Success     bool    `json:"success"`
	HTMLPreview string  `json:"html_preview,omitempty"`
	TimeMs      int64   `json:"time_ms,omitempty"`
	Status      string  `json:"-"`
}

type Executor struct {
	validator *validate.Validator
	registry  *languages.Registry
	runner    runner.Runner
	logger    *zerolog.Logger
}

func NewExecutor(validator *validate.Validator, registry *languages.Registry, r runner.Runner, logger *zerolog.Logger) *Executor {
	return &Executor{
		validator: validator,
		registry:  registry,
		runner:    r,
		logger:    logger,
	}
}

// Execute validates the request and routes it to the runner appropriate
// for the language. It never returns an error: every failure becomes a
// Response the caller can render, and no failure path skips scratch
// cleanup (the runner owns that).
func (e *Executor) Execute(ctx context.Context, req Request) *Response {
	if err := e.validator.Validate(req.Code); err != nil {
		metrics.ValidationFailures.WithLabelValues(validationReason(err)).Inc()
		return &Response{
			Error:  ptr(err.Error()),
			Status: StatusValidationError,
		}
	}

	lang, err := e.registry.Get(req.Language)
	if err != nil {
		return &Response{
			Error:  ptr(fmt.Sprintf("Unsupported language: %s", req.Language)),
			Status: StatusUnsupported,
		}
	}

	switch lang.Mode {
	case languages.ModePreview:
		// The code itself is the result. No subprocess is started.
		return &Response{
			Success:     true,
			HTMLPreview: req.Code,
			Status:      StatusPreview,
		}
	case languages.ModeEcho:
		// JavaScript is never executed server-side; the browser console
		// is the runtime. Echo the code back as informational text.
		return &Response{
			Output:  ptr(fmt.Sprintf("JavaScript code:\n%s\n\n(JavaScript execution in browser console)", req.Code)),
			Success: true,
			Status:  StatusSuccess,
		}
	case languages.ModeInterpret, languages.ModeCompile:
		return e.run(ctx, lang, req.Code)
	default:
		return &Response{
			Error:  ptr(fmt.Sprintf("Unsupported language: %s", req.Language)),
			Status: StatusUnsupported,
		}
	}
}

func (e *Executor) run(ctx context.Context, lang languages.Language, code string) *Response {
	res, err := e.runner.Run(ctx, runner.RunSpec{
		Code:           code,
		Extension:      lang.Extension,
		CompileCommand: lang.CompileCommand,
		RunCommand:     lang.RunCommand,
	})
	if err != nil {
		var notFound *runner.CompilerNotFoundError
		if errors.As(err, &notFound) {
			return &Response{
				Error:  ptr(notFound.Error()),
				Status: StatusError,
			}
		}
		e.logger.Error().Err(err).Str("language", lang.ID).Msg("execution failed")
		return &Response{
			Error:  ptr(fmt.Sprintf("Execution error: %s", err)),
			Status: StatusError,
		}
	}

	if res.TimedOut {
		return &Response{
			Error:  ptr("Execution timed out"),
			Status: StatusTimeout,
		}
	}

	if res.CompileFailed {
		return &Response{
			Error:  ptr(res.Stderr),
			Status: StatusError,
		}
	}

	resp := &Response{
		Output: ptr(res.Stdout),
		TimeMs: res.TimeMs,
	}
	if res.Stderr != "" {
		resp.Error = ptr(res.Stderr)
		resp.Status = StatusError
	} else {
		resp.Success = true
		resp.Status = StatusSuccess
	}
	return resp
}

func validationReason(err error) string {
	var tooLong *validate.TooLongError
	var denied *validate.DeniedPatternError
	switch {
	case errors.Is(err, validate.ErrEmptyCode):
		return "empty"
	case errors.As(err, &tooLong):
		return "too_long"
	case errors.As(err, &denied):
		return "denied_pattern"
	default:
		return "other"
	}
}

func ptr(s string) *string { return &s }

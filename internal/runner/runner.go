package runner

import (
	"context"
	"fmt"
)

// Result captures the outcome of one execution. Stdout and Stderr are only
// meaningful when neither TimedOut nor CompileFailed is set, except that a
// compile failure carries the compiler diagnostics in Stderr.
type Result struct {
	Stdout        string
	Stderr        string
	ExitCode      int
	TimedOut      bool
	CompileFailed bool
	TimeMs        int64
}

// RunSpec describes a single execution: the source text plus the command
// templates of its language. CompileCommand empty means the language is
// interpreted and RunCommand is invoked directly on the scratch source.
type RunSpec struct {
	Code           string
	Extension      string
	CompileCommand []string
	RunCommand     []string
}

type Runner interface {
	Run(ctx context.Context, spec RunSpec) (*Result, error)
}

// CompilerNotFoundError reports a compiler binary absent from PATH.
type CompilerNotFoundError struct {
	Compiler string
}

func (e *CompilerNotFoundError) Error() string {
	return fmt.Sprintf("%s compiler not found. Please install %s to run this code.", e.Compiler, e.Compiler)
}

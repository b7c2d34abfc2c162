package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Avaneesh2012/futuride/internal/config"
	"github.com/Avaneesh2012/futuride/internal/languages"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProcessRunner executes code by shelling out to the host toolchain. It
// offers no real isolation: the only guarantees are a wall-clock timeout
// with process-group teardown, a minimal child environment, and
// unconditional scratch-file cleanup.
type ProcessRunner struct {
	scratchDir string
	workDir    string
	childEnv   []string
	timeout    time.Duration
	logger     *zerolog.Logger
}

func NewProcessRunner(conf config.ExecutionConfig, logger *zerolog.Logger) (*ProcessRunner, error) {
	base := conf.ScratchDir
	if base == "" {
		base = os.TempDir()
	}

	// Scratch files and the child working directory are kept apart so a
	// script cannot accidentally pick up sibling sources via relative
	// imports.
	scratchDir := filepath.Join(base, "futuride-scratch")
	workDir := filepath.Join(base, "futuride-work")
	for _, dir := range []string{scratchDir, workDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	return &ProcessRunner{
		scratchDir: scratchDir,
		workDir:    workDir,
		childEnv: []string{
			"PATH=" + conf.ExecPath,
			"PYTHONPATH=",
		},
		timeout: time.Duration(conf.TimeoutSeconds) * time.Second,
		logger:  logger,
	}, nil
}

func (r *ProcessRunner) Run(ctx context.Context, spec RunSpec) (*Result, error) {
	srcPath := filepath.Join(r.scratchDir, uuid.NewString()+spec.Extension)
	if err := os.WriteFile(srcPath, []byte(spec.Code), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write scratch file: %w", err)
	}
	defer r.removeScratch(srcPath)

	var binPath string
	if len(spec.CompileCommand) > 0 {
		binPath = filepath.Join(r.scratchDir, uuid.NewString())
		// Source and binary are removed independently: a failure on one
		// never skips the other.
		defer r.removeScratch(binPath)

		compiler := spec.CompileCommand[0]
		if _, err := exec.LookPath(compiler); err != nil {
			return nil, &CompilerNotFoundError{Compiler: compiler}
		}

		argv := languages.ExpandCommand(spec.CompileCommand, srcPath, binPath)
		_, stderr, exitCode, timedOut, err := r.runCommand(ctx, argv)
		if err != nil {
			return nil, fmt.Errorf("compile failed to launch: %w", err)
		}
		if timedOut {
			return &Result{TimedOut: true}, nil
		}
		if exitCode != 0 {
			return &Result{
				Stderr:        stderr,
				ExitCode:      exitCode,
				CompileFailed: true,
			}, nil
		}
	}

	argv := languages.ExpandCommand(spec.RunCommand, srcPath, binPath)
	start := time.Now()
	stdout, stderr, exitCode, timedOut, err := r.runCommand(ctx, argv)
	if err != nil {
		return nil, err
	}
	if timedOut {
		return &Result{TimedOut: true}, nil
	}

	return &Result{
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: exitCode,
		TimeMs:   time.Since(start).Milliseconds(),
	}, nil
}

// runCommand starts argv as a child process in its own process group, with
// the restricted environment and the neutral working directory, and
// enforces the wall-clock timeout. On timeout the entire group is killed
// so descendants of the child do not survive.
func (r *ProcessRunner) runCommand(ctx context.Context, argv []string) (stdout, stderr string, exitCode int, timedOut bool, err error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = r.workDir
	cmd.Env = r.childEnv
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if startErr := cmd.Start(); startErr != nil {
		return "", "", 0, false, startErr
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	select {
	case <-runCtx.Done():
		if killErr := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); killErr != nil {
			r.logger.Warn().Err(killErr).Int("pid", cmd.Process.Pid).Msg("failed to kill process group")
		}
		<-waitCh
		return "", "", -1, true, nil
	case waitErr := <-waitCh:
		if waitErr != nil {
			var exitErr *exec.ExitError
			if !errors.As(waitErr, &exitErr) {
				return "", "", 0, false, waitErr
			}
			exitCode = exitErr.ExitCode()
		}
		return outBuf.String(), errBuf.String(), exitCode, false, nil
	}
}

func (r *ProcessRunner) removeScratch(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		// Best effort only. A leaked scratch file is logged, never fatal.
		r.logger.Debug().Err(err).Str("path", path).Msg("failed to remove scratch file")
	}
}

// Command futuride is the local front-end: it runs code through the same
// execution core as the HTTP API, without going through a server. It
// stands in for the desktop shell of the original product.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Avaneesh2012/futuride/internal/config"
	"github.com/Avaneesh2012/futuride/internal/executor"
	"github.com/Avaneesh2012/futuride/internal/languages"
	"github.com/Avaneesh2012/futuride/internal/runner"
	"github.com/Avaneesh2012/futuride/internal/validate"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "futuride",
		Short:         "Run code snippets the way the FuturIDE server does",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newLanguagesCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var languageID string

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Execute a source file (or stdin with \"-\")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.LoadConfig()
			if err != nil {
				return err
			}

			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)

			registry := languages.NewRegistry(conf.Execution)
			validator := validate.New(conf.Execution.MaxCodeLength, conf.Execution.DeniedPatterns)
			procRunner, err := runner.NewProcessRunner(conf.Execution, &logger)
			if err != nil {
				return err
			}
			exec := executor.NewExecutor(validator, registry, procRunner, &logger)

			code, err := readSource(args[0])
			if err != nil {
				return err
			}

			if languageID == "" {
				if args[0] == "-" {
					languageID = "python"
				} else {
					languageID = registry.DetectByFilename(args[0]).ID
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(),
				time.Duration(conf.Execution.TimeoutSeconds+5)*time.Second)
			defer cancel()

			resp := exec.Execute(ctx, executor.Request{Code: code, Language: languageID})

			if resp.HTMLPreview != "" {
				fmt.Fprintln(cmd.OutOrStdout(), resp.HTMLPreview)
				return nil
			}
			if resp.Output != nil && *resp.Output != "" {
				fmt.Fprint(cmd.OutOrStdout(), *resp.Output)
			}
			if resp.Error != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), *resp.Error)
			}
			if !resp.Success {
				return fmt.Errorf("execution failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&languageID, "language", "l", "", "language id (default: detect from file extension)")
	return cmd
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.LoadConfig()
			if err != nil {
				return err
			}
			registry := languages.NewRegistry(conf.Execution)
			for _, lang := range registry.List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-12s %s\n", lang.ID, lang.Name, lang.Extension)
			}
			return nil
		},
	}
}

func readSource(arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

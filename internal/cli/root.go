// Package cli exposes the use cases as cobra commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ContentWriter/internal/app"
	"ContentWriter/internal/config"
	"ContentWriter/internal/domain"
	"ContentWriter/internal/logging"
)

type runner struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the contentwriter command tree.
func NewRootCommand() *cobra.Command {
	r := &runner{}
	root := &cobra.Command{
		Use:           "contentwriter",
		Short:         "Brand-aware content generation, SEO and scheduling for a site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&r.configPath, "config", "", "Path to YAML config (defaults to $CONTENTWRITER_CONFIG)")
	root.PersistentFlags().StringVar(&r.logLevel, "log-level", "", "Override the configured log level")

	root.AddCommand(
		r.brandCommand(),
		r.generateCommand(),
		r.optimizeCommand(),
		r.scoreCommand(),
		r.scanCommand(),
		r.learnCommand(),
		r.importCommand(),
		r.scheduleCommand(),
		r.searchCommand(),
		r.productsCommand(),
		r.logsCommand(),
		r.serveCommand(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withApp builds the application for one command run and closes it afterwards.
func (r *runner) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.Application) error) error {
	cfg := config.LoadFile(r.configPath)
	if r.logLevel != "" {
		cfg.Logging.Level = r.logLevel
	}
	logger := logging.NewTo(cmd.ErrOrStderr(), cfg.Logging.Level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()
	return fn(ctx, application)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult writes a use-case result and turns a failed one into a command error.
func printResult[T any](w io.Writer, res domain.Result[T]) error {
	if err := printJSON(w, res); err != nil {
		return err
	}
	if !res.Success {
		return errors.New(res.Message)
	}
	return nil
}

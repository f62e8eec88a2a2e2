package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ContentWriter/internal/app"
)

func (r *runner) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled publishing and the recurring automation jobs until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				return a.Serve(ctx)
			})
		},
	}
}

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ContentWriter/internal/app"
	"ContentWriter/internal/domain"
	"ContentWriter/internal/usecase"
)

// scheduleLayouts are accepted by --at, interpreted in the automation timezone.
var scheduleLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

func parseWhen(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q (use YYYY-MM-DD HH:MM)", value)
}

func parseMonth(value string, now time.Time) (int, time.Month, error) {
	if strings.TrimSpace(value) == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot parse month %q (use YYYY-MM)", value)
	}
	return t.Year(), t.Month(), nil
}

func (r *runner) scheduleCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "schedule", Short: "Queue topics for generation at a future time"}
	cmd.AddCommand(
		r.scheduleAddCommand(),
		r.scheduleListCommand(),
		r.scheduleCancelCommand(),
		r.scheduleCalendarCommand(),
		&cobra.Command{
			Use:   "stats",
			Short: "Count pending, completed and upcoming items",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
					stats, err := a.Scheduler.Stats(ctx, time.Now())
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), stats)
				})
			},
		},
		&cobra.Command{
			Use:   "suggest",
			Short: "Propose topics dated on the next free publishing slot",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
					suggestions, err := a.Scheduler.Suggestions(ctx, time.Now())
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), suggestions)
				})
			},
		},
	)
	return cmd
}

func (r *runner) scheduleAddCommand() *cobra.Command {
	var (
		at   string
		opts domain.ScheduleOptions
	)
	cmd := &cobra.Command{
		Use:   "add <topic>",
		Short: "Schedule a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				req := usecase.ScheduleRequest{Topic: strings.Join(args, " "), Options: opts}
				if at != "" {
					when, err := parseWhen(at, a.Location())
					if err != nil {
						return err
					}
					req.At = when
				} else {
					slot, err := a.Scheduler.NextFreeSlot(ctx, time.Now())
					if err != nil {
						return err
					}
					req.At = slot
				}
				return printResult(cmd.OutOrStdout(), a.Scheduler.Schedule(ctx, req))
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "When to publish (defaults to the next free slot)")
	cmd.Flags().StringVar(&opts.Keyword, "keyword", "", "Focus keyword")
	cmd.Flags().IntVar(&opts.WordCount, "words", 0, "Approximate word count")
	cmd.Flags().StringVar(&opts.Tone, "tone", "", "Tone of voice")
	cmd.Flags().StringVar(&opts.Category, "category", "", "Category for the published post")
	cmd.Flags().StringVar(&opts.Tags, "tags", "", "Comma-separated tags for the published post")
	return cmd
}

func (r *runner) scheduleListCommand() *cobra.Command {
	var (
		status string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled items ordered by time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := domain.ScheduleStatus(status)
			if st != "" && !st.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				items, err := a.Scheduler.List(ctx, st, limit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), items)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (scheduled, completed, cancelled)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum items to show")
	return cmd
}

func (r *runner) scheduleCancelCommand() *cobra.Command {
	var byTopic bool
	cmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a pending item by id, or every pending item of a topic with --topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				if byTopic {
					return printResult(cmd.OutOrStdout(), a.Scheduler.CancelByTopic(ctx, strings.Join(args, " ")))
				}
				return printResult(cmd.OutOrStdout(), a.Scheduler.Cancel(ctx, args[0]))
			})
		},
	}
	cmd.Flags().BoolVar(&byTopic, "topic", false, "Treat the argument as a topic instead of an id")
	return cmd
}

func (r *runner) scheduleCalendarCommand() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show pending items of a month grouped by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				year, m, err := parseMonth(month, time.Now().In(a.Location()))
				if err != nil {
					return err
				}
				calendar, err := a.Scheduler.Calendar(ctx, year, m)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), calendar)
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month as YYYY-MM (defaults to the current month)")
	return cmd
}

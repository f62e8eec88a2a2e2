package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ContentWriter/internal/app"
	"ContentWriter/internal/domain"
	"ContentWriter/internal/usecase"
)

func (r *runner) brandCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "brand", Short: "Analyze and inspect the brand profile"}

	cmd.AddCommand(&cobra.Command{
		Use:   "analyze",
		Short: "Derive the brand profile from published posts and pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				return printResult(cmd.OutOrStdout(), a.Brand.Analyze(ctx))
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored brand profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				profile, err := a.Brand.Profile(ctx)
				if err != nil {
					return err
				}
				analyzed, err := a.Brand.AnalysisDate(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{"profile": profile, "analyzed_at": analyzed})
			})
		},
	})

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List past brand analysis runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				entries, err := a.Brand.History(ctx, limit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), entries)
			})
		},
	}
	history.Flags().IntVar(&limit, "limit", 10, "Maximum entries to show")
	cmd.AddCommand(history)
	return cmd
}

func (r *runner) generateCommand() *cobra.Command {
	var (
		words      int
		tone       string
		publish    bool
		status     string
		categories []string
		tags       []string
	)
	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Generate an SEO-optimized article in the brand voice",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.Join(args, " ")
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				generated := a.Generator.Generate(ctx, topic, usecase.GenerateOptions{WordCount: words, Tone: tone})
				if !publish || !generated.Success {
					return printResult(cmd.OutOrStdout(), generated)
				}
				return printResult(cmd.OutOrStdout(), a.Generator.Publish(ctx, usecase.PublishRequest{
					Draft:      generated.Data,
					Status:     domain.DocumentStatus(status),
					Categories: categories,
					Tags:       tags,
				}))
			})
		},
	}
	cmd.Flags().IntVar(&words, "words", 0, "Approximate word count (default 1000)")
	cmd.Flags().StringVar(&tone, "tone", "", "Tone of voice for the article")
	cmd.Flags().BoolVar(&publish, "publish", false, "Store the generated article as a post")
	cmd.Flags().StringVar(&status, "status", string(domain.StatusDraft), "Post status when publishing (draft, pending, publish)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Category for the stored post (repeatable)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag for the stored post (repeatable)")
	return cmd
}

func (r *runner) optimizeCommand() *cobra.Command {
	var file, keyword string
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Rewrite content until it reaches the SEO threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				return printResult(cmd.OutOrStdout(), a.Optimizer.Optimize(ctx, content, keyword))
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Read content from file instead of stdin")
	cmd.Flags().StringVar(&keyword, "keyword", "", "Focus keyword")
	return cmd
}

func (r *runner) scoreCommand() *cobra.Command {
	var file, keyword string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score content and list what would improve it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(_ context.Context, a *app.Application) error {
				scorer := a.Optimizer.Scorer()
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"score":           scorer.Score(content, keyword),
					"report":          scorer.Analyze(content, keyword),
					"recommendations": scorer.Recommendations(content, keyword, a.Optimizer.Threshold()),
				})
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Read content from file instead of stdin")
	cmd.Flags().StringVar(&keyword, "keyword", "", "Focus keyword")
	return cmd
}

func (r *runner) scanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Audit published posts for SEO and coverage gaps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				return printResult(cmd.OutOrStdout(), a.Scanner.Scan(ctx))
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "last",
		Short: "Print the stored result of the previous scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				last, err := a.Scanner.LastScan(ctx)
				if err != nil {
					return err
				}
				if last.ScannedAt.IsZero() {
					return fmt.Errorf("no scan has been run yet")
				}
				return printJSON(cmd.OutOrStdout(), last)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "history",
		Short: "List summaries of past scans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				items, err := a.Scanner.History(ctx, 10)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), items)
			})
		},
	})
	return cmd
}

func (r *runner) learnCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn <post-id>",
		Short: "Fold a published post into the brand profile and content patterns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid post id %q: %w", args[0], err)
			}
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				return printResult(cmd.OutOrStdout(), a.Learner.Learn(ctx, id))
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "insights",
		Short: "Print averaged content patterns and recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				insights, err := a.Learner.Insights(ctx)
				if err != nil {
					return err
				}
				recs, err := a.Learner.Recommendations(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{"insights": insights, "recommendations": recs})
			})
		},
	})
	return cmd
}

func (r *runner) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import posts from the configured sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				return printResult(cmd.OutOrStdout(), a.Importer.Import(ctx))
			})
		},
	}
}

func (r *runner) logsCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:       "logs <content|automation|learning>",
		Short:     "Print recent activity logs",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"content", "automation", "learning"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				var (
					logs any
					err  error
				)
				switch args[0] {
				case "content":
					logs, err = a.Generator.Logs(ctx, limit)
				case "automation":
					logs, err = a.Automation.Logs(ctx, limit)
				case "learning":
					logs, err = a.Learner.Logs(ctx, limit)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), logs)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show")
	return cmd
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		raw []byte
		err error
	)
	if path != "" {
		raw, err = os.ReadFile(path)
	} else {
		raw, err = io.ReadAll(stdin)
	}
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	content := strings.TrimSpace(string(raw))
	if content == "" {
		return "", fmt.Errorf("content is empty")
	}
	return content, nil
}

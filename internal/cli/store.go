package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ContentWriter/internal/app"
	"ContentWriter/internal/domain"
)

func (r *runner) searchCommand() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find catalog products matching a free-text question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				return printResult(cmd.OutOrStdout(), a.Assistant.Search(ctx, strings.Join(args, " "), user))
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "Shopper id recorded with the search")

	var days int
	analytics := &cobra.Command{
		Use:   "analytics",
		Short: "Summarize recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
				out, err := a.Assistant.Analytics(ctx, days, time.Now())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	analytics.Flags().IntVar(&days, "days", 30, "Window in days")

	cmd.AddCommand(analytics,
		&cobra.Command{
			Use:   "suggest",
			Short: "List query hints for the search box",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
					out, err := a.Assistant.SearchSuggestions(ctx, time.Now())
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), out)
				})
			},
		},
		&cobra.Command{
			Use:   "views <product-id>",
			Short: "Report product view counts",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid product id %q: %w", args[0], err)
				}
				return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
					return printResult(cmd.OutOrStdout(), a.Assistant.ProductViews(ctx, id))
				})
			},
		},
	)
	return cmd
}

func (r *runner) productsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Manage the local product catalog snapshot"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "load <file.json>",
			Short: "Insert or replace products from a JSON array",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				products, err := readProducts(args[0])
				if err != nil {
					return err
				}
				return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
					if err := a.Products.Upsert(ctx, products...); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "loaded %d products\n", len(products))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "categories",
			Short: "List the largest product categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.withApp(cmd, func(ctx context.Context, a *app.Application) error {
					categories, err := a.Products.TopCategories(ctx, 20)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), categories)
				})
			},
		},
	)
	return cmd
}

func readProducts(path string) ([]domain.ProductRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	var products []domain.ProductRecord
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

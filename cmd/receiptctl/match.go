package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/foxxcyber/receipt-rewards/internal/matching"
	"github.com/foxxcyber/receipt-rewards/internal/models"
	"github.com/foxxcyber/receipt-rewards/internal/patterns"
)

func tierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tier <score>",
		Short: "Classify a match distance into its confidence tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			score, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid score %q: %w", args[0], err)
			}
			if score < 0 || score > 1 {
				return fmt.Errorf("score must be between 0 and 1, got %g", score)
			}

			tier := matching.Classify(score)
			fmt.Printf("%.3f  %s  accepted=%t auto=%t\n",
				score, tierColor(tier).Sprint(tier), tier.Accepted(), tier.AutoAccept())
			return nil
		},
	}
}

// builtinStores is the store catalog implied by the keyword detection table.
func builtinStores() []models.Store {
	stores := make([]models.Store, 0, len(patterns.StoreKeywords))
	for i, kw := range patterns.StoreKeywords {
		keywords := make([]string, len(kw.Keywords))
		for j, k := range kw.Keywords {
			keywords[j] = strings.ToLower(k)
		}
		stores = append(stores, models.Store{
			ID:             i + 1,
			Name:           kw.Display,
			NormalizedName: matching.NormalizeStoreName(kw.Display),
			Keywords:       keywords,
			Status:         models.EntityStatusActive,
		})
	}
	return stores
}

func matchStoreCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "match-store <name>",
		Short: "Rank the built-in store catalog against a detected store name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			catalog := builtinStores()
			resolver := matching.StoreResolver()

			best := resolver.Resolve(name, catalog)
			if best == nil {
				color.New(color.FgRed).Printf("no match for %q\n", name)
			} else {
				fmt.Printf("%s -> %s (%.3f, %s)\n", name, best.Entity.Name, best.Score, tierColor(best.Tier).Sprint(best.Tier))
			}

			for _, m := range resolver.Suggest(name, catalog, limit) {
				marker := ""
				if m.Fallback {
					marker = color.New(color.Faint).Sprint(" [keyword]")
				}
				fmt.Printf("  %-24s %.3f  %s%s\n", m.Entity.Name, m.Score, tierColor(m.Tier).Sprint(m.Tier), marker)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "number of ranked suggestions to show")
	return cmd
}

// Command receiptctl runs the receipt text pipeline offline against OCR text
// dumps, for tuning correction rules and match thresholds.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/foxxcyber/receipt-rewards/internal/matching"
	"github.com/foxxcyber/receipt-rewards/internal/parser"
)

var (
	noColor bool
	rootCmd = &cobra.Command{
		Use:   "receiptctl",
		Short: "Inspect receipt OCR text the way the server reads it",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if noColor {
				color.NoColor = true
			}
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(correctCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(fingerprintCmd())
	rootCmd.AddCommand(tierCmd())
	rootCmd.AddCommand(matchStoreCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readInput returns the named file, or stdin when no file or "-" is given.
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

var receiptParser = parser.NewReceiptParser()

func tierColor(t matching.Tier) *color.Color {
	switch t {
	case matching.TierExcellent:
		return color.New(color.FgGreen, color.Bold)
	case matching.TierGood:
		return color.New(color.FgGreen)
	case matching.TierFair:
		return color.New(color.FgYellow)
	case matching.TierPoor:
		return color.New(color.FgHiYellow)
	default:
		return color.New(color.FgRed)
	}
}

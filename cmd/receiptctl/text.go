package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/foxxcyber/receipt-rewards/internal/duplicate"
)

func correctCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "correct [file]",
		Short: "Apply OCR corrections to receipt text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			raw, err := readInput(args)
			if err != nil {
				return err
			}
			fmt.Println(receiptParser.Correct(raw))
			return nil
		},
	}
}

func extractCmd() *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract store, items, totals and metadata as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			raw, err := readInput(args)
			if err != nil {
				return err
			}

			result := receiptParser.Extract(raw)
			enc := json.NewEncoder(os.Stdout)
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(result)
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print JSON on one line")
	return cmd
}

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint [file]",
		Short: "Print the duplicate-detection fingerprint of receipt text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			raw, err := readInput(args)
			if err != nil {
				return err
			}

			result := receiptParser.Extract(raw)
			fmt.Println(duplicate.Fingerprint(result))
			fmt.Printf("%s %s  %s %d  %s %.2f\n",
				color.New(color.Faint).Sprint("store"), result.StoreName,
				color.New(color.Faint).Sprint("items"), len(result.Items),
				color.New(color.Faint).Sprint("total"), result.Totals.Total)
			return nil
		},
	}
}

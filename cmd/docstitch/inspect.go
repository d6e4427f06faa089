// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docstitch/internal/normalize"
	"github.com/pdiddy/docstitch/pkg/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pdf>",
	Short: "Show the page boxes of a PDF",
	Long: `Inspect prints every page's effective media box and rotation, and
whether the page is already A4. Use it to check a merged file or to see why
an input looks the way it does after normalization.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Bool("json", false, "output page information as JSON")

	rootCmd.AddCommand(inspectCmd)
}

type pageReport struct {
	Page   int     `json:"page"`
	Box    string  `json:"media_box"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Rotate int     `json:"rotate"`
	A4     bool    `json:"a4"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	pages, err := normalize.Inspect(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	reports := make([]pageReport, len(pages))
	for i, p := range pages {
		reports[i] = pageReport{
			Page:   p.Number,
			Box:    p.Box.String(),
			Width:  p.Box.Width(),
			Height: p.Box.Height(),
			Rotate: p.Rotate,
			A4:     p.Box.Width() == types.A4.Width && p.Box.Height() == types.A4.Height,
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-24s  %-16s  %-6s  %s\n", "Page", "MediaBox", "Size", "Rotate", "A4")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 64))
	for _, r := range reports {
		fmt.Fprintf(os.Stdout, "%-5d  %-24s  %-16s  %-6d  %t\n",
			r.Page, r.Box, fmt.Sprintf("%gx%g", r.Width, r.Height), r.Rotate, r.A4)
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docstitch/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recent merges or show one run",
	Long: `History reads the run log kept by merge and serve. Without arguments it
lists the most recent runs; with a run ID it shows that run's files, page
counts and error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().String("format", "table", "output format: table, json or yaml")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}

	store, err := history.Open(loadConfig().History)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if len(args) == 1 {
		run, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if format == "table" {
			printRun(run)
			return nil
		}
		return encode(format, run)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(ctx, limit)
	if err != nil {
		return err
	}
	if format != "table" {
		return encode(format, runs)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-30s  %-6s  %-6s  %s\n",
		"ID", "Created", "Output", "Files", "Pages", "Status")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 118))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-30s  %-6d  %-6d  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Output, len(r.Files), r.Pages, r.Status)
	}
	return nil
}

func printRun(r *history.Run) {
	fmt.Printf("Run:      %s\n", r.ID)
	fmt.Printf("Created:  %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Output:   %s\n", r.Output)
	fmt.Printf("Status:   %s\n", r.Status)
	fmt.Printf("Duration: %s\n", elapsed(r.Duration))
	fmt.Printf("Pages:    %d\n", r.Pages)
	if r.Error != "" {
		fmt.Printf("Error:    %s\n", r.Error)
	}
	fmt.Println("Files:")
	pages := make(map[string]int, len(r.Sources))
	for _, s := range r.Sources {
		pages[s.Name] = s.Pages
	}
	for i, f := range r.Files {
		if n, ok := pages[f]; ok {
			fmt.Printf("  %2d. %s (%d page(s))\n", i+1, f, n)
			continue
		}
		fmt.Printf("  %2d. %s\n", i+1, f)
	}
}

func encode(format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

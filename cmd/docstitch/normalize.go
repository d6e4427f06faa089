// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docstitch/internal/delivery"
	"github.com/pdiddy/docstitch/internal/normalize"
	"github.com/pdiddy/docstitch/pkg/types"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file.pdf>",
	Short: "Rescale every page of one PDF to A4",
	Long: `Normalize rewrites a single PDF so every page is A4 portrait. Each page
is scaled uniformly to fit and centered vertically; the original content is
preserved as drawing commands. The result is written next to the input as
<name>-a4.pdf unless --name is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringP("name", "o", "", "name of the output file (default <input>-a4.pdf)")
	normalizeCmd.Flags().String("output-dir", "", "directory for the output (default: the input's directory)")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	in := args[0]
	if k, err := types.KindForName(in); err != nil || k != types.KindPDF {
		return fmt.Errorf("%s: normalize takes a PDF file", in)
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	doc, err := normalize.New(types.A4).Normalize(data)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + "-a4"
	}
	dir, _ := cmd.Flags().GetString("output-dir")
	if dir == "" {
		dir = filepath.Dir(in)
	}

	path, err := delivery.WriteFile(dir, name, &types.MergedDocument{Data: doc.Data, Pages: doc.Pages})
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d pages)\n", path, doc.Pages)
	return nil
}

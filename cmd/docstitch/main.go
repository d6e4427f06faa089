// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docstitch CLI.
// Subcommands: merge, normalize, inspect, serve, history, version.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/docstitch/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is the structured logger for pipeline events; progress for humans
// goes to stdout with fmt.
var logger = zap.NewNop()

// rootCmd is the base command for the docstitch CLI.
var rootCmd = &cobra.Command{
	Use:   "docstitch",
	Short: "Merge images, Word documents and PDFs into one A4 PDF",
	Long: `docstitch normalizes every page of a set of PNG/JPEG images, .docx
documents and PDFs to A4 portrait and concatenates them, in the order given,
into a single PDF.

Word documents are rendered through LibreOffice, either a local soffice
binary or a LibreOffice container image. Merges can run once from the
command line or behind an HTTP upload endpoint (serve).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docstitch.yaml or ~/.config/docstitch/docstitch.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log pipeline events at debug level")
}

func initConfig() {
	if loaded, err := secrets.LoadEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	} else if len(loaded) > 0 {
		fmt.Fprintln(os.Stderr, "Loaded env files:", loaded)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docstitch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docstitch"))
		}
	}

	viper.SetEnvPrefix("DOCSTITCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds a console logger on stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func main() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

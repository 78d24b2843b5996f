// Package main is the cryptocore command line tool.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/digitalcash/cryptocore"
	"github.com/digitalcash/cryptocore/internal/config"
)

const version = "0.1.0"

// app carries state shared by all subcommands of one invocation.
type app struct {
	envFiles []string
	output   string

	provider *cryptocore.Provider
	stdin    io.Reader
	stdout   io.Writer
	getenv   func(string) string
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Getenv).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout io.Writer, getenv func(string) string) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, getenv: getenv}

	rootCmd := &cobra.Command{
		Use:           "cryptocore",
		Short:         "Seal, open, sign and verify digital-cash payloads",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.provider != nil {
				a.provider.Close()
			}
		},
	}
	rootCmd.SetOut(stdout)

	rootCmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "Load configuration from .env files")
	rootCmd.PersistentFlags().StringVar(&a.output, "output", "text", "Output format: text, json")

	rootCmd.AddCommand(
		a.keygenCmd(),
		a.idCmd(),
		a.sealCmd(),
		a.openCmd(),
		a.signCmd(),
		a.verifyCmd(),
		a.deriveCmd(),
		versionCmd(),
	)
	return rootCmd
}

func (a *app) init() error {
	if a.output != "text" && a.output != "json" {
		return fmt.Errorf("--output must be text or json, got %q", a.output)
	}
	cfg, err := config.Load(a.envFiles...)
	if err != nil {
		return err
	}
	p, err := cryptocore.New(
		cryptocore.WithConfig(cfg),
		cryptocore.WithLogger(cfg.Logger()),
	)
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}
	a.provider = p
	return nil
}

// print writes v as JSON or, in text mode, each pair as "key: value".
func (a *app) print(v map[string]any, order ...string) error {
	if a.output == "json" {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	for _, k := range order {
		if _, err := fmt.Fprintf(a.stdout, "%s: %v\n", k, v[k]); err != nil {
			return err
		}
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cryptocore version %s\n", version)
		},
	}
}

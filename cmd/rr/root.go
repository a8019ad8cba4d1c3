// Package main implements a thin command-line front end over
// pkg/trace: a "dump" command for inspecting an existing trace, useful
// for debugging the engine itself. Recording and replaying a process are
// the responsibility of a separate collaborator component; this program
// only speaks the on-disk trace format.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BioTurboNick/rr/format"
)

var rootCmd = &cobra.Command{
	Use:   "rr",
	Short: "Inspect record-and-replay trace streams",
	Long:  ``,
}

// Execute runs the CLI. It is called once by main.main. A command error
// carrying a format.ExitCode (e.g. format.ExitDataErr for a malformed
// trace) exits with that code; any other error exits 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var code format.ExitCode
		if errors.As(err, &code) {
			os.Exit(int(code))
		}
		os.Exit(1)
	}
}

func cmdFunc(fn func(context.Context, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return fn(ctx, args)
	}
}

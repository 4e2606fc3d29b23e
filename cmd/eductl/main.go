// Command eductl runs maintenance tasks against the payments database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(defaultEnv()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(env *env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "eductl",
		Short:         "Operations tooling for the EduPlatform payments backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd(env))
	rootCmd.AddCommand(reconcileCmd(env))
	rootCmd.AddCommand(reportCmd(env))
	rootCmd.AddCommand(verifyTransferCmd(env))
	rootCmd.AddCommand(approveCourseCmd(env))

	return rootCmd
}

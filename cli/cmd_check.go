package main

import (
	"context"

	"github.com/spf13/cobra"

	v1 "github.com/elliottslaughter/integrity-checker/v1"
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <db> <root>",
		Short: "Scan root and diff it against an existing database",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runCheck(args[0], args[1])
		},
	}
	cmd.Flags().StringSliceVar(&argAlgos, "algo", nil, "algorithms to compute (default sha2-512-256)")
	cmd.Flags().IntVar(&argThreads, "threads", 0, "worker count (default: number of CPUs)")
	return cmd
}

func runCheck(dbPath, root string) {
	algos, err := parseAlgos(argAlgos)
	if err != nil {
		fail(err)
		return
	}

	logger := newLogger()
	changes, scanErrs, err := v1.Check(context.Background(), dbPath, root, v1.BuildOptions{
		Algos:   algos,
		Workers: argThreads,
	})
	if err != nil {
		fail(err)
		return
	}
	for _, scanErr := range scanErrs {
		logger.WithError(scanErr).Warn("entry skipped during scan")
	}

	exitCode = reportChanges(changes)
}

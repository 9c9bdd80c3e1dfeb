package main

import (
	"context"

	"github.com/spf13/cobra"

	v1 "github.com/elliottslaughter/integrity-checker/v1"
)

func buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <db> <root>",
		Short: "Scan root and write a new database artifact to db",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runBuild(args[0], args[1])
		},
	}
	cmd.Flags().BoolVarP(&argForce, "force", "f", false, "overwrite an existing database")
	cmd.Flags().StringSliceVar(&argAlgos, "algo", nil, "algorithms to compute (default sha2-512-256)")
	cmd.Flags().IntVar(&argThreads, "threads", 0, "worker count (default: number of CPUs)")
	return cmd
}

func runBuild(dbPath, root string) {
	algos, err := parseAlgos(argAlgos)
	if err != nil {
		fail(err)
		return
	}

	logger := newLogger()
	logger.WithFields(map[string]interface{}{"root": root, "db": dbPath}).Debug("starting build")

	result, err := v1.Build(context.Background(), dbPath, root, v1.BuildOptions{
		Algos:   algos,
		Force:   argForce,
		Workers: argThreads,
	})
	if err != nil {
		fail(err)
		return
	}

	for _, scanErr := range result.Errors {
		logger.WithError(scanErr).Warn("entry skipped during scan")
	}

	if len(result.Errors) > 0 {
		exitCode = 3
		w.Printfln("build completed with %d error(s)", len(result.Errors))
		return
	}
	w.Println("build complete")
}

package main

import (
	"github.com/spf13/cobra"

	v1 "github.com/elliottslaughter/integrity-checker/v1"
)

func diffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <dbA> <dbB>",
		Short: "Read two database artifacts and diff them",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runDiff(args[0], args[1])
		},
	}
}

func runDiff(dbA, dbB string) {
	changes, err := v1.Diff(dbA, dbB)
	if err != nil {
		fail(err)
		return
	}
	exitCode = reportChanges(changes)
}

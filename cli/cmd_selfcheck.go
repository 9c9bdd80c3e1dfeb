package main

import (
	"github.com/spf13/cobra"

	v1 "github.com/elliottslaughter/integrity-checker/v1"
)

func selfcheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selfcheck <db>",
		Short: "Read a database artifact and verify its outer checksums only",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runSelfcheck(args[0])
		},
	}
}

func runSelfcheck(dbPath string) {
	if err := v1.Selfcheck(dbPath); err != nil {
		fail(err)
		return
	}
	w.Println("selfcheck ok")
	exitCode = 0
}

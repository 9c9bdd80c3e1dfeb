// Command integrity-checker is the CLI front end for the scan/hash,
// container-codec, and diff engine implemented in package internals and
// exposed through package v1.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/elliottslaughter/integrity-checker/internals"
)

// errorResponse renders the same failure as either a one-line message or
// a JSON object, depending on argJSONOutput.
type errorResponse struct {
	ErrorMessage string `json:"error"`
	ExitCode     int    `json:"exitCode"`
}

func (e errorResponse) String() string {
	return fmt.Sprintf("error: %s (exit %d)", e.ErrorMessage, e.ExitCode)
}

func (e errorResponse) JSON() string {
	data, _ := json.Marshal(e)
	return string(data)
}

func (e errorResponse) Print(out Output) {
	if argJSONOutput {
		out.Println(e.JSON())
	} else {
		out.Println(e.String())
	}
}

// exitCodeFor maps an error's concrete type to a process exit code. This
// function is the sole place that mapping happens.
func exitCodeFor(err error) int {
	switch err.(type) {
	case *internals.RefuseOverwriteError:
		return 3
	case *internals.IoError:
		return 3
	case *internals.MalformedError, *internals.ChecksumMismatchError, *internals.UnknownAlgorithmError:
		return 4
	default:
		return 3
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if argVerbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}

func parseAlgos(raw []string) ([]internals.AlgoID, error) {
	if len(raw) == 0 {
		return []internals.AlgoID{internals.DefaultAlgo}, nil
	}
	algos := make([]internals.AlgoID, 0, len(raw))
	for _, name := range raw {
		algo, err := internals.AlgoFromString(name)
		if err != nil {
			return nil, err
		}
		algos = append(algos, algo)
	}
	return algos, nil
}

func fail(err error) {
	resp := errorResponse{ErrorMessage: err.Error(), ExitCode: exitCodeFor(err)}
	resp.Print(w)
	exitCode = resp.ExitCode
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "integrity-checker",
		Short: "Offline integrity checker for filesystems and backups",
	}
	root.PersistentFlags().BoolVar(&argJSONOutput, "json", false, "emit machine-readable JSON output")
	root.PersistentFlags().BoolVarP(&argVerbose, "verbose", "v", false, "raise log verbosity")

	root.AddCommand(buildCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(diffCmd())
	root.AddCommand(selfcheckCmd())
	return root
}

func main() {
	w = NewPlainOutput(os.Stdout)

	if err := rootCmd().Execute(); err != nil {
		fail(err)
	}
	os.Exit(exitCode)
}

package main

import (
	"encoding/json"

	"github.com/elliottslaughter/integrity-checker/internals"
)

// changeReport is the JSON shape emitted by --json for check/diff.
type changeReport struct {
	Path        string   `json:"path"`
	Kind        string   `json:"kind"`
	Class       string   `json:"class"`
	Annotations []string `json:"annotations,omitempty"`
}

// reportChanges renders changes (text or JSON per argJSONOutput) and
// returns the exit code: 0 for none, 1 for benign only, 2 if any change
// or annotation is suspicious, 4 if any change is a HashDisagreement
// (an integrity failure).
func reportChanges(changes []internals.Change) int {
	if argJSONOutput {
		reports := make([]changeReport, 0, len(changes))
		for _, c := range changes {
			annotations := make([]string, 0, len(c.Annotations))
			for _, a := range c.Annotations {
				annotations = append(annotations, string(a))
			}
			reports = append(reports, changeReport{
				Path:        c.Path,
				Kind:        string(c.Kind),
				Class:       string(c.Class),
				Annotations: annotations,
			})
		}
		data, _ := json.Marshal(reports)
		w.Println(string(data))
	} else {
		for _, c := range changes {
			line := c.Path + " " + string(c.Kind) + " (" + string(c.Class) + ")"
			for _, a := range c.Annotations {
				line += " [" + string(a) + "]"
			}
			w.Println(line)
		}
	}

	for _, c := range changes {
		if c.Kind == internals.ChangeHashDisagreement {
			return 4
		}
	}

	switch {
	case !internals.HasChanges(changes):
		return 0
	case internals.IsSuspicious(changes):
		return 2
	default:
		return 1
	}
}

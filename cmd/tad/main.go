package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/garciat/tad/common"
	"github.com/garciat/tad/deduce"
	"github.com/garciat/tad/scenario"
)

var rootCmd = &cobra.Command{
	Use:   "tad",
	Short: "A toy engine for constrained template-argument deduction.",
	Long: "tad resolves calls against function templates whose parameters may\n" +
		"carry deduction expressions, defaults, and constraints.",
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [file...]",
	Short: "Resolve every call in the given scenario files.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		failed := false
		for _, path := range args {
			unit, err := scenario.Load(path)
			if err != nil {
				log.Errorf("%v", err)
				os.Exit(2)
			}
			resolutions, err, stack := common.Try(unit.ResolveAll)
			if err != nil {
				log.Errorf("%s: internal error: %v\n%s", path, err, stack)
				os.Exit(3)
			}
			for i, resolution := range resolutions {
				fmt.Printf("%s: %s\n", unit.Calls[i], describe(resolution))
				if resolution.Kind != deduce.ResolutionResolved {
					failed = true
				}
			}
		}
		if failed {
			os.Exit(1)
		}
	},
}

// describe renders a resolution for the terminal. This is the
// diagnostic layer; the engine itself only produces structured
// outcomes.
func describe(resolution deduce.Resolution) string {
	switch resolution.Kind {
	case deduce.ResolutionResolved:
		best := resolution.Best
		return fmt.Sprintf("resolved %v as %v", best.Template.Name, best.Outcome.Signature)
	case deduce.ResolutionAmbiguous:
		names := make([]string, len(resolution.Conflicts))
		for i, candidate := range resolution.Conflicts {
			names[i] = candidate.Template.String()
		}
		return fmt.Sprintf("error: ambiguous call, candidates: %s", strings.Join(names, "; "))
	case deduce.ResolutionNoMatch:
		if len(resolution.Considered) == 1 {
			only := resolution.Considered[0]
			if only.Outcome.Kind == deduce.OutcomeConstraintViolation {
				return fmt.Sprintf("error: %v: %v", only.Template.Name, only.Outcome.Reason)
			}
		}
		return fmt.Sprintf("error: no matching function (%d candidates)", len(resolution.Considered))
	default:
		panic("unreachable")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}

func init() {
	resolveCmd.Flags().BoolP("verbose", "v", false, "log every candidate's deduction attempt")
	rootCmd.AddCommand(resolveCmd)
}

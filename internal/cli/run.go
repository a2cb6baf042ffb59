package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/pxefirst/internal/engine"
	"github.com/danieljhkim/pxefirst/internal/planner"
)

var (
	runDryRun  bool
	runMetrics string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Put PXE entries first in the boot order",
	Long: `Run the full pass: wait for the EFI variables, read the boot entries, compute
the PXE-first order, apply it with retries and verify the result.

This is the command the systemd unit starts at boot.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, true)
		if err != nil {
			return err
		}
		defer s.Close()

		eng := newEngine(s, bootManager(s.conf, ""))
		result, err := eng.Run(cmd.Context(), &engine.RunRequest{DryRun: runDryRun})
		if err != nil {
			return err
		}

		if jsonOutput {
			return s.out.JSON(result)
		}
		printRunResult(s.out, result)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Compute the new order without applying it")
	runCmd.Flags().StringVar(&runMetrics, "metrics", "", "Write run metrics to this Prometheus textfile")
}

func printRunResult(p *printer, result *engine.RunResult) {
	current := planner.FormatOrder(result.Before.BootOrder)

	switch result.Outcome {
	case engine.OutcomeAlreadyOptimal:
		p.Success(fmt.Sprintf("Boot order already optimal: %s", current))
	case engine.OutcomeUnchanged:
		p.Success(fmt.Sprintf("Boot order unchanged: %s", current))
	case engine.OutcomePlanned:
		p.Info(fmt.Sprintf("Dry run: would change boot order %s -> %s", current, result.Plan.String()))
	case engine.OutcomeApplied:
		p.Success(fmt.Sprintf("Boot order set to %s (%s)",
			result.Plan.String(), countNoun(result.Attempts, "attempt", "attempts")))
		if result.OrderMismatch {
			p.Warning(fmt.Sprintf("Firmware reports %s", planner.FormatOrder(result.After.BootOrder)))
		}
	}
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/pxefirst/internal/planner"
)

var planReportFile string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the boot order pxefirst would apply",
	Long: `Classify the boot entries and print the order the run command would apply.
Nothing is written to the firmware.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		eng := newEngine(s, bootManager(s.conf, planReportFile))
		result, inspectErr := eng.Inspect(cmd.Context())
		if result == nil {
			return inspectErr
		}

		if jsonOutput {
			if err := s.out.JSON(result); err != nil {
				return err
			}
			return inspectErr
		}

		printSnapshot(s.out, result.Snapshot)
		if inspectErr != nil {
			return inspectErr
		}

		s.out.Section("Plan")
		s.out.LabelValue("Current order", planner.FormatOrder(result.Snapshot.BootOrder))
		s.out.LabelValueWithColor("Planned order", result.Plan.String(), s.out.info)
		switch {
		case result.AlreadyOptimal:
			s.out.Success("Already optimal, run would not change anything")
		case !result.Plan.Changed:
			s.out.Success("Plan matches the current order")
		default:
			s.out.Warning("Run would change the boot order")
		}
		return nil
	},
}

func init() {
	planCmd.Flags().StringVar(&planReportFile, "report-file", "", "Read a saved efibootmgr report instead of the firmware")
}

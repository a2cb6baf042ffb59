package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/pxefirst/internal/planner"
)

var statusReportFile string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show boot entries and whether the order is already optimal",
	Long: `Display the firmware boot entries with their categories, the current boot
order and whether it already puts PXE first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		eng := newEngine(s, bootManager(s.conf, statusReportFile))
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
		if inspectErr == nil {
			s.out.Section("Status")
			if result.AlreadyOptimal {
				s.out.LabelValueWithColor("Already optimal", "yes", s.out.success)
			} else {
				s.out.LabelValueWithColor("Already optimal", "no", s.out.warning)
			}
		}
		return inspectErr
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusReportFile, "report-file", "", "Read a saved efibootmgr report instead of the firmware")
}

// printSnapshot prints the entry table and the boot variables.
func printSnapshot(p *printer, snap *planner.Snapshot) {
	p.Section("Boot entries")

	if len(snap.Entries) == 0 {
		p.EmptyState("No boot entries")
	} else {
		rows := make([][]string, 0, len(snap.Entries))
		for _, e := range snap.Entries {
			active := ""
			if e.Active {
				active = "*"
			}
			current := ""
			if e.ID == snap.BootCurrent {
				current = "<-"
			}
			rows = append(rows, []string{e.ID, active, e.Category().String(), e.Description, current})
		}
		p.Table([]string{"ID", "ACTIVE", "CATEGORY", "DESCRIPTION", "CURRENT"}, rows)
	}

	p.Section("Boot variables")
	p.LabelValue("BootOrder", orDash(planner.FormatOrder(snap.BootOrder)))
	p.LabelValue("BootCurrent", orDash(snap.BootCurrent))
	if snap.BootNext != "" {
		p.LabelValue("BootNext", snap.BootNext)
	}
	if snap.Timeout != "" {
		p.LabelValue("Timeout", snap.Timeout)
	}
	p.LabelValue("PXE entries", fmt.Sprint(len(snap.PXEEntries())))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

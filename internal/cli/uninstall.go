package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/pxefirst/internal/fsops"
	"github.com/danieljhkim/pxefirst/internal/service"
	"github.com/danieljhkim/pxefirst/internal/sysexec"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Disable and remove the systemd unit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, true)
		if err != nil {
			return err
		}
		defer s.Close()

		unitPath := s.conf.Service.UnitPath
		inst := service.NewInstaller(fsops.NewRealFS(), sysexec.NewRealRunner(), s.logger, unitPath)
		if err := inst.Uninstall(cmd.Context()); err != nil {
			return err
		}

		if jsonOutput {
			return s.out.JSON(map[string]string{"unit_path": unitPath, "status": "removed"})
		}
		s.out.Success(fmt.Sprintf("Removed %s", service.UnitName))
		return nil
	},
}

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/pxefirst/internal/fsops"
	"github.com/danieljhkim/pxefirst/internal/service"
	"github.com/danieljhkim/pxefirst/internal/sysexec"
)

var (
	installBinary   string
	installUnitPath string
	installNoEnable bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the systemd unit that runs pxefirst at boot",
	Long: `Write the oneshot systemd unit, reload systemd and enable the unit so the
boot order pass runs at every startup.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, true)
		if err != nil {
			return err
		}
		defer s.Close()

		binary := s.conf.Service.BinaryPath
		if installBinary != "" {
			binary = installBinary
		}
		unitPath := s.conf.Service.UnitPath
		if installUnitPath != "" {
			unitPath = installUnitPath
		}

		unit := service.Unit{
			BinaryPath: binary,
			Timeout:    s.conf.Service.Timeout,
		}
		if configFile != "" {
			abs, err := filepath.Abs(configFile)
			if err != nil {
				return fmt.Errorf("failed to resolve config path: %w", err)
			}
			unit.ConfigFile = abs
		}

		inst := service.NewInstaller(fsops.NewRealFS(), sysexec.NewRealRunner(), s.logger, unitPath)
		result, err := inst.Install(cmd.Context(), service.InstallOptions{
			Unit:     unit,
			NoEnable: installNoEnable,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return s.out.JSON(result)
		}

		if result.Updated {
			s.out.Success(fmt.Sprintf("Wrote %s", result.UnitPath))
		} else {
			s.out.Success(fmt.Sprintf("%s is up to date", result.UnitPath))
		}
		if result.Enabled {
			s.out.Success(fmt.Sprintf("Enabled %s", service.UnitName))
		} else {
			s.out.Info(fmt.Sprintf("Not enabled; run 'systemctl enable %s' to run at boot", service.UnitName))
		}
		return nil
	},
}

func init() {
	installCmd.Flags().StringVar(&installBinary, "binary", "", "Path of the pxefirst binary started by the unit")
	installCmd.Flags().StringVar(&installUnitPath, "unit-path", "", "Where to write the unit file")
	installCmd.Flags().BoolVar(&installNoEnable, "no-enable", false, "Do not enable the unit")
}

package cli

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration pxefirst would run with, after defaults, the config
file, PXEFIRST_* environment variables and flags are applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		p := printerFor(cmd)
		if jsonOutput {
			return p.JSON(conf.Settings())
		}

		out, err := conf.YAML()
		if err != nil {
			return err
		}
		if conf.Source != "" {
			p.Info("# " + conf.Source)
		}
		_, err = p.out.Write(out)
		return err
	},
}

package cmd

import (
	"github.com/spf13/cobra"
)

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to inspect the configuration",
	Long: `The configuration is read from a yaml file (--config, $TUQUE_CONFIG, ./tuque.yaml or $HOME/.tuque/tuque.yaml),
then overridden by TUQUE_* environment variables and by flags.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		b, err := cfg.Marshal()
		if err != nil {
			wrapFatalln("serialize config to yaml", err)
			return
		}
		_, _ = out.Write(b)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/jonathangreen/tuque-sub001/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tuque",
	Short: "Tuque manages the objects of a digital repository",
	Long: `Tuque manages the objects of a digital repository: objects with their metadata,
their datastreams (content with a version history) and the relationships between them.

Objects are kept in an embedded repository, stored in a local directory or in a badger database.
`,
	SilenceUsage: true,
}

var cfg *config.Config

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	addConfigFileFlag(rootCmd)
	bindFlag(rootCmd, "loglevel", addLogLevelFlag(rootCmd))
	bindFlag(rootCmd, "namespace", addNamespaceFlag(rootCmd))
	bindFlag(rootCmd, "store.kind", addStoreKindFlag(rootCmd))
	bindFlag(rootCmd, "store.dir", addStoreDirFlag(rootCmd))
	bindFlag(rootCmd, "uuids", addUUIDsFlag(rootCmd))
	addFormatFlag(rootCmd)
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		wrapFatalln("bind flag "+flag, err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	opts := []config.Option{config.Fs(appFs)}
	file := tuqueFlags.root.configFile
	if file == "" {
		file = os.Getenv(config.EnvPrefix + "_CONFIG")
	}
	if file != "" {
		opts = append(opts, config.File(file))
	}

	var err error
	cfg, err = config.Load(viper.GetViper(), opts...)
	if err != nil {
		wrapFatalln("load configuration", err)
	}
}

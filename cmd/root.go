package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Manu343726/rtasm/cmd/mc"
	"github.com/Manu343726/rtasm/cmd/tools"
	"github.com/Manu343726/rtasm/pkg/log"
	"github.com/Manu343726/rtasm/pkg/rt/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var closeLog = func() error { return nil }

// rootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "rtasm",
	Short: "MIPS32/64 instruction encoder",
	Long: `rtasm encodes logical BASE and MSA SIMD instructions into MIPS32/64 r5/r6 machine words.

This CLI exercises the encoder: it prints listings of sample code, checks the
compare and branch tables and dumps the encoding documentation.

The target is read from $HOME/.rtasm.yaml (or --config), RTASM_* environment
variables and the flags below, in increasing order of precedence.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		closer, err := log.Setup(viper.GetString("log.level"), viper.GetString("log.file"))
		if err != nil {
			return err
		}

		closeLog = closer
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(tools.ToolsCmd, mc.McCmd)
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rtasm.yaml)")
	flags.Int("rev", 6, "ISA revision (5 or 6)")
	flags.String("isa", "mips64", "target instruction set (mips32, mips64)")
	flags.Int("ptr", 64, "pointer width in bits (32 or 64), defaults to the ISA register width")
	flags.Int("lanes", 1, "SIMD lanes: 1 (128 bit) or 2 (256 bit)")
	flags.String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	flags.String("log-file", "", "JSON log file")

	bindings := map[string]string{
		config.KeyRevision:     "rev",
		config.KeyISA:          "isa",
		config.KeyPointerWidth: "ptr",
		config.KeyLanes:        "lanes",
		"log.level":            "log-level",
		"log.file":             "log-file",
	}

	for key, flag := range bindings {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".rtasm" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rtasm")
	}

	config.SetDefaults(viper.GetViper())
	viper.SetDefault("log.level", "warn")

	viper.SetEnvPrefix("rtasm")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

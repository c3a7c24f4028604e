package mc

import (
	"github.com/Manu343726/rtasm/pkg/rt/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// McCmd groups the machine code commands
var McCmd = &cobra.Command{
	Use:   "mc",
	Short: "Machine code tools",
	Long: `Commands working on the machine code emitted by the encoder: listings of sample
code for the configured target and consistency checks of the encoder tables.`,
}

func target() (config.Config, error) {
	return config.Load(viper.GetViper())
}

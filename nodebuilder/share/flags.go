package share

import (
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

var (
	fetchConcurrencyFlag   = "share.fetch-concurrency"
	publishConcurrencyFlag = "share.publish-concurrency"
)

// Flags gives a set of hardcoded node/share package flags.
func Flags() *flag.FlagSet {
	flags := &flag.FlagSet{}

	flags.Int(
		fetchConcurrencyFlag,
		0,
		"Amount of cells fetched simultaneously while constructing a matrix (default: sequential)",
	)
	flags.Int(
		publishConcurrencyFlag,
		0,
		"Amount of columns published simultaneously (default: sequential)",
	)

	return flags
}

// ParseFlags parses share flags from the given cmd and saves them to the passed config.
func ParseFlags(cmd *cobra.Command, cfg *Config) error {
	if cmd.Flags().Changed(fetchConcurrencyFlag) {
		n, err := cmd.Flags().GetInt(fetchConcurrencyFlag)
		if err != nil {
			return err
		}
		cfg.Builder.Concurrency = n
	}
	if cmd.Flags().Changed(publishConcurrencyFlag) {
		n, err := cmd.Flags().GetInt(publishConcurrencyFlag)
		if err != nil {
			return err
		}
		cfg.Publisher.Concurrency = n
	}
	return nil
}

package kate

import (
	"os"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

var (
	addrFlag  = "kate.addr"
	tokenFlag = "kate.token"
	rowsFlag  = "kate.rows"
	colsFlag  = "kate.cols"

	// tokenEnv is the environment variable the auth token is read from, unless given by flag.
	tokenEnv = "DA_MATRIX_KATE_TOKEN"
)

// Flags gives a set of hardcoded node/kate package flags.
func Flags() *flag.FlagSet {
	flags := &flag.FlagSet{}

	flags.String(
		addrFlag,
		"",
		"Address of a remote kate RPC endpoint, e.g. http://localhost:26658. Cells are generated locally if not set",
	)
	flags.String(
		tokenFlag,
		"",
		"Auth token for the remote kate RPC endpoint. Falls back to "+tokenEnv,
	)
	flags.Uint16(
		rowsFlag,
		0,
		"Amount of rows of locally generated matrices",
	)
	flags.Uint16(
		colsFlag,
		0,
		"Amount of columns of locally generated matrices",
	)

	return flags
}

// ParseFlags parses kate flags from the given cmd and saves them to the passed config.
func ParseFlags(cmd *cobra.Command, cfg *Config) error {
	addr := cmd.Flag(addrFlag).Value.String()
	if addr != "" {
		cfg.Address = addr
	}

	token := cmd.Flag(tokenFlag).Value.String()
	if token == "" {
		token = os.Getenv(tokenEnv)
	}
	if token != "" {
		cfg.Token = token
	}

	if cmd.Flags().Changed(rowsFlag) {
		rows, err := cmd.Flags().GetUint16(rowsFlag)
		if err != nil {
			return err
		}
		cfg.Rows = rows
	}
	if cmd.Flags().Changed(colsFlag) {
		cols, err := cmd.Flags().GetUint16(colsFlag)
		if err != nil {
			return err
		}
		cfg.Cols = cols
	}
	return nil
}

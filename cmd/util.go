package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/celestiaorg/da-matrix/nodebuilder/kate"
	rpc_cfg "github.com/celestiaorg/da-matrix/nodebuilder/rpc"
	"github.com/celestiaorg/da-matrix/nodebuilder/share"
)

func PrintOutput(data interface{}, err error, formatData func(interface{}) interface{}) error {
	switch {
	case err != nil:
		data = err.Error()
	case formatData != nil:
		data = formatData(data)
	}

	resp := struct {
		Result interface{} `json:"result"`
	}{
		Result: data,
	}

	bytes, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(bytes))
	return nil
}

// NodeFlagSets lists every flag set consumed by PersistentPreRunEnv.
func NodeFlagSets() []*flag.FlagSet {
	return []*flag.FlagSet{
		NodeFlags(),
		MiscFlags(),
		rpc_cfg.Flags(),
		kate.Flags(),
		share.Flags(),
	}
}

// PersistentPreRunEnv loads the config of the Node and applies the flags of the command on top of
// it.
func PersistentPreRunEnv(cmd *cobra.Command, _ []string) error {
	var (
		ctx = cmd.Context()
		err error
	)

	// loads existing config into the environment
	ctx, err = ParseNodeFlags(ctx, cmd)
	if err != nil {
		return err
	}

	cfg := NodeConfig(ctx)

	ctx, err = ParseMiscFlags(ctx, cmd)
	if err != nil {
		return err
	}

	err = rpc_cfg.ParseFlags(cmd, &cfg.RPC)
	if err != nil {
		return err
	}

	err = kate.ParseFlags(cmd, &cfg.Kate)
	if err != nil {
		return err
	}

	err = share.ParseFlags(cmd, &cfg.Share)
	if err != nil {
		return err
	}

	// set config
	ctx = WithNodeConfig(ctx, &cfg)
	cmd.SetContext(ctx)
	return nil
}

// WithFlagSet adds the given flagset to the command.
func WithFlagSet(fset []*flag.FlagSet) func(*cobra.Command) {
	return func(c *cobra.Command) {
		for _, set := range fset {
			c.Flags().AddFlagSet(set)
		}
	}
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/da-matrix/cmd"
)

func init() {
	adminCmd.PersistentFlags().AddFlagSet(cmd.RPCFlags())
	adminCmd.AddCommand(infoCmd, logCmd, logModuleCmd, dimsCmd)
}

var adminCmd = &cobra.Command{
	Use:               "admin [command]",
	Short:             "Allows to interact with a running node over the RPC",
	Args:              cobra.NoArgs,
	PersistentPreRunE: cmd.InitClient,
	PersistentPostRun: func(c *cobra.Command, _ []string) {
		client, err := cmd.ParseClientFromCtx(c.Context())
		if err == nil {
			client.Close()
		}
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Args:  cobra.NoArgs,
	Short: "Prints administrative information about the node",
	RunE: func(c *cobra.Command, _ []string) error {
		client, err := cmd.ParseClientFromCtx(c.Context())
		if err != nil {
			return err
		}
		info, err := client.Node.Info(c.Context())
		return cmd.PrintOutput(info, err, nil)
	},
}

var dimsCmd = &cobra.Command{
	Use:   "dims [block]",
	Args:  cobra.ExactArgs(1),
	Short: "Prints the dimensions of the matrix of the given block",
	RunE: func(c *cobra.Command, args []string) error {
		client, err := cmd.ParseClientFromCtx(c.Context())
		if err != nil {
			return err
		}
		var block uint64
		if _, err := fmt.Sscan(args[0], &block); err != nil {
			return fmt.Errorf("cmd: parsing block: %w", err)
		}
		dims, err := client.Kate.MatrixDimensions(c.Context(), block)
		return cmd.PrintOutput(dims, err, nil)
	},
}

var logCmd = &cobra.Command{
	Use:  cmd.LogLevelFlag,
	Args: cobra.ExactArgs(1),
	Short: "Allows to set log level for all modules to " +
		"`DEBUG, INFO, WARN, ERROR, DPANIC, PANIC, FATAL and their lower-case forms`",

	RunE: func(c *cobra.Command, args []string) error {
		client, err := cmd.ParseClientFromCtx(c.Context())
		if err != nil {
			return err
		}
		return client.Node.LogLevelSet(c.Context(), "*", args[0])
	},
}

var logModuleCmd = &cobra.Command{
	Use:   cmd.LogLevelModuleFlag,
	Args:  cobra.MinimumNArgs(1),
	Short: "Allows to set log level for a particular module in format <module>:<level>",
	RunE: func(c *cobra.Command, args []string) error {
		client, err := cmd.ParseClientFromCtx(c.Context())
		if err != nil {
			return err
		}
		for _, ll := range args {
			params := strings.Split(ll, ":")
			if len(params) != 2 {
				return fmt.Errorf("cmd: %s arg must be in form <module>:<level>,"+
					"e.g. share/publish:debug", cmd.LogLevelModuleFlag)
			}
			if err = client.Node.LogLevelSet(c.Context(), params[0], params[1]); err != nil {
				return err
			}
		}
		return nil
	},
}

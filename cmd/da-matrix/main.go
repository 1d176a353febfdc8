package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	cmdnode "github.com/celestiaorg/da-matrix/cmd"
)

func init() {
	rootCmd.AddCommand(
		cmdnode.Init(cmdnode.NodeFlagSets()...),
		cmdnode.Start(cmdnode.NodeFlagSets()...),
		cmdnode.Publish(cmdnode.NodeFlagSets()...),
		cmdnode.Head(cmdnode.NodeFlagSets()...),
		cmdnode.Column(cmdnode.NodeFlagSets()...),
		cmdnode.GC(cmdnode.NodeFlagSets()...),
		cmdnode.AuthCmd(cmdnode.NodeFlagSets()...),
		adminCmd,
		versionCmd,
	)
	rootCmd.SetHelpCommand(&cobra.Command{})
}

func main() {
	err := run()
	if err != nil {
		os.Exit(1)
	}
}

func run() error {
	return rootCmd.ExecuteContext(context.Background())
}

var rootCmd = &cobra.Command{
	Use:   "da-matrix [subcommand]",
	Short: "Builds, publishes and recovers content addressed data matrices",
	Args:  cobra.NoArgs,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: cmdnode.PersistentPreRunEnv,
}

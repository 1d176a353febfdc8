package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/da-matrix/nodebuilder/node"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show information about the current binary build",
	Args:  cobra.NoArgs,
	// no node environment needed
	PersistentPreRun: func(*cobra.Command, []string) {},
	Run:              printBuildInfo,
}

func printBuildInfo(_ *cobra.Command, _ []string) {
	info := node.GetBuildInfo()
	fmt.Printf("Semantic version: %s\n", info.SemanticVersion)
	fmt.Printf("Commit: %s\n", info.LastCommit)
	fmt.Printf("Build Date: %s\n", info.BuildTime)
	fmt.Printf("System version: %s\n", info.SystemVersion)
	fmt.Printf("Golang version: %s\n", info.GolangVersion)
}

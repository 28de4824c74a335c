package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "emberflow",
	Short: "Emberflow translates and executes visual automation flows",
	Long: `Emberflow takes flow definitions authored as node/edge graphs,
validates their dependencies, translates them into the Node-RED flows
format, and simulates their execution step by step.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}

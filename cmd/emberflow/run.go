package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emberflow/emberflow"
	"github.com/emberflow/emberflow/internal/flowfile"
)

// runCmd executes a flow definition file and prints the report.
var runCmd = &cobra.Command{
	Use:   "run <flow file>",
	Short: "Execute a flow definition and print the execution report",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flow, err := flowfile.Load(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading flow: %v\n", err)
			os.Exit(1)
		}

		opts := []emberflow.Option{emberflow.WithLogger(newLogger(cmd))}
		if strict, _ := cmd.Flags().GetBool("strict"); strict {
			opts = append(opts, emberflow.WithStrictCycles())
		}
		eng := emberflow.New(opts...)

		report := eng.Execute(cmd.Context(), flow, nil)
		if err := printJSON(report); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("strict", false, "Reject flows with circular dependencies")
}

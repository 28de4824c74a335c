package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emberflow/emberflow"
	"github.com/emberflow/emberflow/internal/flowfile"
)

// validateCmd checks a flow definition's dependency graph.
var validateCmd = &cobra.Command{
	Use:   "validate <flow file>",
	Short: "Validate a flow definition's dependency graph",
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

		if err := eng.Validate(flow); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid flow: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Flow %s is valid (%d nodes, %d edges)\n", flow.ID, len(flow.Nodes), len(flow.Edges))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Reject flows with circular dependencies")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emberflow/emberflow/internal/flowfile"
	adapter "github.com/emberflow/emberflow/pkg/adapters/nodered"
	"github.com/emberflow/emberflow/pkg/nodered"
)

// translateCmd converts a flow definition into the Node-RED flows
// format and optionally imports it through the admin API.
var translateCmd = &cobra.Command{
	Use:   "translate <flow file>",
	Short: "Translate a flow into the Node-RED flows format",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flow, err := flowfile.Load(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading flow: %v\n", err)
			os.Exit(1)
		}

		nodes := nodered.Translate(flow)

		if publish, _ := cmd.Flags().GetBool("publish"); publish {
			url, _ := cmd.Flags().GetString("url")
			token, _ := cmd.Flags().GetString("token")
			publisher := adapter.NewPublisher(url, adapter.WithToken(token))
			if err := publisher.Publish(cmd.Context(), nodes); err != nil {
				fmt.Fprintf(os.Stderr, "Error publishing flow: %v\n", err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Flow %s deployed to %s\n", flow.ID, url)
		}

		if err := printJSON(nodes); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().Bool("publish", false, "Import the translation via the runtime admin API")
	translateCmd.Flags().String("url", "http://localhost:1880", "Node-RED base URL")
	translateCmd.Flags().String("token", "", "Bearer token for the admin API")
}

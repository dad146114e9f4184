package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var endpointCmd = &cobra.Command{
	Use:   "endpoint",
	Short: "Print the current versioned search-data endpoint",
	Long:  "Fetch the front page, extract the deployment token and print the search-data endpoint derived from it.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ep, err := newClient(cmd).Resolve(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ep.BaseURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(endpointCmd)
}

package commands

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <run-id>",
	Short: "Show the status record of a run.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := client.R().
			SetContext(cmd.Context()).
			Get(apiBase + "/runs/" + args[0])
		if err != nil {
			return err
		}
		return printResponse(res)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

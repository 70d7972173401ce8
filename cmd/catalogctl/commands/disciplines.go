package commands

import (
	"github.com/spf13/cobra"
)

var disciplinesCmd = &cobra.Command{
	Use:   "disciplines [discipline-id]",
	Short: "List stored disciplines, or show one by its key.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := apiBase + "/disciplines"
		if len(args) == 1 {
			url += "/" + args[0]
		}
		res, err := client.R().
			SetContext(cmd.Context()).
			Get(url)
		if err != nil {
			return err
		}
		return printResponse(res)
	},
}

func init() {
	rootCmd.AddCommand(disciplinesCmd)
}

package commands

import (
	"github.com/spf13/cobra"
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Trigger a whatsapp link enrichment pass.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := client.R().
			SetContext(cmd.Context()).
			Post(apiBase + "/disciplines/whatsapp-links")
		if err != nil {
			return err
		}
		return printResponse(res)
	},
}

func init() {
	rootCmd.AddCommand(linksCmd)
}

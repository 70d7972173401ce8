package commands

import (
	"github.com/spf13/cobra"
)

var (
	scrapeMatricula string
	scrapeSenha     string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Trigger a discipline scrape run.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := client.R().
			SetContext(cmd.Context()).
			SetBody(map[string]string{
				"matricula": scrapeMatricula,
				"senha":     scrapeSenha,
			}).
			Post(apiBase + "/disciplines/scrape")
		if err != nil {
			return err
		}
		return printResponse(res)
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeMatricula, "matricula", "", "Portal enrollment number.")
	scrapeCmd.Flags().StringVar(&scrapeSenha, "senha", "", "Portal password.")
	scrapeCmd.MarkFlagRequired("matricula")
	scrapeCmd.MarkFlagRequired("senha")
	rootCmd.AddCommand(scrapeCmd)
}

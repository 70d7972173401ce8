package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var apiBase string

var client = resty.New()

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Operate the course catalog backend over its HTTP API.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&apiBase,
		"api",
		"http://localhost:3000",
		"Base URL of the backend API.",
	)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func printResponse(res *resty.Response) error {
	fmt.Println(string(res.Body()))
	if res.IsError() {
		return fmt.Errorf("request failed: %s", res.Status())
	}
	return nil
}

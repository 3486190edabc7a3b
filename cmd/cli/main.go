package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/legaltext/finetuner/cmd/cli/commands"
)

var rootCmd = &cobra.Command{
	Use:   "legaltext",
	Short: "Legal text platform CLI",
	Long:  `Command line tool for managing datasets, training jobs and models through the legal text platform API.`,
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Base URL of the API")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Request timeout")
	rootCmd.PersistentFlags().String("token", "", "Bearer access token")

	// Add all subcommands to root command
	rootCmd.AddCommand(commands.GetJobsCmd())
	rootCmd.AddCommand(commands.GetDatasetsCmd())
	rootCmd.AddCommand(commands.GetModelsCmd())
	rootCmd.AddCommand(commands.GetUsersCmd())
	rootCmd.AddCommand(commands.GetInferCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

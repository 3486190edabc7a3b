// Package commands implements the CLI subcommands.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/legaltext/finetuner/pkg/api/v1/client"
	"github.com/legaltext/finetuner/pkg/api/v1/routes"
)

// clientInstance is a singleton instance of the API client
var clientInstance *client.APIClient

// getAPIClient returns the API client instance, creating it if necessary
func getAPIClient(cmd *cobra.Command) (*client.APIClient, error) {
	if clientInstance != nil {
		return clientInstance, nil
	}

	// Get configuration from flags or environment
	baseURL, _ := cmd.Flags().GetString("api-url")
	if baseURL == "" {
		baseURL = os.Getenv("LEGALTEXT_API_URL")
		if baseURL == "" {
			baseURL = routes.DefaultBaseURL
		}
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = client.DefaultTimeout
	}

	apiClient, err := client.NewClient(&client.Options{
		BaseURL: baseURL,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv("LEGALTEXT_TOKEN")
	}
	apiClient.AuthToken = token

	clientInstance = apiClient
	return clientInstance, nil
}

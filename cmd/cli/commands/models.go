package commands

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// modelOutput represents the filtered output for a trained model
type modelOutput struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	ModelType string `json:"model_type"`
	Task      string `json:"task"`
	BaseModel string `json:"base_model,omitempty"`
}

func init() {
	modelsCmd.AddCommand(listModelsCmd)

	// Add flags
	listModelsCmd.Flags().StringP("task", "t", "", "Filter models by task")
	listModelsCmd.Flags().StringP("model-type", "m", "", "Filter models by architecture")
}

// GetModelsCmd returns the models command group
func GetModelsCmd() *cobra.Command {
	return modelsCmd
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage trained models",
}

var listModelsCmd = &cobra.Command{
	Use:   "list",
	Short: "List trained models",
	RunE: func(cmd *cobra.Command, _ []string) error {
		apiClient, err := getAPIClient(cmd)
		if err != nil {
			return err
		}

		query := url.Values{}
		if task, _ := cmd.Flags().GetString("task"); task != "" {
			query.Set("task", task)
		}
		if modelType, _ := cmd.Flags().GetString("model-type"); modelType != "" {
			query.Set("model_type", modelType)
		}

		response, err := apiClient.ListModels(context.Background(), query)
		if err != nil {
			return fmt.Errorf("error fetching models: %w", err)
		}

		output := make([]modelOutput, len(response.Rows))
		for i, model := range response.Rows {
			output[i] = modelOutput{
				ID:        model.ID,
				Name:      model.Name,
				ModelType: string(model.ModelType),
				Task:      string(model.Task),
				BaseModel: model.BaseModel,
			}
		}
		return printJSON(output)
	},
}

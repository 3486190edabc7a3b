package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/legaltext/finetuner/pkg/api/v1/handlers"
)

func init() {
	inferCmd.Flags().UintP("model", "m", 0, "ID of the trained model to run")
	inferCmd.Flags().StringP("text", "t", "", "Text to run through the model")
	inferCmd.Flags().StringP("file", "f", "", "File whose contents to run through the model")
	inferCmd.Flags().Int("max-length", 0, "Maximum output length in tokens")
	inferCmd.Flags().Int("num-beams", 0, "Beam search width")
	inferCmd.Flags().String("language", "", "Language hint for multilingual models")
	_ = inferCmd.MarkFlagRequired("model")
}

// GetInferCmd returns the infer command
func GetInferCmd() *cobra.Command {
	return inferCmd
}

var inferCmd = &cobra.Command{
	Use:   "infer",
	Short: "Run text through a trained model",
	RunE: func(cmd *cobra.Command, _ []string) error {
		apiClient, err := getAPIClient(cmd)
		if err != nil {
			return err
		}

		text, _ := cmd.Flags().GetString("text")
		if path, _ := cmd.Flags().GetString("file"); path != "" {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("error reading input file: %w", err)
			}
			text = string(content)
		}
		if text == "" {
			return fmt.Errorf("no input: set --text or --file")
		}

		modelID, _ := cmd.Flags().GetUint("model")
		maxLength, _ := cmd.Flags().GetInt("max-length")
		numBeams, _ := cmd.Flags().GetInt("num-beams")
		language, _ := cmd.Flags().GetString("language")

		response, err := apiClient.Generate(context.Background(), handlers.GenerateParams{
			ModelID:   modelID,
			Text:      text,
			MaxLength: maxLength,
			NumBeams:  numBeams,
			Language:  language,
		})
		if err != nil {
			return fmt.Errorf("error running inference: %w", err)
		}
		return printJSON(response)
	},
}

package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
)

// datasetOutput represents the filtered output for a dataset
type datasetOutput struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Format   string `json:"format"`
	IsPublic bool   `json:"is_public"`
}

func init() {
	datasetsCmd.AddCommand(listDatasetsCmd)
	datasetsCmd.AddCommand(uploadDatasetCmd)

	// Add flags
	listDatasetsCmd.Flags().StringP("search", "s", "", "Filter datasets by name")

	uploadDatasetCmd.Flags().StringP("file", "f", "", "Path of the corpus file to upload")
	uploadDatasetCmd.Flags().StringP("name", "n", "", "Dataset name")
	uploadDatasetCmd.Flags().StringP("description", "d", "", "Dataset description")
	uploadDatasetCmd.Flags().Bool("public", false, "Make the dataset public")
	_ = uploadDatasetCmd.MarkFlagRequired("file")
	_ = uploadDatasetCmd.MarkFlagRequired("name")
}

// GetDatasetsCmd returns the datasets command group
func GetDatasetsCmd() *cobra.Command {
	return datasetsCmd
}

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Manage datasets",
}

var listDatasetsCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		apiClient, err := getAPIClient(cmd)
		if err != nil {
			return err
		}

		query := url.Values{}
		if search, _ := cmd.Flags().GetString("search"); search != "" {
			query.Set("search", search)
		}

		response, err := apiClient.ListDatasets(context.Background(), query)
		if err != nil {
			return fmt.Errorf("error fetching datasets: %w", err)
		}

		output := make([]datasetOutput, len(response.Rows))
		for i, dataset := range response.Rows {
			output[i] = datasetOutput{
				ID:       dataset.ID,
				Name:     dataset.Name,
				Format:   dataset.FileFormat,
				IsPublic: dataset.IsPublic,
			}
		}
		return printJSON(output)
	},
}

var uploadDatasetCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a corpus file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		apiClient, err := getAPIClient(cmd)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("file")
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		isPublic, _ := cmd.Flags().GetBool("public")

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}

		dataset, err := apiClient.UploadDataset(context.Background(), name, description, filepath.Base(path), content, isPublic)
		if err != nil {
			return fmt.Errorf("error uploading dataset: %w", err)
		}
		fmt.Println("uploaded dataset " + strconv.FormatUint(uint64(dataset.ID), 10))
		return printJSON(dataset.Statistics)
	},
}

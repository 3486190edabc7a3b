package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// jobOutput represents the filtered output for a job
type jobOutput struct {
	JobID    string `json:"job_id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

func init() {
	jobsCmd.AddCommand(listJobsCmd)
	jobsCmd.AddCommand(getJobCmd)
	jobsCmd.AddCommand(cancelJobCmd)

	// Add flags
	listJobsCmd.Flags().StringP("status", "s", "", "Filter jobs by status")

	getJobCmd.Flags().StringP("id", "i", "", "Job ID to fetch")
	_ = getJobCmd.MarkFlagRequired("id")

	cancelJobCmd.Flags().StringP("id", "i", "", "Job ID to cancel")
	_ = cancelJobCmd.MarkFlagRequired("id")
}

// GetJobsCmd returns the jobs command group
func GetJobsCmd() *cobra.Command {
	return jobsCmd
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage training jobs",
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List training jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		apiClient, err := getAPIClient(cmd)
		if err != nil {
			return err
		}

		query := url.Values{}
		if status, _ := cmd.Flags().GetString("status"); status != "" {
			query.Set("status", status)
		}

		response, err := apiClient.ListJobs(context.Background(), query)
		if err != nil {
			return fmt.Errorf("error fetching jobs: %w", err)
		}

		// Filter the response to only include relevant fields
		output := make([]jobOutput, len(response.Rows))
		for i, job := range response.Rows {
			output[i] = jobOutput{
				JobID:    job.JobID,
				Name:     job.Name,
				Status:   string(job.Status),
				Progress: job.Progress,
			}
		}
		return printJSON(output)
	},
}

var getJobCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a specific training job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		apiClient, err := getAPIClient(cmd)
		if err != nil {
			return err
		}

		jobID, _ := cmd.Flags().GetString("id")
		job, err := apiClient.GetJob(context.Background(), jobID)
		if err != nil {
			return fmt.Errorf("error fetching job: %w", err)
		}
		return printJSON(job)
	},
}

var cancelJobCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel a pending or running training job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		apiClient, err := getAPIClient(cmd)
		if err != nil {
			return err
		}

		jobID, _ := cmd.Flags().GetString("id")
		if err := apiClient.CancelJob(context.Background(), jobID); err != nil {
			return fmt.Errorf("error cancelling job: %w", err)
		}
		fmt.Printf("job %s cancelled\n", jobID)
		return nil
	},
}

// printJSON pretty prints a value as indented JSON
func printJSON(v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Println(string(prettyJSON))
	return nil
}

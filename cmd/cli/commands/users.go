package commands

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/legaltext/finetuner/pkg/api/v1/handlers"
)

// userOutput represents the filtered output for a user account
type userOutput struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

func init() {
	usersCmd.AddCommand(listUsersCmd)
	usersCmd.AddCommand(getUserCmd)
	usersCmd.AddCommand(updateUserCmd)
	usersCmd.AddCommand(deleteUserCmd)

	// Add flags
	listUsersCmd.Flags().StringP("role", "r", "", "Filter users by role")

	getUserCmd.Flags().UintP("id", "i", 0, "User ID to fetch")
	_ = getUserCmd.MarkFlagRequired("id")

	updateUserCmd.Flags().UintP("id", "i", 0, "User ID to update")
	updateUserCmd.Flags().String("role", "", "New role (user, admin, researcher, legal_professional)")
	updateUserCmd.Flags().String("status", "", "New status (active, inactive, suspended, pending)")
	_ = updateUserCmd.MarkFlagRequired("id")

	deleteUserCmd.Flags().UintP("id", "i", 0, "User ID to delete")
	_ = deleteUserCmd.MarkFlagRequired("id")
}

// GetUsersCmd returns the users command group
func GetUsersCmd() *cobra.Command {
	return usersCmd
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts (admin only)",
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		apiClient, err := getAPIClient(cmd)
		if err != nil {
			return err
		}

		query := url.Values{}
		if role, _ := cmd.Flags().GetString("role"); role != "" {
			query.Set("role", role)
		}

		response, err := apiClient.GetUsers(context.Background(), query)
		if err != nil {
			return fmt.Errorf("error fetching users: %w", err)
		}

		output := make([]userOutput, len(response.Rows))
		for i, user := range response.Rows {
			output[i] = userOutput{
				ID:       user.ID,
				Username: user.Username,
				Email:    user.Email,
				Role:     string(user.Role),
				Status:   string(user.Status),
			}
		}
		return printJSON(output)
	},
}

var getUserCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a specific user account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		apiClient, err := getAPIClient(cmd)
		if err != nil {
			return err
		}

		id, _ := cmd.Flags().GetUint("id")
		user, err := apiClient.GetUserByID(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error fetching user: %w", err)
		}
		return printJSON(user)
	},
}

var updateUserCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a user's role or status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		apiClient, err := getAPIClient(cmd)
		if err != nil {
			return err
		}

		params := handlers.AdminUpdateUserParams{}
		if role, _ := cmd.Flags().GetString("role"); role != "" {
			params.Role = &role
		}
		if status, _ := cmd.Flags().GetString("status"); status != "" {
			params.Status = &status
		}
		if params.Role == nil && params.Status == nil {
			return fmt.Errorf("nothing to update: set --role or --status")
		}

		id, _ := cmd.Flags().GetUint("id")
		user, err := apiClient.UpdateUser(context.Background(), id, params)
		if err != nil {
			return fmt.Errorf("error updating user: %w", err)
		}
		return printJSON(user)
	},
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a user account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		apiClient, err := getAPIClient(cmd)
		if err != nil {
			return err
		}

		id, _ := cmd.Flags().GetUint("id")
		if err := apiClient.DeleteUser(context.Background(), id); err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		fmt.Printf("user %d deleted\n", id)
		return nil
	},
}

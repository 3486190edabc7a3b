package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/internal/db/models"
	"github.com/legaltext/finetuner/pkg/types"
)

// getPaginationOptions returns a ListOptions struct with validated pagination
// parameters read from the query string
func getPaginationOptions(c *fiber.Ctx) (*models.ListOptions, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", models.DefaultLimit)
	if limit < 1 || limit > models.DefaultLimit*4 {
		limit = models.DefaultLimit
	}

	return &models.ListOptions{
		Limit:  limit,
		Offset: (page - 1) * limit,
		Search: c.Query("search"),
	}, page
}

// buildPagination assembles the pagination block of a list response
func buildPagination(total int64, page int, opts *models.ListOptions) types.PaginationResponse {
	return types.PaginationResponse{
		Total:  int(total),
		Page:   page,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}
}

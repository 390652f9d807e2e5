package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty/internal/property"
	"github.com/evcraddock/realty/internal/review"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show property details",
		Long:  "Show full details for a property, including its reviews.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c := newAPIClient()

	p, err := c.GetProperty(id)
	if err != nil {
		return err
	}
	reviews, err := c.ListReviews(id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(struct {
			Property *property.Property `json:"property"`
			Reviews  []*review.Review   `json:"reviews"`
		}{p, reviews})
	}

	printPropertySummary(p)
	fmt.Println()
	if len(reviews) > 0 {
		fmt.Printf("Reviews (%d):\n", len(reviews))
	}
	printReviewList(reviews)

	return nil
}

// parseID parses a positive property ID argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid property ID: %s", arg)
	}
	return id, nil
}

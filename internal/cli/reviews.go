package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newReviewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reviews <id>",
		Short: "List reviews for a property",
		Long:  "List all reviews for a property, newest first.",
		Args:  cobra.ExactArgs(1),
		RunE:  runReviews,
	}
}

func runReviews(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	reviews, err := newAPIClient().ListReviews(id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(reviews)
	}

	fmt.Printf("Reviews for property #%d:\n\n", id)
	printReviewList(reviews)
	return nil
}

func newReviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `review <id> <1-5> "text"`,
		Short: "Review a property",
		Long:  "Leave a review with a rating from 1 to 5. 5 is best.",
		Args:  cobra.MinimumNArgs(3),
		RunE:  runReview,
	}
}

func runReview(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	rating, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid rating: %s (must be 1-5)", args[1])
	}
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be 1-5, got %d", rating)
	}

	text := strings.TrimSpace(strings.Join(args[2:], " "))
	if text == "" {
		return fmt.Errorf("review text is required")
	}

	rv, err := newAPIClient().AddReview(id, text, rating)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(rv)
	}

	printReviewSingle(rv)
	return nil
}

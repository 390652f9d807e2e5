package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/evcraddock/realty/internal/favorite"
	"github.com/evcraddock/realty/internal/property"
	"github.com/evcraddock/realty/internal/review"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPropertySummary prints a single property in text format.
func printPropertySummary(p *property.Property) {
	fmt.Printf("Property #%d: %s\n", p.ID, p.Title)
	fmt.Printf("  Address:  %s, %s, %s %s\n", p.Address, p.City, p.State, p.ZipCode)
	fmt.Printf("  Price:    $%s\n", formatPrice(p.Price))
	fmt.Printf("  Type:     %s\n", p.Type)
	fmt.Printf("  Beds:     %d\n", p.Beds)
	fmt.Printf("  Baths:    %g\n", p.Baths)
	fmt.Printf("  Sqft:     %d\n", p.Sqft)
	fmt.Printf("  Location: %.5f, %.5f\n", p.Latitude, p.Longitude)
	fmt.Printf("  Images:   %d\n", len(p.Images))
	if p.AgentName != "" {
		agent := p.AgentName
		if p.AgentEmail != "" {
			agent += " <" + p.AgentEmail + ">"
		}
		fmt.Printf("  Agent:    %s\n", agent)
	}
	if p.Description != "" {
		fmt.Printf("\n  %s\n", p.Description)
	}
}

// printPropertyTable prints a list of properties as a formatted table.
func printPropertyTable(props []*property.Property) error {
	if len(props) == 0 {
		fmt.Println("No properties found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tTITLE\tCITY\tPRICE\tBED\tBATH\tSQFT"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t-----\t----\t-----\t---\t----\t----"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, p := range props {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t$%s\t%d\t%g\t%d\n",
			p.ID, truncate(p.Title, 40), p.City, formatPrice(p.Price), p.Beds, p.Baths, p.Sqft); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d properties\n", len(props))
	return nil
}

// printFavoriteTable prints saved listings as a formatted table.
func printFavoriteTable(entries []*favorite.Entry) error {
	if len(entries) == 0 {
		fmt.Println("No favorites.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tTITLE\tPRICE\tSAVED"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%d\t%s\t$%s\t%s\n",
			e.ID, truncate(e.Title, 40), formatPrice(e.Price), e.FavoritedAt.Format("2006-01-02")); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	return w.Flush()
}

// printReviewList prints reviews in text format.
func printReviewList(reviews []*review.Review) {
	if len(reviews) == 0 {
		fmt.Println("No reviews.")
		return
	}

	for _, r := range reviews {
		author := r.ReviewerName
		if author == "" {
			author = "anonymous"
		}
		fmt.Printf("[%s] %s #%d (%s)\n  %s\n\n",
			r.CreatedAt.Format("2006-01-02 15:04"), formatRating(r.Rating), r.ID, author, r.Review)
	}
}

// printReviewSingle prints a single review in text format.
func printReviewSingle(r *review.Review) {
	fmt.Printf("Review #%d added %s\n  %s\n", r.ID, formatRating(r.Rating), r.Review)
}

// formatPrice formats a dollar amount with thousands separators, rounded
// to whole dollars.
func formatPrice(dollars float64) string {
	s := fmt.Sprintf("%d", int64(math.Round(dollars)))

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	if len(s) > 3 {
		var parts []string
		for len(s) > 3 {
			parts = append([]string{s[len(s)-3:]}, parts...)
			s = s[:len(s)-3]
		}
		parts = append([]string{s}, parts...)
		s = strings.Join(parts, ",")
	}

	if neg {
		return "-" + s
	}
	return s
}

// formatRating returns a star representation of a rating (1-5).
func formatRating(rating int) string {
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

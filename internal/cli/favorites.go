package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFavoritesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List saved properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := newAPIClient().ListFavorites()
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(entries)
			}
			return printFavoriteTable(entries)
		},
	}
}

func newFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Save a property to favorites",
		Args:  cobra.ExactArgs(1),
		RunE:  runFavorite,
	}
}

func runFavorite(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	f, err := newAPIClient().AddFavorite(id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(f)
	}
	fmt.Printf("Property #%d added to favorites.\n", id)
	return nil
}

func newUnfavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unfavorite <id>",
		Short: "Remove a property from favorites",
		Args:  cobra.ExactArgs(1),
		RunE:  runUnfavorite,
	}
}

func runUnfavorite(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := newAPIClient().RemoveFavorite(id); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]any{"property_id": id, "removed": true})
	}
	fmt.Printf("Property #%d removed from favorites.\n", id)
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/monicalopezucha/practica-final/internal/favorites"
	"github.com/monicalopezucha/practica-final/internal/models"
	"github.com/monicalopezucha/practica-final/internal/storage"
)

var likeCmd = &cobra.Command{
	Use:     "like <brand>",
	Short:   "Add a brand to the favorites",
	GroupID: "favorites",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSet(cmd, args[0], true)
	},
}

var unlikeCmd = &cobra.Command{
	Use:     "unlike <brand>",
	Short:   "Remove a brand from the favorites",
	GroupID: "favorites",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSet(cmd, args[0], false)
	},
}

var likedCmd = &cobra.Command{
	Use:     "liked",
	Short:   "List the favorite brands",
	GroupID: "favorites",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		brands, err := store.ListLikedBrands(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing liked brands: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), brands)
		}
		printLikedTable(cmd.OutOrStdout(), brands)
		return nil
	},
}

func init() {
	likeCmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	unlikeCmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	likedCmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
}

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	store, err := storage.Open(cmd.Context(), cfg.Dashboard.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening liked-brand store: %w", err)
	}
	return store, nil
}

// runSet applies one like or unlike through the same controller the
// dashboard uses, so the preference service is notified too.
func runSet(cmd *cobra.Command, brand string, enabled bool) error {
	store, ctrl, err := openController(cmd.Context(), cfg.Dashboard)
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := ctrl.Set(cmd.Context(), brand, enabled)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), res)
	}
	fmt.Fprintln(cmd.OutOrStdout(), describeResult(res, shouldUseColor()))
	return nil
}

// describeResult renders the outcome of a toggle as one line.
func describeResult(res favorites.Result, color bool) string {
	if res.Notice != nil {
		return paint(res.Notice.Level, res.Notice.Text, color)
	}
	if res.Liked {
		return fmt.Sprintf("%s ya está en tu lista de favoritos", res.Brand)
	}
	return fmt.Sprintf("%s no está en tu lista de favoritos", res.Brand)
}

func printLikedTable(w io.Writer, brands []models.LikedBrand) {
	if len(brands) == 0 {
		fmt.Fprintln(w, "No hay marcas favoritas.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMARCA\tAÑADIDA")
	for _, b := range brands {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", b.ID, b.Brand, b.CreatedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

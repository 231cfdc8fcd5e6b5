// Command vehidash runs the vehicle dashboard, its preference service, and a
// small command-line front end over the liked-brand store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monicalopezucha/practica-final/internal/config"
	"github.com/monicalopezucha/practica-final/internal/logging"
)

var (
	configPath string
	jsonOutput bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "vehidash <command>",
	Short:         "Vehicle price dashboard with favorite brands",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = c
		logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config file")

	rootCmd.AddGroup(
		&cobra.Group{ID: "servers", Title: "Servers:"},
		&cobra.Group{ID: "favorites", Title: "Favorites:"},
	)

	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(allCmd)

	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(unlikeCmd)
	rootCmd.AddCommand(likedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Command starfolio renders the collective's portfolio as a scroll-driven
// flight through a terminal universe.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	rosterPath  string
	portraitDir string
	debug       bool

	rootCmd = &cobra.Command{
		Use:   "starfolio",
		Short: "Scroll-driven 3D portfolio in the terminal",
		Long: `starfolio flies a camera past mentor planets, a central sun with orbiting
member tokens and distant galaxies. Scrolling moves along the path.

Examples:
  starfolio                                  # Built-in roster, default settings
  starfolio run --roster team.toml --watch   # Custom roster, reload on save
  starfolio timeline                         # Print the checkpoint table as JSON
  starfolio textures ./out                   # Write every generated texture as PNG`,
		SilenceUsage: true,
		RunE:         runView,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Configuration file (TOML); defaults apply when empty")
	rootCmd.PersistentFlags().StringVar(&rosterPath, "roster", "",
		"Roster file (TOML); overrides the config, built-in roster when both are empty")
	rootCmd.PersistentFlags().StringVar(&portraitDir, "portraits", "",
		"Directory of member-<id>.png portraits")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Write debug logs to "+logDir+"/"+logFileName)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

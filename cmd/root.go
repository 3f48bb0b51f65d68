package cmd

import (
	"github.com/spf13/cobra"
)

var (
	jsonOutput   bool
	logLevel     string
	stationsFile string
)

var rootCmd = &cobra.Command{
	Use:   "railboard",
	Short: "High-speed rail departure and arrival boards",
	Long: `railboard — departure and arrival boards for French high-speed rail.

Query station boards, look up a train by number and resolve station names.
Data comes from the SNCF coverage of the Navitia API.

Requires SNCF_API_KEY in the environment or in a .env file.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for machine consumption)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&stationsFile, "stations", "", "Station table JSON file (default: built-in table)")
}

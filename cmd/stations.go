package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/glundgren93/railboard/internal/format"
	"github.com/spf13/cobra"
)

var (
	stationsCountry string
	resolveCountry  string
	resolveOffline  bool
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List the configured stations",
	Long: `List the stations of the station table with their provider ids and
direct high-speed connections. Works offline.

Examples:
  railboard stations
  railboard stations --country FR
  railboard stations --json`,
	Aliases: []string{"st"},
	Args:    cobra.NoArgs,
	RunE:    runStations,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <name>",
	Short: "Resolve a station name to a provider id",
	Long: `Resolve a station name. The station table is checked first; unknown names
are searched through the provider.

Examples:
  railboard resolve "Paris Gare de Lyon"
  railboard resolve Bruxelles-Midi --country BE
  railboard resolve "Lyon Part-Dieu" --offline --json`,
	Aliases: []string{"search", "find"},
	Args:    cobra.MinimumNArgs(1),
	RunE:    runResolve,
}

func init() {
	stationsCmd.Flags().StringVar(&stationsCountry, "country", "", "Only stations in this country (ISO code, e.g. FR)")
	resolveCmd.Flags().StringVar(&resolveCountry, "country", "", "Country hint (ISO code, e.g. FR)")
	resolveCmd.Flags().BoolVar(&resolveOffline, "offline", false, "Only look in the station table")

	rootCmd.AddCommand(stationsCmd)
	rootCmd.AddCommand(resolveCmd)
}

func runStations(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	stations := a.resolver.Stations(stationsCountry)
	if jsonOutput {
		return format.JSON(stations)
	}
	format.Stations(stations)
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(!resolveOffline)
	if err != nil {
		return err
	}
	defer a.close()

	name := strings.Join(args, " ")
	station, err := a.resolver.Resolve(ctx, name, resolveCountry)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", name, err)
	}

	if jsonOutput {
		return format.JSON(station)
	}
	format.Station(station)
	return nil
}

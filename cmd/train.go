package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glundgren93/railboard/internal/api"
	"github.com/glundgren93/railboard/internal/format"
	"github.com/glundgren93/railboard/internal/model"
	"github.com/rickb777/date"
	"github.com/spf13/cobra"
)

var trainDate string

var trainCmd = &cobra.Command{
	Use:   "train <number>",
	Short: "Find a train by its number",
	Long: `Find a train by its number across the stations of the station table.

Every station is checked against the stations it connects to, so this makes
one provider request per connection and can take a while.

Examples:
  railboard train 6611
  railboard train 6611 --date tomorrow
  railboard train 9014 --json`,
	Aliases: []string{"t"},
	Args:    cobra.ExactArgs(1),
	RunE:    runTrain,
}

func init() {
	trainCmd.Flags().StringVar(&trainDate, "date", "", "Travel date: today, tomorrow or YYYY-MM-DD")
	rootCmd.AddCommand(trainCmd)
}

type trainResult struct {
	TrainNumber string          `json:"train_number"`
	Date        date.Date       `json:"date"`
	Journeys    []model.Journey `json:"journeys"`
}

func runTrain(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	number := strings.TrimSpace(args[0])
	day, err := api.ParseDate(trainDate, date.NewAt(time.Now().In(a.cfg.Location())))
	if err != nil {
		return err
	}

	if !jsonOutput {
		fmt.Fprintf(cmd.ErrOrStderr(), "🔍 Searching train %s on %s...\n\n", number, day)
	}

	journeys, err := a.fetcher.SearchTrainNumber(ctx, number, a.stations, day)
	if err != nil {
		return fmt.Errorf("searching train %s: %w", number, err)
	}

	if jsonOutput {
		return format.JSON(trainResult{TrainNumber: number, Date: day, Journeys: journeys})
	}

	format.Board("Train "+number, day.Format("Monday, January 02, 2006"), journeys, api.Summarize(journeys))
	return nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnassist/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show study statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()
		stats, err := repo.RecordStats(ctx)
		if err != nil {
			return err
		}
		if stats.Total == 0 {
			fmt.Println("No graded questions yet.")
			return nil
		}

		fmt.Printf("Sessions:   %d\n", stats.Sessions)
		fmt.Printf("Questions:  %d\n", stats.Total)
		fmt.Printf("Correct:    %d\n", stats.Correct)
		fmt.Printf("Incorrect:  %d\n", stats.Incorrect)
		fmt.Printf("Accuracy:   %.0f%%\n", float64(stats.Correct)/float64(stats.Total)*100)

		sessions, err := repo.QuerySessionEvents(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		var ended []store.SessionEvent
		for _, e := range sessions {
			if e.Action == store.SessionEnded {
				ended = append(ended, e)
			}
		}
		if len(ended) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Println("Recent Sessions")
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-19s  %-36s  %5s  %7s  %6s\n", "Ended", "Session", "Total", "Correct", "Secs")
		fmt.Println(strings.Repeat("─", 72))
		for _, e := range ended {
			fmt.Printf("%-19s  %-36s  %5d  %7d  %6d\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.SessionID, e.Total, e.Correct, e.DurationSecs)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 20, "Number of session events to scan")
}

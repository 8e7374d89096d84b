package main

import (
	"context"
	"fmt"

	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/spf13/cobra"
)

var (
	statsDatabaseURL string
	statsTopRoles    int
	statsUserEmail   string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print platform totals or one user's progress",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	statsCmd.Flags().IntVar(&statsTopRoles, "top", 10, "Number of roles to rank")
	statsCmd.Flags().StringVar(&statsUserEmail, "user", "", "Show progress for the account with this email")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	url, err := databaseURL(statsDatabaseURL)
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, url)
	if err != nil {
		return err
	}
	defer database.Close()

	printer := observability.NewPrinter(cmd.OutOrStdout())

	if statsUserEmail == "" {
		stats, err := database.Stats(ctx, statsTopRoles)
		if err != nil {
			return err
		}
		printer.PrintPlatformStats(stats)
		return nil
	}

	user, err := database.GetUserByEmail(ctx, statsUserEmail)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no account with email %s", statsUserEmail)
	}
	metrics, err := database.GetMetrics(ctx, user.ID)
	if err != nil {
		return err
	}
	printer.PrintUserProgress(user, metrics)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run a single availability sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date != "" {
				if _, err := time.Parse("2006-01-02", date); err != nil {
					return fmt.Errorf("invalid --date, want YYYY-MM-DD: %w", err)
				}
			}

			ctx := context.Background()
			m, cleanup, err := buildMonitor(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			notified := m.RunOnce(ctx, date)
			if notified > 0 {
				fmt.Printf("sent notifications for %d facility-date pairs\n", notified)
			} else {
				fmt.Println("no new availability found")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "check a single date (YYYY-MM-DD) instead of the configured range")
	return cmd
}

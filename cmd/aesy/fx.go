package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
)

func newFxCmd() *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "fx <from> <to>",
		Short: "Resolve an exchange rate through the five-tier chain",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var date time.Time
			if dateStr != "" {
				parsed, err := time.Parse("2006-01-02", dateStr)
				if err != nil {
					return fmt.Errorf("date must be an ISO date (YYYY-MM-DD): %w", err)
				}
				date = parsed
			}

			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()

			resolution, err := e.resolver.Resolve(domain.Currency(args[0]), domain.Currency(args[1]), date)
			if err != nil {
				return err
			}

			fmt.Printf("%s -> %s: %.6f (%s)\n", args[0], args[1], resolution.Rate, resolution.Source)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "historical date (YYYY-MM-DD), defaults to today")

	return cmd
}

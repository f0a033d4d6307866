package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmccall/deskcover/pkg/core/services"
)

// ListVacanciesCmd creates the listVacancies command
func ListVacanciesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listVacancies",
		Short: "List pending vacancies for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fromFlag, _ := cmd.Flags().GetString("from")
			toFlag, _ := cmd.Flags().GetString("to")

			from := time.Now().UTC()
			if fromFlag != "" {
				var err error
				from, err = time.Parse("2006-01-02", fromFlag)
				if err != nil {
					return fmt.Errorf("from must be YYYY-MM-DD: %w", err)
				}
			}
			to := from.AddDate(0, 0, 13)
			if toFlag != "" {
				var err error
				to, err = time.Parse("2006-01-02", toFlag)
				if err != nil {
					return fmt.Errorf("to must be YYYY-MM-DD: %w", err)
				}
			}

			vacancies, err := services.ListPendingVacancies(app.Ctx, app.Database, from, to)
			if err != nil {
				return err
			}

			if len(vacancies) == 0 {
				fmt.Println("\nNo pending vacancies in range.")
				return nil
			}

			fmt.Printf("\nPending vacancies (%d):\n\n", len(vacancies))
			for _, v := range vacancies {
				planned := "unplanned"
				if v.IsPlanned {
					planned = "planned"
				}
				fmt.Printf("  %s  desk %s  %-9s  %-9s  %-9s  %s\n",
					v.Date.Format("2006-01-02"), v.DeskID, v.Shift, v.Type, planned, v.ID)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("from", "", "Range start (YYYY-MM-DD), defaults to today")
	cmd.Flags().String("to", "", "Range end (YYYY-MM-DD), defaults to two weeks out")

	return cmd
}

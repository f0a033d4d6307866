package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tmccall/deskcover/pkg/core/model"
	"github.com/tmccall/deskcover/pkg/core/services"
)

// ReportAbsenceCmd creates the reportAbsence command
func ReportAbsenceCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reportAbsence <dispatcher_id> <vacancy_type> <start_date>",
		Short: "Report an absence and create its pending vacancies",
		Long:  "Expand a reported absence into one pending vacancy per affected day against the dispatcher's current assignment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatcherID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("dispatcher_id must be a UUID: %w", err)
			}
			start, err := time.Parse("2006-01-02", args[2])
			if err != nil {
				return fmt.Errorf("start_date must be YYYY-MM-DD: %w", err)
			}

			endFlag, _ := cmd.Flags().GetString("end")
			openEnded, _ := cmd.Flags().GetBool("open-ended")
			notes, _ := cmd.Flags().GetString("notes")

			report := services.AbsenceReport{
				DispatcherID: dispatcherID,
				AbsenceType:  model.AbsenceSingleDay,
				VacancyType:  model.VacancyType(args[1]),
				StartDate:    start,
				Notes:        notes,
			}
			switch {
			case openEnded:
				report.AbsenceType = model.AbsenceOpenEnded
			case endFlag != "":
				end, err := time.Parse("2006-01-02", endFlag)
				if err != nil {
					return fmt.Errorf("end date must be YYYY-MM-DD: %w", err)
				}
				report.AbsenceType = model.AbsenceDateRange
				report.EndDate = &end
			}

			app.Logger.Debug("reportAbsence command",
				zap.String("dispatcher_id", dispatcherID.String()),
				zap.String("absence_type", string(report.AbsenceType)))

			vacancies, err := services.ReportAbsence(app.Ctx, app.Database, app.Logger, report, app.Cfg.OpenEndedDays)
			if err != nil {
				return err
			}

			fmt.Printf("\nCreated %d vacancy day(s):\n\n", len(vacancies))
			for _, v := range vacancies {
				fmt.Printf("  %s  %s shift %-9s vacancy %s\n",
					v.Date.Format("2006-01-02 (Mon)"), v.DeskID, v.Shift, v.ID)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("end", "", "Last absence day (YYYY-MM-DD) for a date range")
	cmd.Flags().Bool("open-ended", false, "Absence with no known return date")
	cmd.Flags().String("notes", "", "Free-form notes attached to each vacancy")

	return cmd
}

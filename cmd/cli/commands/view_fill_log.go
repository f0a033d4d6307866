package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tmccall/deskcover/pkg/core/services"
)

// ViewFillLogCmd creates the viewFillLog command
func ViewFillLogCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewFillLog <vacancy_id>",
		Short: "Show the stored fill decision and its audit log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vacancyID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("vacancy_id must be a UUID: %w", err)
			}

			fill, err := services.ViewFillLog(app.Ctx, app.Database, vacancyID)
			if err != nil {
				return err
			}

			fmt.Printf("\nFill record for vacancy %s\n\n", fill.VacancyID)
			fmt.Printf("Filled by:   %s\n", fill.FilledByID)
			fmt.Printf("Fill method: %s\n", fill.Method)
			fmt.Printf("Pay type:    %s\n", fill.Pay)
			fmt.Printf("Recorded at: %s\n", fill.CreatedAt.Format("2006-01-02 15:04:05"))
			if fill.CascadeVacancyID != nil {
				fmt.Printf("Cascade:     %s\n", fill.CascadeVacancyID)
			}

			fmt.Printf("\nDecision log:\n")
			for _, entry := range fill.DecisionLog {
				fmt.Printf("  [%s] %s\n", entry.Timestamp.Format("15:04:05.000"), entry.Message)
			}
			fmt.Println()
			return nil
		},
	}
}

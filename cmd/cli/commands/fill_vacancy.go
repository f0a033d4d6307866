package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tmccall/deskcover/pkg/core/services"
)

// FillVacancyCmd creates the fillVacancy command
func FillVacancyCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fillVacancy <vacancy_id>",
		Short: "Run the order of call for a pending vacancy",
		Long:  "Walk the seven-step order of call for a pending vacancy and record the fill decision with its audit log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vacancyID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("vacancy_id must be a UUID: %w", err)
			}

			app.Logger.Debug("fillVacancy command", zap.String("vacancy_id", vacancyID.String()))

			result, err := services.FillVacancy(app.Ctx, app.Database, app.Cfg.EBBaselineCount, app.Logger, vacancyID)
			if err != nil {
				return err
			}

			if !result.Filled {
				fmt.Printf("\nNo fill found - vacancy remains open for manual handling.\n\n")
			} else {
				fmt.Printf("\nVacancy filled!\n\n")
				fmt.Printf("Dispatcher:  %s\n", result.DispatcherName)
				fmt.Printf("Fill method: %s\n", result.Method)
				fmt.Printf("Pay type:    %s\n", result.Pay)
				if result.CreatedCascade {
					fmt.Printf("Cascade:     new pending vacancy %s (re-run fillVacancy for it)\n", result.CascadeVacancyID)
				}
				fmt.Println()
			}

			fmt.Printf("Decision log:\n")
			for _, entry := range result.DecisionLog {
				fmt.Printf("  [%s] %s\n", entry.Timestamp.Format("15:04:05.000"), entry.Message)
			}
			fmt.Println()
			return nil
		},
	}
}

package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tmccall/deskcover/pkg/core/model"
	"github.com/tmccall/deskcover/pkg/core/services"
)

// ListDispatchersCmd creates the listDispatchers command
func ListDispatchersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listDispatchers",
		Short: "List the active roster in seniority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatchers, err := app.Database.ActiveDispatchers(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list dispatchers: %w", err)
			}

			fmt.Printf("\nActive roster (%d):\n\n", len(dispatchers))
			for _, d := range dispatchers {
				fmt.Printf("  %3d. %-25s #%-8s %-12s since %s  (%s)\n",
					d.SeniorityRank, d.Name, d.EmployeeNumber, d.Classification,
					d.SeniorityDate.Format("2006-01-02"), d.ID)
			}
			fmt.Println()
			return nil
		},
	}
}

// AddDispatcherCmd creates the addDispatcher command
func AddDispatcherCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addDispatcher <employee_number> <name> <seniority_date> <classification>",
		Short: "Add a dispatcher to the roster and recompute seniority",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			seniorityDate, err := time.Parse("2006-01-02", args[2])
			if err != nil {
				return fmt.Errorf("seniority_date must be YYYY-MM-DD: %w", err)
			}

			d, err := services.CreateDispatcher(app.Ctx, app.Database, app.Logger,
				args[0], args[1], seniorityDate, model.Classification(args[3]))
			if err != nil {
				return err
			}

			fmt.Printf("\nDispatcher created: %s (%s), rank will reflect seniority date %s\n\n",
				d.Name, d.ID, d.SeniorityDate.Format("2006-01-02"))
			return nil
		},
	}
}

// DeactivateDispatcherCmd creates the deactivateDispatcher command
func DeactivateDispatcherCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivateDispatcher <dispatcher_id>",
		Short: "Deactivate a dispatcher and recompute seniority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatcherID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("dispatcher_id must be a UUID: %w", err)
			}

			if err := services.DeactivateDispatcher(app.Ctx, app.Database, app.Logger, dispatcherID); err != nil {
				return err
			}

			fmt.Printf("\nDispatcher %s deactivated\n\n", dispatcherID)
			return nil
		},
	}
}

// RecomputeSeniorityCmd creates the recomputeSeniority command
func RecomputeSeniorityCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recomputeSeniority",
		Short: "Rebuild the dense seniority ranking over the active roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.RecomputeSeniority(app.Ctx, app.Database, app.Logger); err != nil {
				return err
			}

			fmt.Println("\nSeniority ranks recomputed")
			return nil
		},
	}
}

// AwardAssignmentCmd creates the awardAssignment command
func AwardAssignmentCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "awardAssignment <dispatcher_id> <desk_id> <shift> <start_date>",
		Short: "Award a regular desk+shift assignment to a dispatcher",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatcherID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("dispatcher_id must be a UUID: %w", err)
			}
			deskID, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("desk_id must be a UUID: %w", err)
			}
			startDate, err := time.Parse("2006-01-02", args[3])
			if err != nil {
				return fmt.Errorf("start_date must be YYYY-MM-DD: %w", err)
			}

			a, err := services.AwardRegularAssignment(app.Ctx, app.Database, app.Logger,
				dispatcherID, deskID, model.Shift(args[2]), startDate)
			if err != nil {
				return err
			}

			fmt.Printf("\nAssignment awarded: %s shift on desk %s from %s\n\n",
				a.Shift, a.DeskID, a.StartDate.Format("2006-01-02"))
			return nil
		},
	}
}

// AssignBoardCmd creates the assignBoard command
func AssignBoardCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assignBoard <dispatcher_id> <class> <cycle_start> <start_date>",
		Short: "Place a dispatcher in an extra-board rest-day class (1-3)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatcherID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("dispatcher_id must be a UUID: %w", err)
			}
			var class int
			if _, err := fmt.Sscanf(args[1], "%d", &class); err != nil {
				return fmt.Errorf("class must be 1, 2 or 3: %w", err)
			}
			cycleStart, err := time.Parse("2006-01-02", args[2])
			if err != nil {
				return fmt.Errorf("cycle_start must be YYYY-MM-DD: %w", err)
			}
			startDate, err := time.Parse("2006-01-02", args[3])
			if err != nil {
				return fmt.Errorf("start_date must be YYYY-MM-DD: %w", err)
			}

			a, err := services.AssignToBoard(app.Ctx, app.Database, app.Logger,
				dispatcherID, model.BoardClass(class), cycleStart, startDate)
			if err != nil {
				return err
			}

			fmt.Printf("\nBoard assignment created: class %d, cycle anchored %s\n\n",
				a.Class, a.CycleStartDate.Format("2006-01-02"))
			return nil
		},
	}
}

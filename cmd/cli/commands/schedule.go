package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tmccall/deskcover/pkg/core/model"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// SetReliefDayCmd creates the setReliefDay command
func SetReliefDayCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setReliefDay <desk_id> <shift> <weekday> <dispatcher_id>",
		Short: "Assign relief coverage for one weekday of a desk+shift",
		Long:  "Record which dispatcher covers the regular incumbent's rest day. The fill engine reads these rows when deciding who is already working a date.",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			deskID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("desk_id must be a UUID: %w", err)
			}
			shift := model.Shift(args[1])
			if !shift.IsValid() {
				return fmt.Errorf("invalid shift %q", args[1])
			}
			dow, ok := weekdays[strings.ToLower(args[2])]
			if !ok {
				return fmt.Errorf("invalid weekday %q", args[2])
			}
			dispatcherID, err := uuid.Parse(args[3])
			if err != nil {
				return fmt.Errorf("dispatcher_id must be a UUID: %w", err)
			}

			atw, _ := cmd.Flags().GetBool("atw")
			assignmentType := model.AssignmentRelief
			if atw {
				assignmentType = model.AssignmentATW
			}

			r := &model.ReliefDay{
				ID:           uuid.New(),
				DeskID:       deskID,
				DayOfWeek:    dow,
				Shift:        shift,
				DispatcherID: dispatcherID,
				Type:         assignmentType,
			}
			if err := app.Database.SetReliefDay(app.Ctx, r); err != nil {
				return err
			}

			fmt.Printf("\nRelief day set: %s %s shift on desk %s -> dispatcher %s (%s)\n\n",
				dow, shift, deskID, dispatcherID, assignmentType)
			return nil
		},
	}

	cmd.Flags().Bool("atw", false, "Record an ATW day instead of a relief day")
	return cmd
}

// SetQualificationCmd creates the setQualification command
func SetQualificationCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setQualification <dispatcher_id> <desk_id>",
		Short: "Record a dispatcher's qualification on a desk",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatcherID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("dispatcher_id must be a UUID: %w", err)
			}
			deskID, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("desk_id must be a UUID: %w", err)
			}

			inTraining, _ := cmd.Flags().GetBool("in-training")
			now := time.Now().UTC()

			q := &model.DeskQualification{
				ID:           uuid.New(),
				DispatcherID: dispatcherID,
				DeskID:       deskID,
			}
			if inTraining {
				q.QualifyingStarted = &now
			} else {
				q.Qualified = true
				q.QualifiedDate = &now
			}
			if err := app.Database.SetQualification(app.Ctx, q); err != nil {
				return err
			}

			state := "qualified"
			if inTraining {
				state = "qualifying (in training)"
			}
			fmt.Printf("\nQualification recorded: dispatcher %s on desk %s is %s\n\n",
				dispatcherID, deskID, state)
			return nil
		},
	}

	cmd.Flags().Bool("in-training", false, "Mark the desk as being learned rather than fully qualified")
	return cmd
}

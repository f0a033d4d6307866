package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tmccall/deskcover/pkg/core/model"
)

// AddDeskCmd creates the addDesk command
func AddDeskCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addDesk <division> <code>",
		Short: "Add a desk requiring round-the-clock coverage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := &model.Desk{
				ID:       uuid.New(),
				Division: args[0],
				Code:     args[1],
				Active:   true,
			}
			if err := app.Database.InsertDesk(app.Ctx, d); err != nil {
				return err
			}

			fmt.Printf("\nDesk created: %s/%s (%s)\n\n", d.Division, d.Code, d.ID)
			return nil
		},
	}
}

// ListDesksCmd creates the listDesks command
func ListDesksCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listDesks",
		Short: "List active desks by division",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			desks, err := app.Database.ActiveDesks(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list desks: %w", err)
			}

			fmt.Printf("\nActive desks (%d):\n\n", len(desks))
			for _, d := range desks {
				fmt.Printf("  %-12s %-8s %s\n", d.Division, d.Code, d.ID)
			}
			fmt.Println()
			return nil
		},
	}
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tmccall/deskcover/cmd/cli/commands"
)

func main() {
	app := &commands.AppContext{}

	rootCmd := &cobra.Command{
		Use:   "deskcover",
		Short: "Deskcover CLI - dispatcher desk coverage and vacancy fills",
		Long:  `A CLI tool for managing the dispatcher roster, reporting absences, and running the order of call to fill vacancies.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Init(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&app.Env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.ReportAbsenceCmd(app))
	rootCmd.AddCommand(commands.FillVacancyCmd(app))
	rootCmd.AddCommand(commands.ListVacanciesCmd(app))
	rootCmd.AddCommand(commands.ViewFillLogCmd(app))
	rootCmd.AddCommand(commands.ListDispatchersCmd(app))
	rootCmd.AddCommand(commands.AddDispatcherCmd(app))
	rootCmd.AddCommand(commands.DeactivateDispatcherCmd(app))
	rootCmd.AddCommand(commands.RecomputeSeniorityCmd(app))
	rootCmd.AddCommand(commands.AddDeskCmd(app))
	rootCmd.AddCommand(commands.ListDesksCmd(app))
	rootCmd.AddCommand(commands.AwardAssignmentCmd(app))
	rootCmd.AddCommand(commands.AssignBoardCmd(app))
	rootCmd.AddCommand(commands.SetReliefDayCmd(app))
	rootCmd.AddCommand(commands.SetQualificationCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

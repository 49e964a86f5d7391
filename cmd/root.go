package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var configFile string
	app := &app{}

	rootCmd := &cobra.Command{
		Use:           "qn",
		Short:         "Questionnaire (qn): two-party replicated question sessions",
		Long:          "qn runs scripted two-party questionnaire sessions over an in-process transport, validates session scripts and shows the saved history of the last session.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.wire(configFile, cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return app.close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.questionnaire/config.toml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newPlayCmd(app),
		newHistoryCmd(app),
		newValidateCmd(app),
	)

	return rootCmd
}

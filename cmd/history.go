package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	historyrender "github.com/bnema/questionnaire/internal/adapters/render/history"
)

func newHistoryCmd(app *app) *cobra.Command {
	var asJSON bool
	var perPage int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the history of the last saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			history, err := app.history.Load(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(history)
			}

			rendered, err := app.historyRenderer(history, historyrender.RenderOptions{PerPage: perPage})
			if err != nil {
				return fmt.Errorf("render history: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the history as JSON")
	cmd.Flags().IntVar(&perPage, "per-page", 10, "entries per page")

	return cmd
}

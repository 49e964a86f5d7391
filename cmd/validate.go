package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/questionnaire/internal/domain"
)

func newValidateCmd(app *app) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a session script without running it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			script, err := app.scripts.LoadScript(cmd.Context(), path)
			if err != nil {
				return err
			}

			counts := map[domain.ItemKind]int{}
			for _, bundle := range script.Bundles {
				counts[bundle.Kind]++
			}

			name := script.Name
			if name == "" {
				name = path
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d items: %d prompts, %d summaries, %d displays)\n",
				name, script.Len(),
				counts[domain.ItemKindPrompt], counts[domain.ItemKindSummary], counts[domain.ItemKindDisplay])
			return err
		},
	}

	cmd.Flags().StringVar(&path, "script", "", "session script (TOML)")
	_ = cmd.MarkFlagRequired("script")

	return cmd
}

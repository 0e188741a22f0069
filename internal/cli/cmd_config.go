package cli

import (
	"context"

	"github.com/futig/exam-practice/internal/builder"
	"github.com/spf13/cobra"
)

func newConfigCommand(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage backend settings",
	}

	cmd.AddCommand(newSaveKeyCommand(s))

	return cmd
}

func newSaveKeyCommand(s *state) *cobra.Command {
	var apiKey string

	cmd := &cobra.Command{
		Use:   "save-key",
		Short: "Store the evaluation API key on the backend",
		Long: `Store the API key used for AI evaluation on the practice backend.

Without --api-key the API_KEY value of the environment is sent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, "save_key", func(ctx context.Context, app *builder.App) error {
				key := apiKey
				if key == "" {
					key = app.Config.APIKey
				}
				if err := app.Settings.SaveAPIKey(ctx, key); err != nil {
					return err
				}
				app.Console.Success("API key saved.")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key to store")

	return cmd
}

package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/vms-predict/internal/artifact"
	"github.com/Veraticus/vms-predict/internal/cli"
	"github.com/spf13/cobra"
)

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [model_path]",
		Short: "Show what a model artifact contains",
		Long: `Inspect loads a model artifact and summarizes its training metadata, the
feature schema it was trained against and which preprocessing transformers it
carries.

Without an argument the model.default_path setting is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := a.settings.ModelPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("no model path given and model.default_path is not set")
			}

			art, err := artifact.Load(path,
				artifact.WithMinSize(a.settings.ModelMinSize),
				artifact.WithLogger(a.logger))
			if err != nil {
				return fmt.Errorf("Could not load model: %w", err) //nolint:staticcheck // user-facing message
			}

			_, err = fmt.Fprint(a.stdout, cli.RenderArtifact(art))
			return err
		},
	}
}

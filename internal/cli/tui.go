package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/riordanpawley/tasktable/internal/app"
	"github.com/riordanpawley/tasktable/internal/services/api"
)

// runTUI runs the interactive table until the user quits
func runTUI(cmd *cobra.Command, opts *options) error {
	// Nothing may write to the terminal while the alternate screen is up
	deps, err := loadDependencies(opts, io.Discard)
	if err != nil {
		return err
	}
	defer deps.Close()

	deps.Logger.Info("starting tui",
		"project", deps.Config.Project.ID,
		"api", deps.Config.API.BaseURL,
	)

	model := app.New(deps.Config, app.Deps{
		Backend:  deps.Client,
		Registry: deps.Registry,
		NewBackend: func(baseURL string) api.Backend {
			return deps.NewClient(baseURL)
		},
		Logger: deps.Logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

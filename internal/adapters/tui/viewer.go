package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/mindmap/internal/core/domain"
)

// Viewer runs a Model as a bubbletea program.
type Viewer struct {
	ctx     context.Context
	program *tea.Program
	model   *Model
}

// NewViewer creates a viewer for model.
func NewViewer(ctx context.Context, model *Model, opts ...tea.ProgramOption) *Viewer {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	return &Viewer{
		ctx:     ctx,
		program: tea.NewProgram(model, opts...),
		model:   model,
	}
}

// Run blocks until the user quits or the context is canceled.
func (v *Viewer) Run() error {
	_, err := v.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && v.ctx.Err() != nil {
		return nil
	}
	return err
}

// SetGraph replaces the graph from another goroutine.
func (v *Viewer) SetGraph(g *domain.Graph) {
	v.program.Send(MsgGraph{Graph: g})
}

// Quit stops the program.
func (v *Viewer) Quit() {
	v.program.Quit()
}

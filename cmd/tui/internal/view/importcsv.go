package view

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vibrantgarden/almo/internal/importer"
	"github.com/vibrantgarden/almo/internal/inventory"
	"github.com/vibrantgarden/almo/internal/material"
)

type importState int

const (
	importStateForm importState = iota
	importStateRunning
	importStateResult
)

type ImportModel struct {
	CommonModel
	importService    *importer.Service
	materialService  *material.Service
	inventoryService *inventory.Service

	state   importState
	form    *huh.Form
	spinner spinner.Model

	source string
	path   string

	applied    int
	unresolved []string
	err        error
}

func NewImportModel(importSvc *importer.Service, materialSvc *material.Service, inventorySvc *inventory.Service) ImportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ImportModel{
		importService:    importSvc,
		materialService:  materialSvc,
		inventoryService: inventorySvc,
		spinner:          s,
		source:           string(importer.SourcePrimavera),
	}
	m.form = m.buildForm()

	return m
}

func (m ImportModel) Title() string { return "Import Movements" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateRunning:
		return "Importing..."
	case importStateResult:
		return "Esc: back to menu"
	}
	return "Esc: back | Enter: confirm"
}

func (m ImportModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("source").
				Title("Source System").
				Options(
					huh.NewOption("Primavera", string(importer.SourcePrimavera)),
				).
				Value(&m.source),

			huh.NewInput().
				Key("path").
				Title("CSV File Path").
				Placeholder("./movimentos.csv").
				Value(&m.path).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m ImportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateForm:
		return m.updateForm(msg)
	case importStateRunning:
		return m.updateRunning(msg)
	case importStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ImportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = importStateRunning
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.runImportCmd())
}

func (m ImportModel) updateRunning(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(importResultMsg); ok {
		m.state = importStateResult
		m.applied = result.applied
		m.unresolved = result.unresolved
		m.err = result.err
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m ImportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case importStateRunning:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Parsing export and applying movements...", m.spinner.View()),
		)

	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render(fmt.Sprintf("Applied %d movements", m.applied))

	lines := []string{header}

	if len(m.unresolved) > 0 {
		lines = append(lines, "",
			lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("Unknown materials (rows skipped):"))
		for _, name := range m.unresolved {
			lines = append(lines, "  - "+name)
		}
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

type importResultMsg struct {
	applied    int
	unresolved []string
	err        error
}

func (m ImportModel) runImportCmd() tea.Cmd {
	source := importer.Source(m.source)
	path := strings.TrimSpace(m.path)

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		rows, err := m.importService.Import(source, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		materials, err := m.materialService.List(ctx)
		if err != nil {
			return importResultMsg{err: err}
		}

		byName := make(map[string]*material.Material, len(materials))
		for _, mat := range materials {
			byName[mat.Name] = mat
		}

		var (
			applied    int
			unresolved []string
		)

		for _, row := range rows {
			mat, ok := byName[row.MaterialName]
			if !ok {
				unresolved = append(unresolved, row.MaterialName)
				continue
			}

			rec, err := m.inventoryService.GetByMaterial(ctx, mat.ID)
			if err != nil {
				if errors.Is(err, inventory.ErrNotFound) {
					unresolved = append(unresolved, row.MaterialName)
					continue
				}

				return importResultMsg{applied: applied, unresolved: unresolved, err: err}
			}

			if _, _, err := m.inventoryService.RecordMovement(ctx, rec.ID, row.Params()); err != nil {
				return importResultMsg{applied: applied, unresolved: unresolved, err: err}
			}

			applied++
		}

		return importResultMsg{applied: applied, unresolved: unresolved}
	}
}

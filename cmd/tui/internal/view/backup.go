package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"kantong/internal/backup"
)

const backupTimeout = 2 * time.Minute

type backupState int

const (
	backupStateChoose backupState = iota
	backupStateExportPath
	backupStateImportPick
	backupStateWorking
	backupStateResult
)

type BackupModel struct {
	CommonModel
	backupService *backup.Service

	state      backupState
	exporting  bool
	form       *huh.Form
	filePicker filepicker.Model
	spinner    spinner.Model

	path    string
	summary string
	err     error
}

func NewBackupModel(svc *backup.Service) BackupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".json"}
	fp.SetHeight(15)

	return BackupModel{
		backupService: svc,
		state:         backupStateChoose,
		exporting:     true,
		path:          ".",
		filePicker:    fp,
		spinner:       s,
	}
}

func (m BackupModel) Title() string { return "Backup & Restore" }

func (m BackupModel) ShortHelp() string {
	switch m.state {
	case backupStateResult:
		return "Esc: back to menu"
	case backupStateWorking:
		return "Working..."
	}

	return "Esc: back | Enter: confirm"
}

func (m BackupModel) Init() tea.Cmd {
	return nil
}

func (m BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(backupResultMsg); ok {
		m.state = backupStateResult
		m.err = result.err
		m.summary = result.summary
		return m, nil
	}

	switch m.state {
	case backupStateChoose:
		return m.updateChoose(msg)
	case backupStateExportPath:
		return m.updateExportPath(msg)
	case backupStateImportPick:
		return m.updateImportPick(msg)
	case backupStateWorking:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case backupStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m BackupModel) updateChoose(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "up", "down", "k", "j":
		m.exporting = !m.exporting
		return m, nil
	case "enter":
		if m.exporting {
			m.form = m.buildPathForm()
			m.state = backupStateExportPath
			return m, m.form.Init()
		}

		m.state = backupStateImportPick
		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m BackupModel) updateExportPath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = backupStateChoose
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = backupStateWorking
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(m.path))
}

func (m BackupModel) updateImportPick(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = backupStateChoose
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = backupStateWorking
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.runImportCmd(path))
	}

	return m, cmd
}

func (m BackupModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder(".").
				Value(&m.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m BackupModel) View() string {
	switch m.state {
	case backupStateChoose:
		return m.viewChoose()

	case backupStateExportPath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case backupStateImportPick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select backup file to restore:\n\n" + m.filePicker.View(),
		)

	case backupStateWorking:
		action := "Restoring backup..."
		if m.exporting {
			action = "Writing backup..."
		}
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s %s", m.spinner.View(), action),
		)

	case backupStateResult:
		return m.viewResult()
	}

	return ""
}

func (m BackupModel) viewChoose() string {
	exportCursor, importCursor := " ", ">"
	if m.exporting {
		exportCursor, importCursor = ">", " "
	}

	return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
		"Backup & Restore:\n\n%s Export backup to file\n%s Restore from backup file\n",
		exportCursor, importCursor,
	))
}

func (m BackupModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) +
				"\n\n(Esc to go back)",
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Done!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", m.summary),
	)
}

// Messages

type backupResultMsg struct {
	summary string
	err     error
}

func (m BackupModel) runExportCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
		defer cancel()

		data, err := m.backupService.Export(ctx, time.Now())
		if err != nil {
			return backupResultMsg{err: err}
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return backupResultMsg{err: err}
		}

		path := filepath.Join(dir, backup.Filename(time.Now()))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return backupResultMsg{err: err}
		}

		return backupResultMsg{summary: fmt.Sprintf("Backup written to %s", path)}
	}
}

func (m BackupModel) runImportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
		defer cancel()

		f, err := os.Open(path)
		if err != nil {
			return backupResultMsg{err: err}
		}
		defer f.Close()

		if err := m.backupService.Import(ctx, f); err != nil {
			return backupResultMsg{err: err}
		}

		return backupResultMsg{summary: fmt.Sprintf("Restored transactions from %s", path)}
	}
}

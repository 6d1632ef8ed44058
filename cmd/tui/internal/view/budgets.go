package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"kantong/internal/budget"
)

type budgetState int

const (
	budgetStateBrowse budgetState = iota
	budgetStateEdit
)

type BudgetModel struct {
	CommonModel
	budgetService *budget.Service

	state    budgetState
	budgets  []*budget.Budget
	progress []budget.Progress
	bar      progress.Model
	cursor   int
	form     *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formCategory string
	formLimit    string
}

func NewBudgetModel(budgetSvc *budget.Service) BudgetModel {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return BudgetModel{
		budgetService: budgetSvc,
		bar:           bar,
		loading:       true,
	}
}

func (m BudgetModel) Title() string { return "Monthly Budgets" }

func (m BudgetModel) ShortHelp() string {
	if m.state == budgetStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: set budget | x: delete | r: refresh"
}

func (m BudgetModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BudgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBudgetsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.budgets = msg.budgets
		m.progress = msg.progress
		if m.cursor >= len(m.budgets) {
			m.cursor = max(len(m.budgets)-1, 0)
		}
		return m, nil

	case budgetSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = ""
		}
		m.state = budgetStateBrowse
		m.form = nil
		return m, m.loadCmd()

	case budgetDeleteMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
		}
		return m, m.loadCmd()
	}

	switch m.state {
	case budgetStateBrowse:
		return m.updateBrowse(msg)
	case budgetStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m BudgetModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.budgets)-1 {
			m.cursor++
		}
	case "r":
		m.loading = true
		return m, m.loadCmd()
	case "n":
		return m.enterEditMode()
	case "x":
		return m, m.deleteCmd()
	}

	return m, nil
}

func (m BudgetModel) enterEditMode() (tea.Model, tea.Cmd) {
	m.formCategory = ""
	m.formLimit = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("category").
				Title("Category").
				Placeholder("Makanan").
				Value(&m.formCategory).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("category cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("limit").
				Title("Monthly Limit (Rp)").
				Placeholder("500000").
				Value(&m.formLimit).
				Validate(func(s string) error {
					n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
					if err != nil || n <= 0 {
						return fmt.Errorf("limit must be a positive whole number")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = budgetStateEdit
	return m, m.form.Init()
}

func (m BudgetModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = budgetStateBrowse
			m.form = nil
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

	return m, m.saveCmd()
}

func (m BudgetModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading budgets...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.state == budgetStateEdit && m.form != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			"Set Budget\n\n" + m.form.View(),
		)
	}

	if len(m.progress) == 0 {
		return lipgloss.NewStyle().Padding(2).Render(
			"No budgets set.\n\n(n to set one, Esc to go back)",
		)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Budgets for %s\n\n", time.Now().Format("January 2006")))

	for i, p := range m.progress {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		b.WriteString(fmt.Sprintf("%s%s  %s / %s  %s\n",
			cursor,
			lipgloss.NewStyle().Bold(true).Width(16).Render(p.Category),
			FormatRupiah(p.Spent),
			FormatRupiah(p.Limit),
			statusBadge(p.Status),
		))
		b.WriteString("  " + m.bar.ViewAs(p.Ratio) + "\n\n")
	}

	content := b.String()
	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func statusBadge(s budget.Status) string {
	switch s {
	case budget.StatusOver:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("OVER")
	case budget.StatusWarning:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("WARNING")
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("OK")
}

// Messages

type loadBudgetsMsg struct {
	budgets  []*budget.Budget
	progress []budget.Progress
	err      error
}

func (m BudgetModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		budgets, err := m.budgetService.List(ctx)
		if err != nil {
			return loadBudgetsMsg{err: err}
		}

		progress, err := m.budgetService.Progress(ctx, time.Now())
		if err != nil {
			return loadBudgetsMsg{err: err}
		}

		return loadBudgetsMsg{budgets: budgets, progress: progress}
	}
}

type budgetSaveMsg struct {
	err error
}

func (m BudgetModel) saveCmd() tea.Cmd {
	category := strings.TrimSpace(m.formCategory)
	limit, _ := strconv.ParseInt(strings.TrimSpace(m.formLimit), 10, 64)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.budgetService.Put(ctx, category, limit)
		return budgetSaveMsg{err: err}
	}
}

type budgetDeleteMsg struct {
	err error
}

func (m BudgetModel) deleteCmd() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.budgets) {
		return nil
	}

	id := m.budgets[m.cursor].ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return budgetDeleteMsg{err: m.budgetService.Delete(ctx, id)}
	}
}

package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"kantong/internal/transaction"
)

type addState int

const (
	addStateForm addState = iota
	addStateResult
)

type AddModel struct {
	CommonModel
	txService *transaction.Service

	state addState
	form  *huh.Form
	err   error

	// Form bindings
	formType     string
	formAmount   string
	formCategory string
	formDesc     string
	formDate     string
}

func NewAddModel(txSvc *transaction.Service) AddModel {
	m := AddModel{
		txService: txSvc,
		formType:  string(transaction.TypeExpense),
		formDate:  FormatDate(time.Now()),
	}
	m.form = m.buildForm()

	return m
}

func (m AddModel) Title() string { return "Add Transaction" }

func (m AddModel) ShortHelp() string {
	if m.state == addStateResult {
		return "Enter: add another | Esc: back"
	}

	return "Navigate form | Esc: back"
}

func (m AddModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AddModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", string(transaction.TypeExpense)),
					huh.NewOption("Income", string(transaction.TypeIncome)),
				).
				Value(&m.formType),

			huh.NewInput().
				Key("amount").
				Title("Amount (Rp)").
				Placeholder("50000").
				Value(&m.formAmount).
				Validate(func(s string) error {
					n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
					if err != nil || n < 0 {
						return fmt.Errorf("amount must be a non-negative whole number")
					}
					return nil
				}),

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
				Key("description").
				Title("Description").
				Placeholder("optional").
				Value(&m.formDesc),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDate).
				Validate(func(s string) error {
					if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("date must be YYYY-MM-DD")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == addStateResult && msg.Type == tea.KeyEnter {
			m.state = addStateForm
			m.err = nil
			m.formAmount = ""
			m.formDesc = ""
			m.form = m.buildForm()

			return m, m.form.Init()
		}

	case addResultMsg:
		m.state = addStateResult
		m.err = msg.err

		return m, nil
	}

	if m.state != addStateForm {
		return m, nil
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

func (m AddModel) View() string {
	if m.state == addStateResult {
		style := lipgloss.NewStyle().Padding(2)
		if m.err != nil {
			return style.Render(
				lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) +
					"\n\n(Enter to add another, Esc to go back)",
			)
		}

		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("Transaction saved.") +
				"\n\n(Enter to add another, Esc to go back)",
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(m.form.View())
}

// Messages

type addResultMsg struct {
	err error
}

func (m AddModel) saveCmd() tea.Cmd {
	amount, _ := strconv.ParseInt(strings.TrimSpace(m.formAmount), 10, 64)
	date, _ := time.Parse("2006-01-02", strings.TrimSpace(m.formDate))

	params := transaction.CreateParams{
		Amount:      amount,
		Type:        transaction.Type(m.formType),
		Category:    strings.TrimSpace(m.formCategory),
		Description: strings.TrimSpace(m.formDesc),
		Date:        date,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.txService.Create(ctx, params)
		return addResultMsg{err: err}
	}
}

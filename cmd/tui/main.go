package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kantong/cmd/tui/internal/view"
	"kantong/internal/advisor"
	"kantong/internal/backup"
	"kantong/internal/budget"
	budgetStore "kantong/internal/budget/store"
	"kantong/internal/chat"
	chatStore "kantong/internal/chat/store"
	"kantong/internal/config"
	"kantong/internal/database"
	"kantong/internal/transaction"
	txStore "kantong/internal/transaction/store"
)

type model struct {
	txService      *transaction.Service
	budgetService  *budget.Service
	backupService  *backup.Service
	advisorService *advisor.Service

	currentView View

	addView    view.AddModel
	listView   view.ListModel
	budgetView view.BudgetModel
	chatView   view.ChatModel
	backupView view.BackupModel
}

type View int

const (
	ViewMenu    View = 0
	ViewAdd     View = 1
	ViewList    View = 2
	ViewBudgets View = 3
	ViewChat    View = 4
	ViewBackup  View = 5
)

func initialModel() model {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	txSvc := transaction.NewService(txStore.New(db))
	budgetSvc := budget.NewService(budgetStore.New(db), txSvc)
	backupSvc := backup.NewService(txSvc)

	var advisorSvc *advisor.Service
	if cfg.AI.APIKey != "" {
		chatSvc := chat.NewService(chatStore.New(db))
		assembler := advisor.NewAssembler(txSvc, budgetSvc)
		client := advisor.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
		advisorSvc = advisor.NewService(assembler, chatSvc, client, nil)
	}

	return model{
		txService:      txSvc,
		budgetService:  budgetSvc,
		backupService:  backupSvc,
		advisorService: advisorSvc,
		currentView:    ViewMenu,
		addView:        view.NewAddModel(txSvc),
		listView:       view.NewListModel(txSvc),
		budgetView:     view.NewBudgetModel(budgetSvc),
		chatView:       view.NewChatModel(advisorSvc),
		backupView:     view.NewBackupModel(backupSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewAdd
				m.addView = view.NewAddModel(m.txService)

				return m, m.addView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.txService)

				return m, m.listView.Init()
			case "3":
				m.currentView = ViewBudgets
				m.budgetView = view.NewBudgetModel(m.budgetService)

				return m, m.budgetView.Init()
			case "4":
				m.currentView = ViewChat
				m.chatView = view.NewChatModel(m.advisorService)

				return m, m.chatView.Init()
			case "5":
				m.currentView = ViewBackup
				m.backupView = view.NewBackupModel(m.backupService)

				return m, m.backupView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewAdd:
		var newModel tea.Model
		newModel, cmd = m.addView.Update(msg)
		m.addView = newModel.(view.AddModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewBudgets:
		var newModel tea.Model
		newModel, cmd = m.budgetView.Update(msg)
		m.budgetView = newModel.(view.BudgetModel)
	case ViewChat:
		var newModel tea.Model
		newModel, cmd = m.chatView.Update(msg)
		m.chatView = newModel.(view.ChatModel)
	case ViewBackup:
		var newModel tea.Model
		newModel, cmd = m.backupView.Update(msg)
		m.backupView = newModel.(view.BackupModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Kantong TUI\n\n" +
				"1. Add Transaction\n" +
				"2. List Transactions\n" +
				"3. Monthly Budgets\n" +
				"4. Financial Advisor\n" +
				"5. Backup & Restore\n\n" +
				"q. Quit",
		)
	case ViewAdd:
		return m.addView.View()
	case ViewList:
		return m.listView.View()
	case ViewBudgets:
		return m.budgetView.View()
	case ViewChat:
		return m.chatView.View()
	case ViewBackup:
		return m.backupView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

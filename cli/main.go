package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#ffd60a")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)
)

// Model defines the application state
type Model struct {
	mainMenu    list.Model
	batchList   list.Model
	stepView    table.Model
	batchDetail Batch
	report      *Report
	spinner     spinner.Model
	textInput   textinput.Model
	client      *ApiClient
	currentView string
	error       string
	notice      string
}

// item represents a list item
type item struct {
	title, desc string
}

// FilterValue implements list.Item interface
func (i item) FilterValue() string { return i.title }

// Title implements list.Item interface
func (i item) Title() string { return i.title }

// Description implements list.Item interface
func (i item) Description() string { return i.desc }

// Initialize the model
func initialModel() Model {
	// Initialize spinner
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	// Initialize main menu items
	items := []list.Item{
		item{title: "Batch Board", desc: "View and drive running production batches"},
		item{title: "New Batch", desc: "Start a new batch from halwa type templates"},
		item{title: "Exit", desc: "Exit the application"},
	}

	// Initialize main menu
	mainMenu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "Halwa House Board"

	// Initialize batch list view
	batchList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	batchList.Title = "Production Batches"

	// Initialize step table
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Process ID", Width: 10},
		{Title: "Started", Width: 10},
		{Title: "Stopped", Width: 10},
		{Title: "Minutes", Width: 10},
	}
	stepTable := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	// Initialize text input
	ti := textinput.New()
	ti.Placeholder = "starch weight, type ids (e.g. 12.5: 1,3)"
	ti.CharLimit = 120
	ti.Width = 40

	return Model{
		mainMenu:    mainMenu,
		batchList:   batchList,
		stepView:    stepTable,
		spinner:     s,
		textInput:   ti,
		client:      NewApiClient(),
		currentView: "main",
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen)
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.currentView != "create_batch" {
				return m, tea.Quit
			}
		case "enter":
			if m.currentView == "main" {
				selected, ok := m.mainMenu.SelectedItem().(item)
				if ok {
					switch selected.title {
					case "Exit":
						return m, tea.Quit
					case "Batch Board":
						m.currentView = "batches"
						return m, fetchBatches(m.client)
					case "New Batch":
						m.currentView = "create_batch"
						m.textInput.SetValue("")
						m.textInput.Focus()
						return m, nil
					}
				}
			} else if m.currentView == "batches" {
				if selected, ok := m.batchList.SelectedItem().(batchItem); ok {
					m.currentView = "batch_detail"
					m.report = nil
					return m, fetchBatchDetail(m.client, selected.id)
				}
			} else if m.currentView == "create_batch" && m.textInput.Focused() {
				return m, handleBatchInput(m)
			}
		case "esc":
			if m.currentView == "batch_detail" || m.currentView == "create_batch" || m.currentView == "report" {
				m.currentView = "batches"
				m.error = ""
				m.notice = ""
				return m, fetchBatches(m.client)
			} else if m.currentView != "main" {
				m.currentView = "main"
			}
		case "s":
			if m.currentView == "batch_detail" {
				if id, ok := m.selectedProcessID(); ok {
					return m, startStep(m.client, id)
				}
			}
		case "x":
			if m.currentView == "batch_detail" {
				if id, ok := m.selectedProcessID(); ok {
					return m, stopStep(m.client, id)
				}
			}
		case "r":
			if m.currentView == "batch_detail" {
				return m, fetchReport(m.client, m.batchDetail.ID)
			}
		case "v":
			if m.currentView == "batch_detail" {
				return m, finalizeBatch(m.client, m.batchDetail.ID)
			}
		}
	case batchesMsg:
		m.batchList.SetItems(convertBatchesToItems(msg.batches))
		return m, nil
	case batchDetailMsg:
		m.batchDetail = msg.batch
		m.stepView.SetRows(convertProcessesToRows(msg.batch.Processes))
		return m, nil
	case reportMsg:
		m.report = &msg.report
		m.currentView = "report"
		m.notice = ""
		if msg.finalized {
			m.notice = successStyle.Render(fmt.Sprintf("Batch #%d finalized: %s", msg.report.BatchID, msg.report.Status))
		}
		return m, nil
	case errorMsg:
		m.error = msg.err
		return m, nil
	case confirmMsg:
		m.error = ""
		m.notice = successStyle.Render(msg.message)
		if m.currentView == "batch_detail" {
			return m, fetchBatchDetail(m.client, m.batchDetail.ID)
		}
		m.currentView = "batches"
		return m, fetchBatches(m.client)
	}

	var cmd tea.Cmd
	switch m.currentView {
	case "main":
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case "batches":
		m.batchList, cmd = m.batchList.Update(msg)
	case "batch_detail":
		m.stepView, cmd = m.stepView.Update(msg)
	case "create_batch":
		m.textInput, cmd = m.textInput.Update(msg)
	}

	return m, cmd
}

// selectedProcessID reads the process id out of the focused table row
func (m Model) selectedProcessID() (uint, bool) {
	row := m.stepView.SelectedRow()
	if row == nil {
		return 0, false
	}
	id, err := strconv.ParseUint(row[1], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// View renders the UI
func (m Model) View() string {
	switch m.currentView {
	case "main":
		return docStyle.Render(m.mainMenu.View())
	case "batches":
		help := "\nPress 'enter' to open a batch, 'esc' to go back\n"
		if m.error != "" {
			help += errorStyle.Render(m.error) + "\n"
		}
		if m.notice != "" {
			help += m.notice + "\n"
		}
		return docStyle.Render(titleStyle.Render("Production Batches") + "\n\n" + m.batchList.View() + help)
	case "batch_detail":
		return docStyle.Render(batchDetailView(m))
	case "create_batch":
		help := "\nFormat: <starch weight kg>: <type id>,<type id>,...\nPress 'enter' to create, 'esc' to cancel\n"
		if m.error != "" {
			help += errorStyle.Render(m.error) + "\n"
		}
		return docStyle.Render(titleStyle.Render("New Batch") + "\n\n" + m.textInput.View() + help)
	case "report":
		return docStyle.Render(reportView(m))
	default:
		return "Loading..."
	}
}

// Custom message types for the tea.Model
type batchesMsg struct {
	batches []Batch
}

type batchDetailMsg struct {
	batch Batch
}

type reportMsg struct {
	report    Report
	finalized bool
}

type errorMsg struct {
	err string
}

type confirmMsg struct {
	message string
}

// batchItem represents a batch in the list
type batchItem struct {
	id     uint
	title  string
	desc   string
	status string
}

func (i batchItem) Title() string       { return i.title }
func (i batchItem) Description() string { return i.desc }
func (i batchItem) FilterValue() string { return i.title }

// fetchBatches retrieves batches from the API
func fetchBatches(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		batches, err := client.GetBatches()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching batches: %v", err)}
		}
		return batchesMsg{batches: batches}
	}
}

// fetchBatchDetail retrieves one batch with its timed steps
func fetchBatchDetail(client *ApiClient, id uint) tea.Cmd {
	return func() tea.Msg {
		batch, err := client.GetBatch(id)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching batch details: %v", err)}
		}
		if batch == nil {
			return errorMsg{err: fmt.Sprintf("Batch %d not found", id)}
		}
		return batchDetailMsg{batch: *batch}
	}
}

// startStep starts the timer on a step
func startStep(client *ApiClient, processID uint) tea.Cmd {
	return func() tea.Msg {
		_, err := client.StartProcess(processID)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error starting process: %v", err)}
		}
		return confirmMsg{message: fmt.Sprintf("Process %d started", processID)}
	}
}

// stopStep stops the timer on a step
func stopStep(client *ApiClient, processID uint) tea.Cmd {
	return func() tea.Msg {
		process, err := client.StopProcess(processID)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error stopping process: %v", err)}
		}
		if process != nil && process.DurationMinutes != nil {
			return confirmMsg{message: fmt.Sprintf("Process %d stopped at %.2f min", processID, *process.DurationMinutes)}
		}
		return confirmMsg{message: fmt.Sprintf("Process %d stopped", processID)}
	}
}

// fetchReport retrieves a non-finalizing preview report
func fetchReport(client *ApiClient, batchID uint) tea.Cmd {
	return func() tea.Msg {
		report, err := client.GetReport(batchID)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching report: %v", err)}
		}
		return reportMsg{report: *report}
	}
}

// finalizeBatch validates and freezes a batch
func finalizeBatch(client *ApiClient, batchID uint) tea.Cmd {
	return func() tea.Msg {
		report, err := client.ValidateBatch(batchID)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error validating batch: %v", err)}
		}
		return reportMsg{report: *report, finalized: true}
	}
}

// handleBatchInput parses "<weight>: <id>,<id>" and creates the batch
func handleBatchInput(m Model) tea.Cmd {
	input := m.textInput.Value()
	if input == "" {
		return func() tea.Msg {
			return errorMsg{err: "Please enter batch details"}
		}
	}

	parts := strings.SplitN(input, ":", 2)
	if len(parts) != 2 {
		return func() tea.Msg {
			return errorMsg{err: "Expected format: <starch weight>: <type ids>"}
		}
	}

	weight, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return func() tea.Msg {
			return errorMsg{err: fmt.Sprintf("Bad starch weight: %v", err)}
		}
	}

	var ids []uint
	for _, raw := range strings.Split(parts[1], ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return func() tea.Msg {
				return errorMsg{err: fmt.Sprintf("Bad halwa type id %q", raw)}
			}
		}
		ids = append(ids, uint(id))
	}

	client := m.client
	return func() tea.Msg {
		created, err := client.CreateBatch(weight, ids)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error creating batch: %v", err)}
		}
		return confirmMsg{message: fmt.Sprintf("Batch %d created (%d steps)", created.ID, len(created.Processes))}
	}
}

// convertBatchesToItems converts API batches to list items
func convertBatchesToItems(batches []Batch) []list.Item {
	items := make([]list.Item, len(batches))
	for i, batch := range batches {
		label := batch.DisplayLabel
		if label == "" {
			label = strings.Join(batch.HalwaTypeNames, " + ")
		}
		desc := fmt.Sprintf("%.1f kg starch - Status: %s", batch.StarchWeight, batch.Status)
		if batch.Status != "pending" {
			desc += fmt.Sprintf(" - %.1f min total", batch.TotalDuration)
		}
		items[i] = batchItem{
			id:     batch.ID,
			title:  fmt.Sprintf("Batch #%d (%s)", batch.ID, label),
			desc:   desc,
			status: batch.Status,
		}
	}
	return items
}

// convertProcessesToRows converts timed steps to table rows
func convertProcessesToRows(processes []Process) []table.Row {
	rows := make([]table.Row, len(processes))
	for i, p := range processes {
		started, stopped, minutes := "-", "-", "-"
		if p.StartTime != nil {
			started = p.StartTime.Format("15:04:05")
		}
		if p.EndTime != nil {
			stopped = p.EndTime.Format("15:04:05")
		}
		if p.DurationMinutes != nil {
			minutes = fmt.Sprintf("%.2f", *p.DurationMinutes)
		}
		rows[i] = table.Row{
			strconv.Itoa(p.Sequence),
			strconv.FormatUint(uint64(p.ID), 10),
			started,
			stopped,
			minutes,
		}
	}
	return rows
}

// batchDetailView renders one batch with its step table
func batchDetailView(m Model) string {
	batch := m.batchDetail
	label := batch.DisplayLabel
	if label == "" {
		label = strings.Join(batch.HalwaTypeNames, " + ")
	}

	view := titleStyle.Render(fmt.Sprintf("Batch #%d - %s", batch.ID, label)) + "\n\n"
	view += fmt.Sprintf("Status: %s\n", statusBadge(batch.Status))
	view += fmt.Sprintf("Starch: %.1f kg\n", batch.StarchWeight)
	if batch.ChefID != "" {
		view += fmt.Sprintf("Chef: %s\n", batch.ChefID)
	}
	if !batch.CreatedAt.IsZero() {
		view += fmt.Sprintf("Created: %s\n", batch.CreatedAt.Format(time.RFC1123))
	}
	if batch.Status != "pending" {
		view += fmt.Sprintf("Total: %.2f min\n", batch.TotalDuration)
	}

	view += "\n" + m.stepView.View() + "\n"
	view += "\nPress 's' start step, 'x' stop step, 'r' preview report, 'v' validate, 'esc' back\n"
	if m.error != "" {
		view += errorStyle.Render(m.error) + "\n"
	}
	if m.notice != "" {
		view += m.notice + "\n"
	}

	return view
}

// reportView renders a validation report
func reportView(m Model) string {
	r := m.report
	if r == nil {
		return "Loading..."
	}

	view := titleStyle.Render(fmt.Sprintf("Batch #%d Report", r.BatchID)) + "\n\n"
	view += fmt.Sprintf("Outcome: %s\n", statusBadge(r.Status))
	view += fmt.Sprintf("Total: %.2f min\n", r.TotalDuration)
	if r.HardViolations > 0 {
		view += errorStyle.Render(fmt.Sprintf("%d hard violations", r.HardViolations)) + "\n"
	}
	if r.Partial {
		view += warnStyle.Render(fmt.Sprintf("Partial: %d unfinished steps", r.UnfinishedProcesses)) + "\n"
	}

	view += "\nSteps:\n"
	for _, check := range r.Checks {
		line := fmt.Sprintf("%d. %s - %.2f min - %s", check.Sequence, check.ProcessTypeName, check.DurationMinutes, check.Status)
		if check.Deviation != "" {
			line += fmt.Sprintf(" (%s)", check.Deviation)
		}
		view += line + "\n"
	}

	if m.notice != "" {
		view += "\n" + m.notice + "\n"
	}
	view += "\nPress 'esc' to go back to the batch list"

	return view
}

// statusBadge colors a batch or report outcome
func statusBadge(status string) string {
	switch status {
	case "good", "ok":
		return successStyle.Render(status)
	case "moderate":
		return warnStyle.Render(status)
	case "shift_detected":
		return errorStyle.Render(status)
	case "pending":
		return infoStyle.Render(status)
	default:
		return status
	}
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}

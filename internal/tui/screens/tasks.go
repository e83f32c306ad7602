package screens

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/anamartens/bigday/internal/identity"
	"github.com/anamartens/bigday/internal/models"
	"github.com/anamartens/bigday/internal/tasks"
)

type tasksMode int

const (
	tasksModeList tasksMode = iota
	tasksModeAdd
	tasksModeDelete
	tasksModeSearch
)

type Tasks struct {
	tracker   *tasks.Tracker
	weddingID int64
	width     int
	height    int

	tasks        []models.Task
	cursor       int
	mode         tasksMode
	addForm      *form
	searchInput  textinput.Model
	statusFilter models.TaskStatus
	query        string
	loading      bool
	err          error
	message      string
}

func NewTasks(db *sql.DB, guard *identity.Guard, weddingID int64) *Tasks {
	si := textinput.New()
	si.Placeholder = "Search title and description"
	si.CharLimit = 100
	si.Width = 40

	return &Tasks{
		tracker:   tasks.NewTracker(db, guard),
		weddingID: weddingID,
		addForm: newForm(
			formField{label: "Title", placeholder: "Book the photographer"},
			formField{label: "Priority", placeholder: "low | medium | high | critical"},
			formField{label: "Due date (optional)", placeholder: "2027-03-01"},
			formField{label: "Notes (optional)", placeholder: ""},
		),
		searchInput: si,
	}
}

func (s *Tasks) SetSize(width, height int) {
	s.width = width
	s.height = height
}

type tasksDataMsg struct {
	tasks []models.Task
	err   error
}

func (s *Tasks) Init() tea.Cmd {
	s.loading = true
	s.mode = tasksModeList
	s.message = ""
	return s.loadData
}

func (s *Tasks) loadData() tea.Msg {
	list, err := s.tracker.List(s.weddingID, tasks.Filter{
		Status: s.statusFilter,
		Query:  s.query,
	})
	return tasksDataMsg{tasks: list, err: err}
}

func (s *Tasks) Update(msg tea.Msg) tea.Cmd {
	if s.mode == tasksModeAdd {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				if !s.addForm.atLast() {
					s.addForm.next()
					return nil
				}
				return s.handleAdd()
			case "tab", "down":
				s.addForm.next()
				return nil
			case "shift+tab", "up":
				s.addForm.prev()
				return nil
			case "esc":
				s.mode = tasksModeList
				return nil
			}
		}
		return s.addForm.update(msg)
	}

	if s.mode == tasksModeSearch {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				s.query = strings.TrimSpace(s.searchInput.Value())
				s.mode = tasksModeList
				s.searchInput.Blur()
				return s.loadData
			case "esc":
				s.mode = tasksModeList
				s.searchInput.Blur()
				return nil
			}
		}
		var cmd tea.Cmd
		s.searchInput, cmd = s.searchInput.Update(msg)
		return cmd
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		s.loading = false
		s.err = msg.err
		s.tasks = msg.tasks
		if s.cursor >= len(s.tasks) {
			s.cursor = max(0, len(s.tasks)-1)
		}
		return nil

	case RefreshMsg:
		return s.Init()

	case tea.KeyMsg:
		switch s.mode {
		case tasksModeList:
			return s.handleListKey(msg)
		case tasksModeDelete:
			return s.handleDeleteKey(msg)
		}
	}

	return nil
}

func (s *Tasks) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.tasks)-1 {
			s.cursor++
		}
	case "a":
		s.mode = tasksModeAdd
		s.addForm.reset("", string(models.PriorityMedium), "", "")
	case " ", "enter":
		if len(s.tasks) > 0 {
			return s.cycleStatus()
		}
	case "d":
		if len(s.tasks) > 0 {
			s.mode = tasksModeDelete
		}
	case "f":
		s.statusFilter = nextStatusFilter(s.statusFilter)
		return s.loadData
	case "/":
		s.mode = tasksModeSearch
		s.searchInput.SetValue(s.query)
		s.searchInput.Focus()
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

// nextStatusFilter cycles all -> todo -> in_progress -> done -> all.
func nextStatusFilter(current models.TaskStatus) models.TaskStatus {
	switch current {
	case "":
		return models.StatusTodo
	case models.StatusTodo:
		return models.StatusInProgress
	case models.StatusInProgress:
		return models.StatusDone
	default:
		return ""
	}
}

func (s *Tasks) handleAdd() tea.Cmd {
	in := tasks.TaskInput{
		Title:    s.addForm.value(0),
		Priority: models.TaskPriority(s.addForm.value(1)),
		Notes:    s.addForm.value(3),
	}

	if raw := s.addForm.value(2); raw != "" {
		due, err := time.Parse("2006-01-02", raw)
		if err != nil {
			s.err = fmt.Errorf("invalid due date %q (expected YYYY-MM-DD)", raw)
			s.mode = tasksModeList
			return nil
		}
		in.DueDate = &due
	}

	_, err := s.tracker.Create(s.weddingID, in)
	if err != nil {
		s.err = err
	} else {
		s.message = fmt.Sprintf("Created task: %s", in.Title)
	}
	s.mode = tasksModeList
	return s.loadData
}

// cycleStatus advances the selected task todo -> in_progress -> done
// and back around, stamping and clearing the completion time on the
// way.
func (s *Tasks) cycleStatus() tea.Cmd {
	t := s.tasks[s.cursor]

	var next models.TaskStatus
	switch t.Status {
	case models.StatusTodo:
		next = models.StatusInProgress
	case models.StatusInProgress:
		next = models.StatusDone
	default:
		next = models.StatusTodo
	}

	if _, err := s.tracker.SetStatus(t.ID, next); err != nil {
		s.err = err
	}
	return s.loadData
}

func (s *Tasks) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		title := s.tasks[s.cursor].Title
		err := s.tracker.Delete(s.tasks[s.cursor].ID)
		if err != nil {
			s.err = err
		} else {
			s.message = fmt.Sprintf("Deleted task: %s", title)
		}
		s.mode = tasksModeList
		return s.loadData

	case "n", "N", "esc":
		s.mode = tasksModeList
	}
	return nil
}

func (s *Tasks) View() string {
	var b strings.Builder

	title := "TASKS"
	if s.statusFilter != "" {
		title = fmt.Sprintf("TASKS - %s", s.statusFilter)
	}
	if s.query != "" {
		title += fmt.Sprintf(" /%s/", s.query)
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	if s.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if s.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", s.err)))
		b.WriteString("\n\n")
		s.err = nil
	}

	if s.message != "" {
		b.WriteString(SuccessStyle.Render(s.message))
		b.WriteString("\n\n")
	}

	if s.mode == tasksModeAdd {
		b.WriteString("New task:\n\n")
		s.addForm.view(&b)
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("[enter] Next/Save  [tab] Next field  [esc] Cancel"))
		return b.String()
	}

	if s.mode == tasksModeSearch {
		b.WriteString("Search tasks:\n")
		b.WriteString(s.searchInput.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Apply  [esc] Cancel"))
		return b.String()
	}

	if s.mode == tasksModeDelete && len(s.tasks) > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf(
			"Delete task '%s'? (y/n)",
			s.tasks[s.cursor].Title,
		)))
		b.WriteString("\n")
		return b.String()
	}

	// List mode
	if len(s.tasks) == 0 {
		b.WriteString(DimStyle.Render("No tasks match."))
		b.WriteString("\n\n")
	} else {
		now := time.Now()
		for i, t := range s.tasks {
			cursor := "  "
			style := NormalStyle
			if i == s.cursor {
				cursor = "> "
				style = SelectedStyle
			}

			mark := "[ ]"
			switch t.Status {
			case models.StatusInProgress:
				mark = "[~]"
			case models.StatusDone:
				mark = "[x]"
			}

			due := ""
			if t.DueDate != nil {
				due = DimStyle.Render(fmt.Sprintf(" due %s", t.DueDate.Format("Jan 02")))
				if tasks.IsOverdue(&t, now) {
					due = WarningStyle.Render(" OVERDUE")
				}
			}

			line := fmt.Sprintf("%s%s %s (%s)%s", cursor, mark, t.Title, t.Priority, due)
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	help := "[a] Add  [space] Cycle status  [f] Filter  [/] Search  [d] Delete  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

package screens

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anamartens/bigday/internal/identity"
	"github.com/anamartens/bigday/internal/models"
	"github.com/anamartens/bigday/internal/timeline"
)

type timelineMode int

const (
	timelineModeList timelineMode = iota
	timelineModeAdd
	timelineModeEdit
	timelineModeDelete
)

type Timeline struct {
	scheduler *timeline.Scheduler
	weddingID int64
	width     int
	height    int

	milestones []models.Milestone
	occupied   int
	cursor     int
	mode       timelineMode
	editForm   *form
	loading    bool
	err        error
	message    string
}

func NewTimeline(db *sql.DB, guard *identity.Guard, weddingID int64) *Timeline {
	return &Timeline{
		scheduler: timeline.NewScheduler(db, guard),
		weddingID: weddingID,
		editForm: newForm(
			formField{label: "Title", placeholder: "Ceremony"},
			formField{label: "Start time", placeholder: "14:00"},
			formField{label: "Duration in minutes", placeholder: "30"},
			formField{label: "Location (optional)", placeholder: "Garden pavilion"},
			formField{label: "Contact (optional)", placeholder: "Officiant - 555 0134"},
		),
	}
}

func (s *Timeline) SetSize(width, height int) {
	s.width = width
	s.height = height
}

type timelineDataMsg struct {
	milestones []models.Milestone
	occupied   int
	err        error
}

func (s *Timeline) Init() tea.Cmd {
	s.loading = true
	s.mode = timelineModeList
	s.message = ""
	return s.loadData
}

func (s *Timeline) loadData() tea.Msg {
	milestones, err := s.scheduler.OrderedMilestones(s.weddingID)
	if err != nil {
		return timelineDataMsg{err: err}
	}

	occupied, err := s.scheduler.TotalOccupiedMinutes(s.weddingID)
	if err != nil {
		return timelineDataMsg{err: err}
	}

	return timelineDataMsg{milestones: milestones, occupied: occupied}
}

func (s *Timeline) Update(msg tea.Msg) tea.Cmd {
	if s.mode == timelineModeAdd || s.mode == timelineModeEdit {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				if !s.editForm.atLast() {
					s.editForm.next()
					return nil
				}
				return s.handleSave()
			case "tab", "down":
				s.editForm.next()
				return nil
			case "shift+tab", "up":
				s.editForm.prev()
				return nil
			case "esc":
				s.mode = timelineModeList
				return nil
			}
		}
		return s.editForm.update(msg)
	}

	switch msg := msg.(type) {
	case timelineDataMsg:
		s.loading = false
		s.err = msg.err
		s.milestones = msg.milestones
		s.occupied = msg.occupied
		if s.cursor >= len(s.milestones) {
			s.cursor = max(0, len(s.milestones)-1)
		}
		return nil

	case RefreshMsg:
		return s.Init()

	case tea.KeyMsg:
		switch s.mode {
		case timelineModeList:
			return s.handleListKey(msg)
		case timelineModeDelete:
			return s.handleDeleteKey(msg)
		}
	}

	return nil
}

func (s *Timeline) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.milestones)-1 {
			s.cursor++
		}
	case "a":
		s.mode = timelineModeAdd
		s.editForm.reset("", "", "", "", "")
	case "e", "enter":
		if len(s.milestones) > 0 {
			s.mode = timelineModeEdit
			m := s.milestones[s.cursor]
			at := ""
			if m.ScheduledAt != nil {
				at = m.ScheduledAt.String()
			}
			contact := m.ContactName
			if m.ContactPhone != "" {
				contact = fmt.Sprintf("%s - %s", m.ContactName, m.ContactPhone)
			}
			s.editForm.reset(m.Title, at, strconv.Itoa(m.DurationMin), m.Location, contact)
		}
	case "d":
		if len(s.milestones) > 0 {
			s.mode = timelineModeDelete
		}
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func (s *Timeline) handleSave() tea.Cmd {
	in, err := s.parseForm()
	if err != nil {
		s.err = err
		s.mode = timelineModeList
		return nil
	}

	if s.mode == timelineModeEdit {
		_, err = s.scheduler.UpdateMilestone(s.milestones[s.cursor].ID, in)
		if err == nil {
			s.message = fmt.Sprintf("Updated milestone: %s", in.Title)
		}
	} else {
		_, err = s.scheduler.AddMilestone(s.weddingID, in)
		if err == nil {
			s.message = fmt.Sprintf("Added milestone: %s", in.Title)
		}
	}
	if err != nil {
		s.err = err
	}
	s.mode = timelineModeList
	return s.loadData
}

func (s *Timeline) parseForm() (timeline.MilestoneInput, error) {
	in := timeline.MilestoneInput{
		Title:    s.editForm.value(0),
		Location: s.editForm.value(3),
	}

	if contact := s.editForm.value(4); contact != "" {
		name, phone, found := strings.Cut(contact, " - ")
		in.ContactName = strings.TrimSpace(name)
		if found {
			in.ContactPhone = strings.TrimSpace(phone)
		}
	}

	if raw := s.editForm.value(1); raw != "" {
		at, err := models.ParseTimeOfDay(raw)
		if err != nil {
			return in, err
		}
		in.ScheduledAt = &at
	}

	if raw := s.editForm.value(2); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			return in, fmt.Errorf("invalid duration %q", raw)
		}
		in.DurationMin = &d
	}

	return in, nil
}

func (s *Timeline) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		title := s.milestones[s.cursor].Title
		err := s.scheduler.DeleteMilestone(s.milestones[s.cursor].ID)
		if err != nil {
			s.err = err
		} else {
			s.message = fmt.Sprintf("Deleted milestone: %s", title)
		}
		s.mode = timelineModeList
		return s.loadData

	case "n", "N", "esc":
		s.mode = timelineModeList
	}
	return nil
}

func (s *Timeline) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("TIMELINE"))
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

	if s.mode == timelineModeAdd || s.mode == timelineModeEdit {
		if s.mode == timelineModeEdit {
			b.WriteString("Edit milestone:\n\n")
		} else {
			b.WriteString("New milestone:\n\n")
		}
		s.editForm.view(&b)
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("[enter] Next/Save  [tab] Next field  [esc] Cancel"))
		return b.String()
	}

	if s.mode == timelineModeDelete && len(s.milestones) > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf(
			"Delete milestone '%s'? (y/n)",
			s.milestones[s.cursor].Title,
		)))
		b.WriteString("\n")
		return b.String()
	}

	// List mode
	if len(s.milestones) == 0 {
		b.WriteString(DimStyle.Render("No milestones yet."))
		b.WriteString("\n\n")
	} else {
		for i, m := range s.milestones {
			cursor := "  "
			style := NormalStyle
			if i == s.cursor {
				cursor = "> "
				style = SelectedStyle
			}

			window := DimStyle.Render("unscheduled")
			if m.ScheduledAt != nil {
				window = fmt.Sprintf("%s-%s",
					m.ScheduledAt.String(),
					timeline.EndTime(*m.ScheduledAt, m.DurationMin),
				)
			}

			location := ""
			if m.Location != "" {
				location = DimStyle.Render(fmt.Sprintf(" @ %s", m.Location))
			}

			line := fmt.Sprintf("%s%s  %s%s", cursor, window, m.Title, location)
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(fmt.Sprintf(
			"%d milestones, %dh %02dm planned",
			len(s.milestones), s.occupied/60, s.occupied%60,
		)))
		b.WriteString("\n\n")
	}

	help := "[a] Add  [e] Edit  [d] Delete  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

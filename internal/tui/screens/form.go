package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is a small stack of labeled text inputs with one focused at a
// time. Tab/down move forward, shift+tab/up move back.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(fields ...formField) *form {
	f := &form{}
	for _, field := range fields {
		ti := textinput.New()
		ti.Placeholder = field.placeholder
		ti.CharLimit = 200
		ti.Width = 40
		f.labels = append(f.labels, field.label)
		f.inputs = append(f.inputs, ti)
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

type formField struct {
	label       string
	placeholder string
}

func (f *form) reset(values ...string) {
	for i := range f.inputs {
		if i < len(values) {
			f.inputs[i].SetValue(values[i])
		} else {
			f.inputs[i].SetValue("")
		}
		f.inputs[i].Blur()
	}
	f.focus = 0
	f.inputs[0].Focus()
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *form) next() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *form) prev() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *form) atLast() bool {
	return f.focus == len(f.inputs)-1
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) view(b *strings.Builder) {
	for i, ti := range f.inputs {
		label := f.labels[i]
		if i == f.focus {
			b.WriteString(SelectedStyle.Render(label))
		} else {
			b.WriteString(DimStyle.Render(label))
		}
		b.WriteString("\n")
		b.WriteString(ti.View())
		b.WriteString("\n")
	}
}

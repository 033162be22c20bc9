package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7B61FF"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00C2FF"))
	checkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#1C9963"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#1C9963"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
)

func (m Model) View() string {
	var body string
	switch m.screen {
	case screenName:
		body = m.viewName()
	case screenAdd:
		body = m.viewAdd()
	default:
		body = m.viewList()
	}
	if m.status != "" {
		style := okStyle
		if m.statusErr {
			style = errorStyle
		}
		body += "\n" + style.Render(m.status)
	}
	return panelStyle.Render(body)
}

func (m Model) viewName() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("MANAGE YOUR TASK"))
	b.WriteString("\n\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("enter: get started • esc: quit"))
	return b.String()
}

func (m Model) viewAdd() string {
	var b strings.Builder
	b.WriteString(header(m.name))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("ADD YOUR TASK"))
	b.WriteString("\n")
	b.WriteString(m.editor.View())
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("enter: finish • esc: back"))
	return b.String()
}

func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString(header(m.name))
	b.WriteString("\n\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(mutedStyle.Render("no tasks"))
		b.WriteString("\n")
	}
	for i, it := range m.items {
		prefix := "  "
		if i == m.cursor {
			prefix = selectedStyle.Render("> ")
		}
		line := it.Value
		if m.editing && it.ID == m.editID {
			line = m.editor.View()
		} else if limit := m.width - 10; limit > 3 {
			// cut by cell width so multibyte text stays whole
			line = ansi.Truncate(line, limit, "...")
		}
		fmt.Fprintf(&b, "%s%s %s\n", prefix, checkStyle.Render("✓"), line)
	}

	b.WriteString("\n")
	help := []string{
		keys.Add.Help().Key + " " + keys.Add.Help().Desc,
		keys.Edit.Help().Key + " " + keys.Edit.Help().Desc,
		keys.Delete.Help().Key + " " + keys.Delete.Help().Desc,
		keys.Done.Help().Key + " " + keys.Done.Help().Desc,
		keys.Search.Help().Key + " " + keys.Search.Help().Desc,
		keys.Quit.Help().Key + " " + keys.Quit.Help().Desc,
	}
	b.WriteString(mutedStyle.Render(strings.Join(help, " • ")))
	return b.String()
}

func header(name string) string {
	if name == "" {
		name = "User"
	}
	return titleStyle.Render("Hi "+name) + "\n" + mutedStyle.Render("Have a great day ahead")
}

package viewer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkarlsen/accessctl/internal/export"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8E4EC6"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#8E4EC6"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	statusOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2E8B57"))

	statusErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CC3333"))

	confirmStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#D7A700"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// listRows is the number of visible list entries given the current height.
func (m Model) listRows() int {
	rows := m.height - 6
	if rows < 1 {
		return 1
	}
	return rows
}

func (m Model) listWidth() int {
	width := m.width / 3
	if width < 30 {
		width = 30
	}
	if width > 50 {
		width = 50
	}
	return width
}

func (m Model) View() string {
	if m.mode == ModeExiting {
		return ""
	}

	list := m.renderList()
	detail := m.renderDetail()
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, detail)

	return body + "\n" + m.renderFooter()
}

func (m Model) renderList() string {
	width := m.listWidth()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Requests"))
	b.WriteString("\n")

	if len(m.records) == 0 {
		b.WriteString(labelStyle.Render("(no approval requests)"))
	}

	rows := m.listRows()
	for i := m.offset; i < len(m.records) && i < m.offset+rows; i++ {
		line := " " + truncate(m.records[i].ID(), width-4) + " "
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		if i < len(m.records)-1 && i < m.offset+rows-1 {
			b.WriteString("\n")
		}
	}

	return panelStyle.Width(width).Render(b.String())
}

func (m Model) renderDetail() string {
	width := m.width - m.listWidth() - 4
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Request Details"))
	b.WriteString("\n")

	if m.cursor < 0 || m.cursor >= len(m.records) {
		b.WriteString(labelStyle.Render("Nothing selected."))
		return panelStyle.Width(width).Render(b.String())
	}

	req := m.records[m.cursor]
	writeSection(&b, "Basic Information", []field{
		{"Name", req.Name},
		{"State", string(req.State)},
		{"Request Time", export.FormatTimestamp(req.RequestTime)},
	})
	writeSection(&b, "Resource Details", []field{
		{"Resource", orNA(req.RequestedResource)},
	})
	detail := "N/A"
	if req.RequestedReason.Detail != nil {
		detail = *req.RequestedReason.Detail
	}
	writeSection(&b, "Request Context", []field{
		{"Type", orNA(req.RequestedReason.Type)},
		{"Detail", detail},
	})
	if req.RequestedExpiration != nil {
		writeSection(&b, "Expiration", []field{
			{"Expire Time", export.FormatTimestamp(*req.RequestedExpiration)},
		})
	}
	if len(req.RequestedLocations) > 0 {
		keys := make([]string, 0, len(req.RequestedLocations))
		for key := range req.RequestedLocations {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fields := make([]field, 0, len(keys))
		for _, key := range keys {
			fields = append(fields, field{key, req.RequestedLocations[key]})
		}
		writeSection(&b, "Locations", fields)
	}

	return panelStyle.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

type field struct {
	label string
	value string
}

func writeSection(b *strings.Builder, title string, fields []field) {
	b.WriteString(titleStyle.Render(title + ":"))
	b.WriteString("\n")
	for _, f := range fields {
		b.WriteString("  " + labelStyle.Render(f.label+": ") + f.value + "\n")
	}
}

func (m Model) renderFooter() string {
	if m.mode == ModeConfirming {
		target := ""
		if m.target >= 0 && m.target < len(m.records) {
			target = m.records[m.target].ID()
		}
		return confirmStyle.Render(fmt.Sprintf("%s %s? (y/n)", m.pending, target))
	}

	help := helpStyle.Render("↑/↓ navigate · a approve · d dismiss · r revoke · R refresh · q quit")
	if m.status == "" {
		return help
	}

	style := statusOKStyle
	if strings.Contains(m.status, "failed") || strings.Contains(m.status, ":") {
		style = statusErrStyle
	}
	return style.Render(m.status) + "\n" + help
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

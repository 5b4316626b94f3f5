// Package tui renders a verification result as an interactive browser:
// a conflict table on top, a detail pane below.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"skyverify/internal/verify"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	clearBadge     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")).Padding(0, 1)
	conflictBadge  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("9")).Padding(0, 1)
	severeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	moderateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Browser is the bubbletea model for a single verification result.
type Browser struct {
	result *verify.Result
	table  table.Model
	detail viewport.Model
	height int
	width  int
	wrap   bool
	help   bool
}

// NewBrowser builds the model; call Run to start the program.
func NewBrowser(result *verify.Result) Browser {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Time (s)", Width: 10},
		{Title: "Flight", Width: 28},
		{Title: "Distance (m)", Width: 13},
		{Title: "Severity", Width: 9},
	}
	rows := make([]table.Row, len(result.Details))
	for i, d := range result.Details {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.1f", d.Time),
			d.ConflictingFlight,
			fmt.Sprintf("%.1f", d.Distance),
			fmt.Sprintf("%.2f", d.Severity),
		}
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	b := Browser{
		result: result,
		table:  t,
		detail: viewport.New(0, 0),
	}
	b.refreshDetail()
	return b
}

// Run starts the interactive program and blocks until it quits.
func Run(result *verify.Result) error {
	_, err := tea.NewProgram(NewBrowser(result), tea.WithAltScreen()).Run()
	return err
}

func (b Browser) Init() tea.Cmd { return nil }

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.layout()
		b.refreshDetail()
		return b, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return b, tea.Quit
		case "w":
			b.wrap = !b.wrap
			b.refreshDetail()
			return b, nil
		case "h", "?":
			b.help = !b.help
			return b, nil
		}
	}
	var cmd tea.Cmd
	b.table, cmd = b.table.Update(msg)
	b.refreshDetail()
	return b, cmd
}

func (b *Browser) layout() {
	b.table.SetWidth(b.width)
	tableHeight := len(b.result.Details) + 1
	maxTable := b.height / 2
	if maxTable < 4 {
		maxTable = 4
	}
	if tableHeight > maxTable {
		tableHeight = maxTable
	}
	b.table.SetHeight(tableHeight)
	b.detail.Width = b.width
	detailHeight := b.height - tableHeight - 5
	if detailHeight < 3 {
		detailHeight = 3
	}
	b.detail.Height = detailHeight
}

func (b *Browser) refreshDetail() {
	idx := b.table.Cursor()
	if idx < 0 || idx >= len(b.result.Details) {
		b.detail.SetContent("No conflicts. Mission is clear to proceed.")
		return
	}
	d := b.result.Details[idx]
	sevStyle := moderateStyle
	if d.Severity > 0.8 {
		sevStyle = severeStyle
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Conflict #%d of %d\n\n", idx+1, len(b.result.Details))
	fmt.Fprintf(&sb, "Mission:            %s\n", b.result.Mission.UAVID())
	fmt.Fprintf(&sb, "Conflicting Flight: %s\n", d.ConflictingFlight)
	fmt.Fprintf(&sb, "Time:               %.2fs\n", d.Time)
	fmt.Fprintf(&sb, "Location:           (%.1f, %.1f, %.1f)\n", d.Location.X, d.Location.Y, d.Location.Z)
	fmt.Fprintf(&sb, "Separation:         %.2fm\n", d.Distance)
	sb.WriteString("Severity:           " + sevStyle.Render(fmt.Sprintf("%.2f", d.Severity)) + "\n")
	content := sb.String()
	if b.wrap && b.detail.Width > 0 {
		content = wordwrap.String(content, b.detail.Width)
	}
	b.detail.SetContent(content)
}

func (b Browser) View() string {
	if b.help {
		return strings.Join([]string{
			"Key Bindings:",
			" q   quit",
			" j/k or up/down  select conflict",
			" w   toggle wrap in detail pane",
			" h/? toggle this help view",
		}, "\n")
	}

	badge := clearBadge.Render(string(b.result.Status))
	if !b.result.IsClear() {
		badge = conflictBadge.Render(string(b.result.Status))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render(fmt.Sprintf("Mission %s ", b.result.Mission.UAVID())),
		badge,
		statusBarStyle.Render(fmt.Sprintf("  %d conflict(s)", len(b.result.Conflicts))),
	)
	divider := statusBarStyle.Render(strings.Repeat("─", max(b.width, 1)))
	bottom := statusBarStyle.Render("j/k select · w wrap · h help · q quit")

	sections := []string{header, divider}
	if len(b.result.Details) > 0 {
		sections = append(sections, b.table.View(), divider)
	}
	sections = append(sections, b.detail.View(), divider, bottom)
	return strings.Join(sections, "\n")
}

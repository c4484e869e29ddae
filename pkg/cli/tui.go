package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for halocctl watch's live TUI.
type Theme struct {
	Primary lipgloss.Color // Main accent color
	Dim     lipgloss.Color // Dimmed/help text color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Border lipgloss.Style
	Help   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Border: lipgloss.NewStyle().Foreground(t.Primary),
		Help:   lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Section is a labeled, independently-scrollable region of a Frame;
// watch renders one for newly-seen node records and one for its
// LogWriter tail.
type Section struct {
	Label   string
	Content func() []string // Dynamic content getter
}

// Frame renders a complete box-drawn TUI frame with title, status,
// sections, and help text, redrawn on every watch poll tick.
type Frame struct {
	Styles   Styles
	Title    string
	Status   string
	Sections []Section
	Help     string
}

// Render renders the frame to a string.
func (f Frame) Render(width, height int) string {
	if width < 8 || height < 8 {
		return "Loading..."
	}

	var b strings.Builder
	border := f.Styles.Border
	inner := width - 2

	writeLine := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	// Box row: border, one space of padding each side, padded content.
	boxed := func(content string) string {
		pad := max(0, inner-2-lipgloss.Width(content))
		return border.Render("│") + " " + content + strings.Repeat(" ", pad) + " " + border.Render("│")
	}

	writeLine(border.Render("╭" + strings.Repeat("─", inner) + "╮"))

	title := f.Styles.Title.Render(f.Title)
	status := f.Styles.Help.Render("[" + f.Status + "]")
	writeLine(boxed(title + " " + status))
	writeLine(boxed(""))

	// Body rows left after the borders, title block, and help line,
	// split evenly across sections (each also spends one row on its
	// label rule).
	n := max(len(f.Sections), 1)
	rowsPerSection := max((height-5-n)/n, 2)

	for _, sec := range f.Sections {
		label := f.Styles.Label.Render(sec.Label)
		rule := max(0, inner-1-lipgloss.Width(label))
		writeLine(border.Render("├─") + label + border.Render(strings.Repeat("─", rule)+"┤"))

		lines := sec.Content()
		if len(lines) > rowsPerSection {
			lines = lines[len(lines)-rowsPerSection:] // keep the tail
		}
		for i := 0; i < rowsPerSection; i++ {
			var text string
			if i < len(lines) {
				text = clipToWidth(lines[i], inner-2)
			}
			writeLine(boxed(text))
		}
	}

	writeLine(border.Render("╰" + strings.Repeat("─", inner) + "╯"))
	b.WriteString(f.Styles.Help.Render(f.Help))
	return b.String()
}

// clipToWidth truncates s to at most width terminal cells, appending an
// ellipsis when anything was cut. Multi-cell runes are never split.
func clipToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	used := 0
	var out strings.Builder
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > width-1 {
			break
		}
		out.WriteRune(r)
		used += w
	}
	return out.String() + "…"
}

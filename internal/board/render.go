package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/exam-board/internal/timecalc"
)

const cardsPerRow = 3

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1E3A8A")).
			Padding(0, 2)

	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

	clockStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))

	emptyStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#626262")).
			Padding(1, 2)

	countdownStyle = lipgloss.NewStyle().Bold(true)

	colorHex = map[string]string{
		timecalc.ColorBlue:  "#3B82F6",
		timecalc.ColorAmber: "#F59E0B",
		timecalc.ColorGreen: "#10B981",
		timecalc.ColorRed:   "#EF4444",
		timecalc.ColorNavy:  "#1E3A8A",
	}

	warningStyles = map[timecalc.WarningStyle]lipgloss.Style{
		timecalc.WarningExpired:  lipgloss.NewStyle().Faint(true).Strikethrough(true),
		timecalc.WarningCritical: lipgloss.NewStyle().Bold(true).Blink(true).Foreground(lipgloss.Color("#EF4444")),
		timecalc.WarningNormal:   lipgloss.NewStyle(),
	}
)

func cardStyle(c Card) lipgloss.Style {
	color := lipgloss.Color(colorHex[c.Color])
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Width(30)
	if c.Urgent {
		s = s.Border(lipgloss.ThickBorder())
	}
	return s
}

func renderCard(c Card) string {
	color := lipgloss.Color(colorHex[c.Color])
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(c.Subject),
		lipgloss.NewStyle().Foreground(color).Render(c.StatusLabel),
		countdownStyle.Foreground(color).Render(c.Message),
		fmt.Sprintf("%s – %s  (%s)", c.StartDisplay, c.EndDisplay, c.DurationDisplay),
	}
	var warns []string
	if c.ShowWarn30 {
		warns = append(warns, warningStyles[c.Warn30Style].Render("30m "+c.Warn30Display))
	}
	if c.ShowWarn5 {
		warns = append(warns, warningStyles[c.Warn5Style].Render("5m "+c.Warn5Display))
	}
	if len(warns) > 0 {
		lines = append(lines, strings.Join(warns, "  "))
	}
	return cardStyle(c).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Render draws the board for a terminal.
func Render(b Board) string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(b.CenterName),
		subtitleStyle.Render(fmt.Sprintf("%s · %s", b.DateDisplay, b.SessionName))+"  "+clockStyle.Render(b.ClockDisplay),
	)

	if len(b.Cards) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, emptyStyle.Render(b.EmptyMessage)) + "\n"
	}

	var rows []string
	for i := 0; i < len(b.Cards); i += cardsPerRow {
		end := min(i+cardsPerRow, len(b.Cards))
		rendered := make([]string, 0, end-i)
		for _, c := range b.Cards[i:end] {
			rendered = append(rendered, renderCard(c))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}

	parts := append([]string{header}, rows...)
	if b.Overflow > 0 {
		parts = append(parts, subtitleStyle.Render(fmt.Sprintf("+%d more not shown", b.Overflow)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

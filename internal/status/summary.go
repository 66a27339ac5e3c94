package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Status line palette
var (
	colorGreen  = lipgloss.Color("42")
	colorYellow = lipgloss.Color("214")
	colorGray   = lipgloss.Color("245")
)

// Status indicators
const (
	IndicatorUpToDate = "✓"
	IndicatorAhead    = "↓"
	IndicatorUnknown  = "?"
)

// Summary is the status-line contract: everything the host needs to
// render the pending-change indicator.
type Summary struct {
	Count string
	Text  string
	Icon  string
	Color lipgloss.Color
}

// Summary formats the cached state for the host status line.
func (c *Cache) Summary() Summary {
	p := c.Pending()
	switch p.Kind() {
	case KindUpToDate:
		return Summary{
			Count: p.Text(),
			Text:  "up to date",
			Icon:  IndicatorUpToDate,
			Color: colorGreen,
		}
	case KindAhead:
		text := fmt.Sprintf("%d pending changes", p.Count())
		if p.Count() == 1 {
			text = "1 pending change"
		}
		return Summary{
			Count: p.Text(),
			Text:  text,
			Icon:  IndicatorAhead,
			Color: colorYellow,
		}
	default:
		return Summary{
			Count: p.Text(),
			Text:  "update status unknown",
			Icon:  IndicatorUnknown,
			Color: colorGray,
		}
	}
}

// Render returns the summary as styled terminal text.
func (s Summary) Render() string {
	style := lipgloss.NewStyle().Foreground(s.Color)
	return style.Render(fmt.Sprintf("%s %s", s.Icon, s.Text))
}

package surface

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmOptions configures a yes/no prompt. When OnNo is nil the prompt
// emits a benign "canceled" notice instead.
type ConfirmOptions struct {
	Prompt string
	OnYes  func()
	OnNo   func()
}

// Confirm is the bubbletea model for a blocking yes/no question. The
// answer is delivered through the callbacks from the event loop, never
// as a return value. Exactly one of OnYes/OnNo fires, exactly once.
type Confirm struct {
	surface *Surface
	styles  Styles
	keymap  KeyMap

	prompt   string
	onYes    func()
	onNo     func()
	answered bool
	notice   string
}

// NewConfirm creates a prompt model.
func NewConfirm(opts ConfirmOptions) *Confirm {
	c := &Confirm{
		surface: NewSurface(ConfirmGeometry()),
		styles:  DefaultStyles(),
		keymap:  DefaultKeyMap(),
		prompt:  opts.Prompt,
		onYes:   opts.OnYes,
		onNo:    opts.OnNo,
	}
	if c.onYes == nil {
		c.onYes = func() {}
	}
	if c.onNo == nil {
		c.onNo = func() { c.notice = "canceled" }
	}
	return c
}

// Ask renders the prompt in its own program and blocks the calling
// goroutine until the user answers; the answer still arrives through
// the callbacks.
func Ask(prompt string, onYes, onNo func()) error {
	c := NewConfirm(ConfirmOptions{Prompt: prompt, OnYes: onYes, OnNo: onNo})
	program := tea.NewProgram(c, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("confirmation prompt: %w", err)
	}
	if m, ok := final.(*Confirm); ok && m.notice != "" {
		fmt.Fprintln(os.Stderr, m.notice)
	}
	return nil
}

// Init implements tea.Model.
func (c *Confirm) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (c *Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.surface.Resize(msg.Width, msg.Height)
		return c, nil
	case tea.KeyMsg:
		return c.handleKey(msg)
	default:
		return c, nil
	}
}

func (c *Confirm) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if c.answered {
		return c, nil
	}

	key := msg.String()
	if msg.Type == tea.KeyCtrlC {
		key = "esc"
	}

	switch {
	case key == c.keymap.Yes:
		c.answered = true
		c.onYes()
		c.surface.Close()
		return c, tea.Quit
	case c.keymap.IsNo(key):
		c.answered = true
		c.onNo()
		c.surface.Close()
		return c, tea.Quit
	}

	// Anything else is inert and must not leak below the prompt.
	return c, nil
}

// View implements tea.Model.
func (c *Confirm) View() string {
	if !c.surface.IsOpen() || c.surface.width == 0 {
		return ""
	}
	rect := c.surface.Rect()
	frameW := c.styles.Box.GetHorizontalFrameSize()
	innerWidth := rect.Width - frameW
	if innerWidth < 1 {
		innerWidth = 1
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		c.styles.Text.Width(innerWidth).Render(c.prompt),
		c.styles.Prompt.Render("y/n: "),
	)
	box := c.styles.Box.Width(rect.Width - c.styles.Box.GetHorizontalBorderSize()).Render(content)
	return lipgloss.Place(c.surface.width, c.surface.height, lipgloss.Center, lipgloss.Center, box)
}

// Answered reports whether a callback has fired.
func (c *Confirm) Answered() bool {
	return c.answered
}

// Notice returns the pending cancellation notice, if any.
func (c *Confirm) Notice() string {
	return c.notice
}

package surface

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/creack/pty"
	"github.com/mattn/go-runewidth"
)

// HeadlessEnv signals headless mode: a successful close sequence should
// terminate the host process afterwards. The exit itself happens at the
// cli layer.
const HeadlessEnv = "SRCUP_HEADLESS"

// Headless reports whether the headless environment flag is set.
func Headless() bool {
	return os.Getenv(HeadlessEnv) != ""
}

// TagSink receives the viewport classification tag while a runner
// surface is on screen. The status cache implements it.
type TagSink interface {
	SetActiveTag(tag string)
	ClearActiveTag()
}

// RunOptions configures one command run. Constructed per invocation and
// discarded after the run completes.
type RunOptions struct {
	// Command is the full shell line, usually a &&-fused pipeline.
	Command string
	// Tag classifies the surface for external status-line logic
	// ("updating", "cloning", "showing-changes", ...).
	Tag string
	// AutoClose closes the surface immediately on a zero exit.
	AutoClose bool
	// OnClose receives the final result when the close sequence runs.
	OnClose func(RunResult)
	// ChainToUpdate opens a confirmation prompt after a successful
	// close, asking whether to run the update workflow now.
	ChainToUpdate bool
	// Geometry overrides the default surface size.
	Geometry Geometry
	// Tags optionally receives the classification tag for the run's
	// lifetime.
	Tags TagSink
}

// RunResult carries the exit code and the captured output. ExitCode is
// -1 while the process is still running.
type RunResult struct {
	ExitCode      int
	Lines         []string
	ChainAccepted bool
}

// Output joins the captured lines in arrival order.
func (r RunResult) Output() string {
	return strings.Join(r.Lines, "\n")
}

type lineMsg struct {
	line string
}

type exitMsg struct {
	code int
	err  error
}

type streamClosedMsg struct{}

type runnerMode int

const (
	modeRunning runnerMode = iota
	modeDone
	modeFailed
	modeConfirm
)

// Runner is the bubbletea model that attaches a shell pipeline to a
// modal surface and streams its combined output into a viewport.
type Runner struct {
	opts    RunOptions
	surface *Surface
	confirm *Surface
	styles  Styles
	keymap  KeyMap

	vp      viewport.Model
	vpReady bool

	mode   runnerMode
	result RunResult
	notice string
	closed bool

	proc   *os.Process
	ptmx   *os.File
	stream <-chan tea.Msg
}

// Run spawns the shell pipeline, opens the modal surface, and blocks the
// calling goroutine until the surface is dismissed. A spawn failure is
// fatal to the call and reported without any surface interaction; a
// non-zero exit is surfaced inside the modal and is not an error here.
func Run(opts RunOptions) (*RunResult, error) {
	if strings.TrimSpace(opts.Command) == "" {
		return nil, errors.New("empty command")
	}

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "sh"
	}
	cmd := exec.Command(shell, "-c", opts.Command)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", shell, err)
	}

	ch := make(chan tea.Msg, 128)
	go streamPipeline(cmd, ptmx, ch)

	if opts.Tags != nil {
		opts.Tags.SetActiveTag(opts.Tag)
		defer opts.Tags.ClearActiveTag()
	}

	model := newRunner(opts, cmd.Process, ptmx, ch)
	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("runner surface: %w", err)
	}

	r, ok := final.(*Runner)
	if !ok {
		return nil, errors.New("unexpected final model")
	}
	if r.result.ExitCode > 0 {
		fmt.Fprintf(os.Stderr, "command failed with exit code %d\n", r.result.ExitCode)
	}
	return &r.result, nil
}

func newRunner(opts RunOptions, proc *os.Process, ptmx *os.File, stream <-chan tea.Msg) *Runner {
	geometry := opts.Geometry
	if geometry == (Geometry{}) {
		geometry = DefaultGeometry()
	}
	return &Runner{
		opts:    opts,
		surface: NewSurface(geometry),
		styles:  DefaultStyles(),
		keymap:  DefaultKeyMap(),
		mode:    modeRunning,
		result:  RunResult{ExitCode: -1},
		proc:    proc,
		ptmx:    ptmx,
		stream:  stream,
	}
}

// streamPipeline scans pty output line by line into the message channel
// and reports the exit code once the process is done. All lines are
// delivered before the exit message, which preserves the ordering
// guarantee the close sequence relies on.
func streamPipeline(cmd *exec.Cmd, ptmx *os.File, ch chan<- tea.Msg) {
	defer close(ch)

	scanner := bufio.NewScanner(ptmx)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		// The pty translates \n to \r\n; drop the carriage return.
		ch <- lineMsg{line: strings.TrimRight(scanner.Text(), "\r")}
	}
	_ = ptmx.Close()

	code := 0
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = 1
		}
		ch <- exitMsg{code: code, err: err}
		return
	}
	ch <- exitMsg{code: code}
}

func listenStream(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return msg
	}
}

// Init implements tea.Model.
func (r *Runner) Init() tea.Cmd {
	return listenStream(r.stream)
}

// Update implements tea.Model.
func (r *Runner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.surface.Resize(msg.Width, msg.Height)
		if r.confirm != nil {
			r.confirm.Resize(msg.Width, msg.Height)
		}
		r.layout()
		return r, nil
	case lineMsg:
		r.result.Lines = append(r.result.Lines, msg.line)
		if r.vpReady {
			r.vp.SetContent(r.result.Output())
			r.vp.GotoBottom()
		}
		return r, listenStream(r.stream)
	case exitMsg:
		return r.handleExit(msg)
	case streamClosedMsg:
		return r, nil
	case tea.KeyMsg:
		return r.handleKey(msg)
	default:
		if r.vpReady {
			var cmd tea.Cmd
			r.vp, cmd = r.vp.Update(msg)
			return r, cmd
		}
		return r, nil
	}
}

func (r *Runner) handleExit(msg exitMsg) (tea.Model, tea.Cmd) {
	r.result.ExitCode = msg.code

	if msg.code == 0 {
		if r.opts.AutoClose {
			r.closeSequence()
			return r, tea.Quit
		}
		r.mode = modeDone
		r.notice = "finished"
		return r, listenStream(r.stream)
	}

	// A failed run never auto-closes and never chains: the output stays
	// inspectable until the user dismisses it.
	r.mode = modeFailed
	r.notice = fmt.Sprintf("command failed with exit code %d", msg.code)
	return r, listenStream(r.stream)
}

func (r *Runner) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+c is the hard exit. While the pipeline is still running it
	// kills the child; dismissal after exit has no process left to kill.
	// The close callback never fires on this path.
	if msg.Type == tea.KeyCtrlC {
		if r.mode == modeRunning {
			_ = r.proc.Kill()
			_ = r.ptmx.Close()
		}
		r.surface.Close()
		return r, tea.Quit
	}

	key := msg.String()
	switch r.mode {
	case modeRunning:
		// Keypress capture passes through to the viewport so the user
		// can scroll while the pipeline runs.
		if r.vpReady {
			var cmd tea.Cmd
			r.vp, cmd = r.vp.Update(msg)
			return r, cmd
		}
		return r, nil
	case modeDone:
		if r.keymap.IsAcknowledge(key) {
			r.closeSequence()
			if r.opts.ChainToUpdate {
				r.mode = modeConfirm
				r.confirm = NewSurface(ConfirmGeometry())
				r.confirm.Resize(r.surface.width, r.surface.height)
				return r, nil
			}
			return r, tea.Quit
		}
		return r, nil
	case modeFailed:
		if key == r.keymap.Dismiss {
			r.surface.Close()
			return r, tea.Quit
		}
		return r, nil
	case modeConfirm:
		if key == r.keymap.Yes {
			r.result.ChainAccepted = true
			r.confirm.Close()
			return r, tea.Quit
		}
		if r.keymap.IsNo(key) {
			r.notice = "canceled"
			r.confirm.Close()
			return r, tea.Quit
		}
		return r, nil
	default:
		return r, nil
	}
}

// closeSequence closes the surface and hands the final result to the
// close callback. It runs at most once and only ever after the exit
// message has been observed.
func (r *Runner) closeSequence() {
	if r.closed {
		return
	}
	r.closed = true
	r.surface.Close()
	if r.opts.OnClose != nil {
		r.opts.OnClose(r.result)
	}
}

func (r *Runner) layout() {
	rect := r.surface.Rect()
	frameW := r.styles.Box.GetHorizontalFrameSize()
	frameH := r.styles.Box.GetVerticalFrameSize()
	innerWidth := rect.Width - frameW
	if innerWidth < 1 {
		innerWidth = 1
	}
	// Title and footer each take one line inside the box.
	innerHeight := rect.Height - frameH - 2
	if innerHeight < 1 {
		innerHeight = 1
	}

	if !r.vpReady {
		r.vp = viewport.New(innerWidth, innerHeight)
		r.vp.SetContent(r.result.Output())
		r.vpReady = true
	} else {
		r.vp.Width = innerWidth
		r.vp.Height = innerHeight
	}
	r.vp.GotoBottom()
}

// View implements tea.Model.
func (r *Runner) View() string {
	if r.surface.width == 0 {
		return ""
	}

	if r.mode == modeConfirm {
		return r.viewConfirm()
	}
	if !r.surface.IsOpen() || !r.vpReady {
		return ""
	}

	rect := r.surface.Rect()
	frameW := r.styles.Box.GetHorizontalFrameSize()
	innerWidth := rect.Width - frameW
	if innerWidth < 1 {
		innerWidth = 1
	}

	title := r.opts.Tag
	if title == "" {
		title = "running"
	}
	title = fmt.Sprintf("%s: %s", title, r.opts.Command)
	header := r.styles.Title.Render(truncate(title, innerWidth))

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		r.vp.View(),
		r.footer(innerWidth),
	)
	box := r.styles.Box.Width(rect.Width - r.styles.Box.GetHorizontalBorderSize()).Render(content)
	return lipgloss.Place(r.surface.width, r.surface.height, lipgloss.Center, lipgloss.Center, box)
}

func (r *Runner) footer(width int) string {
	switch r.mode {
	case modeDone:
		return r.styles.Success.Render(truncate(fmt.Sprintf("%s  %s", r.notice, r.keymap.SuccessHint()), width))
	case modeFailed:
		return r.styles.Failure.Render(truncate(fmt.Sprintf("%s  %s", r.notice, r.keymap.FailureHint()), width))
	default:
		return r.styles.Faint.Render(truncate("running... [ctrl+c] abort", width))
	}
}

func (r *Runner) viewConfirm() string {
	rect := r.confirm.Rect()
	frameW := r.styles.Box.GetHorizontalFrameSize()
	innerWidth := rect.Width - frameW
	if innerWidth < 1 {
		innerWidth = 1
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		r.styles.Text.Width(innerWidth).Render("Run the update workflow now?"),
		r.styles.Prompt.Render("y/n: "),
	)
	box := r.styles.Box.Width(rect.Width - r.styles.Box.GetHorizontalBorderSize()).Render(content)
	return lipgloss.Place(r.confirm.width, r.confirm.height, lipgloss.Center, lipgloss.Center, box)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 3 {
		return truncateToWidth(s, width)
	}
	return truncateToWidth(s, width-3) + "..."
}

func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	current := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if current+rw > width {
			break
		}
		b.WriteRune(r)
		current += rw
	}
	return b.String()
}

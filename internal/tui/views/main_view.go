// Package views composes the browser panes into the main screen.
package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/artpar/doctester/internal/app"
	"github.com/artpar/doctester/internal/tester"
	"github.com/artpar/doctester/internal/tui"
	"github.com/artpar/doctester/internal/tui/components"
)

// Pane identifies the focused pane.
type Pane int

const (
	PaneHandlers Pane = iota
	PaneMethod
)

// TestResultMsg carries a settled test run.
type TestResultMsg struct {
	Result tester.Result
}

// LoginDoneMsg carries the outcome of the auto-login flow.
type LoginDoneMsg struct {
	Err error
}

type clearNotificationMsg struct{}

const notifyFor = 3 * time.Second

var keys = struct {
	Quit, Cycle, Run, Dismiss, Login, Copy key.Binding
}{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Cycle:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "pane")),
	Run:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run test")),
	Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hide result")),
	Login:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log in")),
	Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy body")),
}

// MainView shows the handler tree beside the visible method panel, with a
// status bar carrying the fragment and session state.
type MainView struct {
	ctx          context.Context
	session      *app.Session
	tree         *components.GroupTree
	panel        *components.MethodPanel
	focusedPane  Pane
	styles       tui.Styles
	width        int
	height       int
	notification string
	loggingIn    bool
	copy         func(string) error
}

// NewMainView creates the view for session, reflecting any state the page
// fragment restored.
func NewMainView(ctx context.Context, session *app.Session) *MainView {
	v := &MainView{
		ctx:     ctx,
		session: session,
		tree:    components.NewGroupTree(session.Page.Groups(), session.Navigator),
		panel:   components.NewMethodPanel(session.Page.Doc),
		styles:  tui.DefaultStyles(),
		copy:    clipboard.WriteAll,
	}
	v.tree.Focus()
	v.syncPanel()
	return v
}

// Init implements tui.Component.
func (v *MainView) Init() tea.Cmd { return nil }

// Update implements tui.Component.
func (v *MainView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.updatePaneSizes()
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case components.ExpandGroupMsg:
		v.session.Navigator.ExpandGroup(msg.Key)
		v.syncPanel()
		return v, nil

	case components.ShowPanelMsg:
		v.session.Navigator.ShowPanel(msg.PanelID)
		v.syncPanel()
		return v, nil

	case TestResultMsg:
		v.session.Runner.Render(msg.Result)
		v.panel.SetRunning(false)
		if msg.Result.Err != nil {
			return v, v.notify("✗ " + msg.Result.Err.Error())
		}
		return v, v.notify(fmt.Sprintf("%s %s → %s", msg.Result.Method, msg.Result.Handler, msg.Result.Status))

	case LoginDoneMsg:
		v.loggingIn = false
		if msg.Err != nil {
			return v, v.notify("✗ login: " + msg.Err.Error())
		}
		return v, v.notify("✓ login request completed")

	case clearNotificationMsg:
		v.notification = ""
		return v, nil
	}
	return v.forwardToFocusedPane(msg)
}

func (v *MainView) handleKeyMsg(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, keys.Cycle):
		if v.focusedPane == PaneHandlers {
			v.focusPane(PaneMethod)
		} else {
			v.focusPane(PaneHandlers)
		}
		return v, nil
	case key.Matches(msg, keys.Run):
		return v, v.runTest()
	case key.Matches(msg, keys.Dismiss):
		if m, ok := v.panel.Method(); ok {
			v.session.Page.Doc.Click(tester.ControlID(m.Handler, m.Method))
			v.panel.Refresh()
		}
		return v, nil
	case key.Matches(msg, keys.Login):
		return v, v.login()
	case key.Matches(msg, keys.Copy):
		return v, v.copyBody()
	}
	return v.forwardToFocusedPane(msg)
}

func (v *MainView) runTest() tea.Cmd {
	m, ok := v.panel.Method()
	if !ok {
		return v.notify("select a method first")
	}
	v.panel.SetRunning(true)
	runner, ctx := v.session.Runner, v.ctx
	return func() tea.Msg {
		return TestResultMsg{Result: runner.Run(ctx, m.Handler, m.Method)}
	}
}

func (v *MainView) login() tea.Cmd {
	if v.loggingIn {
		return nil
	}
	v.loggingIn = true
	flow, ctx := v.session.Login, v.ctx
	return func() tea.Msg {
		return LoginDoneMsg{Err: flow.Login(ctx, nil)}
	}
}

func (v *MainView) copyBody() tea.Cmd {
	body := v.panel.ResponseBody()
	if body == "" {
		return v.notify("nothing to copy")
	}
	if err := v.copy(body); err != nil {
		return v.notify("✗ Copy failed")
	}
	size := len(body)
	if size > 1024 {
		return v.notify(fmt.Sprintf("✓ Copied %.1fKB", float64(size)/1024))
	}
	return v.notify(fmt.Sprintf("✓ Copied %dB", size))
}

func (v *MainView) notify(text string) tea.Cmd {
	v.notification = text
	return tea.Tick(notifyFor, func(time.Time) tea.Msg {
		return clearNotificationMsg{}
	})
}

func (v *MainView) syncPanel() {
	if m, ok := v.session.Page.MethodByPanel(v.session.Navigator.Visible()); ok {
		v.panel.SetMethod(m)
	} else {
		v.panel.Clear()
	}
	v.tree.Sync()
}

func (v *MainView) forwardToFocusedPane(msg tea.Msg) (tui.Component, tea.Cmd) {
	var cmd tea.Cmd
	switch v.focusedPane {
	case PaneHandlers:
		_, cmd = v.tree.Update(msg)
	case PaneMethod:
		_, cmd = v.panel.Update(msg)
	}
	return v, cmd
}

func (v *MainView) focusPane(p Pane) {
	v.tree.Blur()
	v.panel.Blur()
	v.focusedPane = p
	switch p {
	case PaneHandlers:
		v.tree.Focus()
	case PaneMethod:
		v.panel.Focus()
	}
}

// FocusedPane returns the focused pane.
func (v *MainView) FocusedPane() Pane { return v.focusedPane }

// Notification returns the transient status message.
func (v *MainView) Notification() string { return v.notification }

func (v *MainView) updatePaneSizes() {
	if v.width == 0 || v.height == 0 {
		return
	}
	sidebar := min(max(v.width*30/100, 28), 60)
	body := max(v.height-2, 2)
	v.tree.SetSize(sidebar, body)
	v.panel.SetSize(v.width-sidebar, body)
}

// View implements tui.Component.
func (v *MainView) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}
	panes := lipgloss.JoinHorizontal(lipgloss.Top, v.tree.View(), v.panel.View())
	return lipgloss.JoinVertical(lipgloss.Left, panes, v.renderHelpBar(), v.renderStatusBar())
}

func (v *MainView) renderHelpBar() string {
	bindings := []key.Binding{keys.Run, keys.Dismiss, keys.Login, keys.Copy, keys.Cycle, keys.Quit}
	hints := make([]string, 0, len(bindings)+1)
	hints = append(hints, v.styles.Key.Render("enter")+" open")
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, v.styles.Key.Render(h.Key)+" "+h.Desc)
	}
	return strings.Join(hints, v.styles.Muted.Render(" │ "))
}

func (v *MainView) renderStatusBar() string {
	fragment := v.session.Page.Location.String()
	if fragment == "" {
		fragment = "#"
	}
	session := v.styles.Muted.Render("○ anonymous")
	if v.session.Probe.IsLoggedIn() {
		session = v.styles.Success.Render("● logged in")
	}
	parts := []string{v.session.Page.URL.String() + fragment, session}
	if v.loggingIn {
		parts = append(parts, "logging in...")
	}
	if v.notification != "" {
		parts = append(parts, v.notification)
	}
	return lipgloss.NewStyle().MaxWidth(v.width).Render(strings.Join(parts, "  "))
}

// Focused implements tui.Component.
func (v *MainView) Focused() bool { return true }

// Focus implements tui.Component.
func (v *MainView) Focus() {}

// Blur implements tui.Component.
func (v *MainView) Blur() {}

// SetSize implements tui.Component.
func (v *MainView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.updatePaneSizes()
}

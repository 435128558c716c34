package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/deptdesk/deptdesk/internal/notification"
)

// Feed defines the feed operations the inbox consumes.
type Feed interface {
	Refresh(ctx context.Context)
	Notifications() []notification.Notification
	UnreadCount() int
	MarkRead(ctx context.Context, id notification.ID) error
	MarkAllRead(ctx context.Context) error
}

// Session exposes the session reads the inbox header needs.
type Session interface {
	IsAuthenticated() bool
	UserLabel() string
}

const defaultRefreshInterval = 30 * time.Second

type refreshTickMsg time.Time

type refreshedMsg struct{}

type actionErrMsg struct{ err error }

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	MarkRead key.Binding
	MarkAll  key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.MarkRead, k.MarkAll, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		MarkRead: key.NewBinding(key.WithKeys("r", "enter"), key.WithHelp("r", "mark read")),
		MarkAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "mark all read")),
		Refresh:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	unreadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	readStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("12")).Foreground(lipgloss.Color("0"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the bubbletea model for the inbox view.
type Model struct {
	feed     Feed
	session  Session
	interval time.Duration

	items   []notification.Notification
	cursor  int
	width   int
	height  int
	loading bool
	lastErr error

	keys    keyMap
	help    help.Model
	spinner spinner.Model
}

// Option configures the inbox model.
type Option func(*Model)

// WithRefreshInterval overrides the background refresh interval.
func WithRefreshInterval(interval time.Duration) Option {
	return func(m *Model) {
		if interval > 0 {
			m.interval = interval
		}
	}
}

// NewModel creates the inbox model.
func NewModel(feed Feed, session Session, opts ...Option) Model {
	if feed == nil || session == nil {
		panic("NewModel: dependencies cannot be nil")
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		feed:     feed,
		session:  session,
		interval: defaultRefreshInterval,
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the spinner, the first refresh and the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd(), m.tickCmd())
}

func (m Model) refreshCmd() tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		feed.Refresh(context.Background())
		return refreshedMsg{}
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func (m Model) markReadCmd(id notification.ID) tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		if err := feed.MarkRead(context.Background(), id); err != nil {
			return actionErrMsg{err: err}
		}
		return refreshedMsg{}
	}
}

func (m Model) markAllCmd() tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		if err := feed.MarkAllRead(context.Background()); err != nil {
			return actionErrMsg{err: err}
		}
		return refreshedMsg{}
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.MarkRead):
			if n, ok := m.selected(); ok && n.Unread() {
				m.lastErr = nil
				return m, m.markReadCmd(n.ID)
			}
		case key.Matches(msg, m.keys.MarkAll):
			if len(m.items) > 0 {
				m.lastErr = nil
				return m, m.markAllCmd()
			}
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			m.lastErr = nil
			return m, m.refreshCmd()
		}

	case refreshTickMsg:
		if !m.session.IsAuthenticated() {
			return m, tea.Quit
		}
		m.loading = true
		return m, tea.Batch(m.refreshCmd(), m.tickCmd())

	case refreshedMsg:
		m.loading = false
		m.syncItems()

	case actionErrMsg:
		m.loading = false
		m.lastErr = msg.err
		m.syncItems()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// syncItems pulls the current feed snapshot and clamps the cursor.
func (m *Model) syncItems() {
	m.items = m.feed.Notifications()
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (notification.Notification, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return notification.Notification{}, false
	}
	return m.items[m.cursor], true
}

// View renders the inbox.
func (m Model) View() string {
	width := m.width
	if width == 0 {
		width = 80
	}
	height := m.height
	if height == 0 {
		height = 24
	}

	var s strings.Builder

	s.WriteString(m.renderHeader())
	s.WriteString("\n\n")

	if len(m.items) == 0 {
		s.WriteString(dimStyle.Render("No notifications"))
		s.WriteString("\n")
	} else {
		visible := height - 6
		if visible < 1 {
			visible = 1
		}
		for i, n := range m.items {
			if i >= visible {
				s.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more", len(m.items)-i)))
				s.WriteString("\n")
				break
			}
			s.WriteString(m.renderRow(n, i == m.cursor, width))
			s.WriteString("\n")
		}
	}

	if m.lastErr != nil {
		s.WriteString("\n")
		s.WriteString(errStyle.Render("error: " + m.lastErr.Error()))
	}

	s.WriteString("\n")
	s.WriteString(m.help.View(m.keys))

	return s.String()
}

func (m Model) renderHeader() string {
	title := fmt.Sprintf("DeptDesk Inbox — %s — %d unread", m.session.UserLabel(), m.feed.UnreadCount())
	if m.loading {
		title = m.spinner.View() + " " + title
	}
	return headerStyle.Render(title)
}

func (m Model) renderRow(n notification.Notification, selected bool, width int) string {
	marker := " "
	if n.Unread() {
		marker = "*"
	}
	label := n.Title
	if label == "" {
		label = n.Category
	}
	if label != "" {
		label = " [" + label + "]"
	}

	line := fmt.Sprintf("%s %s%s %s", marker, n.CreatedAt.Format("2006-01-02 15:04"), label, n.Message)
	if len(line) > width-2 {
		line = line[:width-5] + "..."
	}

	switch {
	case selected:
		return cursorStyle.Render(line)
	case n.Unread():
		return unreadStyle.Render(line)
	default:
		return readStyle.Render(line)
	}
}

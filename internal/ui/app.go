package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kestrad/roster/internal/prefs"
	"github.com/kestrad/roster/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewDetail
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Queries   *state.Queries
	List      *state.List
	Editor    *state.Editor
	APIAddr   string
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	queries   *state.Queries
	list      *state.List
	editor    *state.Editor
	apiAddr   string
	prefsPath string

	// UI state
	keys        keyMap
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	// Data state
	listSnap   state.ListSnapshot
	editorSnap state.EditorSnapshot

	// Browse state
	selectedRow  int
	searchActive bool
	searchInput  textinput.Model
	spin         spinner.Model
	pager        paginator.Model

	// Edit state
	focusIdx       int // 0 = full name, 1 = phone, 2+n = role n
	nameInput      textinput.Model
	phoneInput     textinput.Model
	detailViewport viewport.Model
	formSession    uint64 // editing session the form inputs were last seeded from

	// Help overlay
	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "Search name, username or email..."
	searchInput.CharLimit = 100
	searchInput.Width = 40

	nameInput := textinput.New()
	nameInput.Placeholder = "Full name"
	nameInput.CharLimit = 200
	nameInput.Width = 40

	phoneInput := textinput.New()
	phoneInput.Placeholder = "Phone number"
	phoneInput.CharLimit = 50
	phoneInput.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	pg := paginator.New()
	pg.Type = paginator.Dots

	m := Model{
		ctx:            ctx,
		queries:        opts.Queries,
		list:           opts.List,
		editor:         opts.Editor,
		apiAddr:        opts.APIAddr,
		prefsPath:      prefsPath,
		keys:           DefaultKeyMap(),
		theme:          GetTheme(opts.ThemeName),
		currentView:    ViewList,
		searchInput:    searchInput,
		nameInput:      nameInput,
		phoneInput:     phoneInput,
		detailViewport: viewport.New(0, 0),
		spin:           sp,
		pager:          pg,
	}
	m.applyThemeStyles()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(DefaultUIInterval),
		m.spin.Tick,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.refreshSnapshots()
		m.updateDetailViewport()
		return m, nil

	case tickMsg:
		// Periodic re-read keeps relative timestamps fresh and catches any
		// store change whose notification predates program start.
		m.refreshSnapshots()
		return m, tickCmd(DefaultUIInterval)

	case storesChangedMsg:
		m.refreshSnapshots()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show help overlay if active
	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle help overlay
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// While the search input is focused it owns the keyboard.
	if m.currentView == ViewList && m.searchActive {
		return m.handleSearchKey(msg)
	}

	// The edit view routes most keys into its form fields.
	if m.currentView == ViewDetail {
		return m.handleDetailKey(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.setTheme(NextTheme(m.theme.Name))
		return m, nil
	}

	return m.handleListKey(msg)
}

// handleListKey processes keyboard input for the user list view.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchActive = true
		m.searchInput.SetValue(m.listSnap.Query.Search)
		m.searchInput.CursorEnd()
		m.searchInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		// Back to the default query: first page, no search, active only.
		m.queries.Reset()
		return m, nil

	case key.Matches(msg, m.keys.ToggleInactive):
		include := !m.queries.Current().IncludeInactive
		m.queries.Patch(state.QueryPatch{IncludeInactive: &include})
		m.persistPrefs()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, loadListCmd(m.ctx, m.list)

	case key.Matches(msg, m.keys.NextPage):
		if m.listSnap.HasPage && m.listSnap.Page.HasNextPage {
			next := m.listSnap.Query.PageNumber + 1
			m.queries.Patch(state.QueryPatch{PageNumber: &next})
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if m.listSnap.Query.PageNumber > 1 {
			prev := m.listSnap.Query.PageNumber - 1
			m.queries.Patch(state.QueryPatch{PageNumber: &prev})
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if id := m.selectedUserID(); id != "" {
			m.currentView = ViewDetail
			return m, openUserCmd(m.ctx, m.editor, id)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if n := len(m.listSnap.Page.Items); n > 0 {
			m.selectedRow = n - 1
		}
		return m, nil
	}

	return m, nil
}

// handleSearchKey processes keyboard input while the search field is focused.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		term := m.searchInput.Value()
		m.searchActive = false
		m.searchInput.Blur()
		m.queries.Patch(state.QueryPatch{Search: &term})
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.searchActive = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleDetailKey processes keyboard input for the edit view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.editorSnap

	// Keys that apply regardless of which field is focused.
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		return m.closeDetail()

	case key.Matches(msg, m.keys.Save):
		if snap.Phase == state.PhaseReady {
			return m, saveUserCmd(m.ctx, m.editor)
		}
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.setDetailFocus(m.focusIdx + 1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.setDetailFocus(m.focusIdx - 1)
		return m, nil
	}

	// A focused text field consumes everything else while editable.
	if m.focusIdx <= 1 && snap.Phase == state.PhaseReady {
		var cmd tea.Cmd
		if m.focusIdx == 0 {
			m.nameInput, cmd = m.nameInput.Update(msg)
			m.editor.SetFullName(m.nameInput.Value())
		} else {
			m.phoneInput, cmd = m.phoneInput.Update(msg)
			m.editor.SetPhoneNumber(m.phoneInput.Value())
		}
		m.refreshSnapshots()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.setTheme(NextTheme(m.theme.Name))
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.setDetailFocus(m.focusIdx - 1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.setDetailFocus(m.focusIdx + 1)
		return m, nil

	case key.Matches(msg, m.keys.ToggleRole):
		if snap.Phase == state.PhaseReady && m.focusIdx >= 2 {
			i := m.focusIdx - 2
			if i < len(snap.Buffer.Roles) {
				m.editor.SetRole(i, !snap.Buffer.Roles[i].Enabled)
				m.refreshSnapshots()
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Activate):
		if snap.Phase == state.PhaseReady && snap.HasDetail && !snap.Detail.IsActive {
			return m, setActiveCmd(m.ctx, m.editor, true)
		}
		return m, nil

	case key.Matches(msg, m.keys.Deactivate):
		if snap.Phase == state.PhaseReady && snap.HasDetail && snap.Detail.IsActive {
			return m, setActiveCmd(m.ctx, m.editor, false)
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if snap.Phase == state.PhaseLoadFailed && snap.UserID != "" {
			return m, openUserCmd(m.ctx, m.editor, snap.UserID)
		}
		return m, nil
	}

	return m, nil
}

// closeDetail abandons the editing session and returns to the list. The page
// is reloaded because saves and toggles may have changed it.
func (m Model) closeDetail() (tea.Model, tea.Cmd) {
	m.editor.Close()
	m.currentView = ViewList
	m.nameInput.Blur()
	m.phoneInput.Blur()
	m.focusIdx = 0
	m.refreshSnapshots()
	return m, loadListCmd(m.ctx, m.list)
}

// refreshSnapshots re-reads both stores into the model.
func (m *Model) refreshSnapshots() {
	if m.list != nil {
		m.applyListSnapshot(m.list.Snapshot())
	}
	if m.editor != nil {
		m.applyEditorSnapshot(m.editor.Snapshot())
	}
}

// applyListSnapshot installs a new list snapshot, keeping the cursor on the
// same user when it is still present on the page.
func (m *Model) applyListSnapshot(snap state.ListSnapshot) {
	prevID := m.selectedUserID()
	m.listSnap = snap
	m.updatePager()
	m.restoreSelection(prevID)
}

// applyEditorSnapshot installs a new editor snapshot and keeps the form
// inputs in step with the draft buffer.
func (m *Model) applyEditorSnapshot(snap state.EditorSnapshot) {
	prevPhase := m.editorSnap.Phase
	m.editorSnap = snap

	if snap.Phase != state.PhaseReady {
		return
	}

	if snap.Session != m.formSession {
		// Fresh load: seed the form once per editing session.
		m.formSession = snap.Session
		m.nameInput.SetValue(snap.Buffer.FullName)
		m.phoneInput.SetValue(snap.Buffer.PhoneNumber)
		m.setDetailFocus(0)
		m.detailViewport.GotoTop()
		m.updateDetailViewport()
		return
	}

	if prevPhase == state.PhaseSaving && snap.LastError == nil {
		// A successful save normalizes whitespace; mirror that in the inputs.
		m.nameInput.SetValue(snap.Buffer.FullName)
		m.phoneInput.SetValue(snap.Buffer.PhoneNumber)
	}
	m.updateDetailViewport()
}

// setDetailFocus moves form focus, wrapping around both ends.
func (m *Model) setDetailFocus(idx int) {
	fieldCount := 2 + len(m.editorSnap.Buffer.Roles)
	if idx < 0 {
		idx = fieldCount - 1
	}
	if idx >= fieldCount {
		idx = 0
	}
	m.focusIdx = idx

	if idx == 0 {
		m.nameInput.Focus()
	} else {
		m.nameInput.Blur()
	}
	if idx == 1 {
		m.phoneInput.Focus()
	} else {
		m.phoneInput.Blur()
	}

	m.updateDetailViewport()
	m.scrollDetailToFocus()
}

// setTheme switches the active theme and persists the choice.
func (m *Model) setTheme(name string) {
	m.theme = GetTheme(name)
	m.applyThemeStyles()
	m.updateDetailViewport()
	m.persistPrefs()
}

// applyThemeStyles restyles the stateful widgets after a theme change.
func (m *Model) applyThemeStyles() {
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
	faint := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Faint))

	m.spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Info))
	m.pager.ActiveDot = accent.Render("•")
	m.pager.InactiveDot = faint.Render("•")
	m.searchInput.PromptStyle = accent
	m.nameInput.PromptStyle = accent
	m.phoneInput.PromptStyle = accent
}

// persistPrefs writes the current theme and filter preference to disk.
func (m Model) persistPrefs() {
	if m.prefsPath == "" || m.queries == nil {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{
		Theme:           m.theme.Name,
		IncludeInactive: m.queries.Current().IncludeInactive,
	})
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	// Main content
	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.renderList()
	case ViewDetail:
		return m.renderDetail()
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

// storesChangedMsg signals that a state store has published new data.
type storesChangedMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func loadListCmd(ctx context.Context, list *state.List) tea.Cmd {
	return func() tea.Msg {
		list.Load(ctx)
		return storesChangedMsg{}
	}
}

func openUserCmd(ctx context.Context, editor *state.Editor, id string) tea.Cmd {
	return func() tea.Msg {
		editor.Open(ctx, id)
		return storesChangedMsg{}
	}
}

func saveUserCmd(ctx context.Context, editor *state.Editor) tea.Cmd {
	return func() tea.Msg {
		// Busy refusals are silent; real failures land in the snapshot.
		_ = editor.Save(ctx)
		return storesChangedMsg{}
	}
}

func setActiveCmd(ctx context.Context, editor *state.Editor, active bool) tea.Cmd {
	return func() tea.Msg {
		_ = editor.SetActive(ctx, active)
		return storesChangedMsg{}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))

	// Send blocks until the program is running, and store callbacks can fire
	// from inside Update, so notifications go through a fresh goroutine.
	if opts.List != nil {
		opts.List.SetOnChange(func() {
			go p.Send(storesChangedMsg{})
		})
	}
	if opts.Editor != nil {
		opts.Editor.SetOnChange(func() {
			go p.Send(storesChangedMsg{})
		})
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		// Context cancellation (shutdown signal) is a normal exit.
		return nil
	}
	return err
}

package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tapedeck/internal/api"
	"github.com/desertthunder/tapedeck/internal/editor"
	"github.com/desertthunder/tapedeck/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	EditView ViewState = iota
	PromptView
	SearchView
)

// promptKind identifies which field a [PromptView] input writes to.
type promptKind int

const (
	promptTitle promptKind = iota
	promptIntro
	promptSubtitle1
	promptSubtitle2
	promptSubtitle3
	promptAnnotation
	promptSearch
)

// Model represents the editor TUI state.
type Model struct {
	ctx     context.Context
	view    ViewState
	session *editor.Session
	search  api.TrackSearchService

	width  int
	height int

	trackList  list.Model
	searchList list.Model
	input      textinput.Model
	prompt     promptKind
	promptPos  int

	status    string
	statusErr error
	saving    bool
	spin      spinner.Model
	exportURL string

	help help.Model
	keys keyMap
}

// NewModel creates a new editor model over an editing session.
func NewModel(ctx context.Context, session *editor.Session, search api.TrackSearchService) *Model {
	m := &Model{
		ctx:     ctx,
		view:    EditView,
		session: session,
		search:  search,
		help:    help.New(),
		keys:    newKeyMap(),
	}

	m.trackList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.trackList.Title = "Tracks"
	m.trackList.SetShowHelp(false)
	m.refreshTracks()

	m.input = textinput.New()
	m.input.CharLimit = 512

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot

	return m
}

// Init starts the session event pump.
func (m *Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.trackList.SetSize(msg.Width-4, msg.Height-12)
		m.searchList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case EditView:
			return m.handleEditKeys(msg)
		case PromptView:
			return m.handlePromptKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		}

	case statusEventMsg:
		ev := editor.Event(msg)
		m.status = ev.Status
		m.statusErr = ev.Err
		if ev.Phase == editor.PhaseSave {
			wasSaving := m.saving
			m.saving = ev.Status != ""
			if m.saving && !wasSaving {
				return m, tea.Batch(m.waitForEvent(), m.spin.Tick)
			}
		}
		return m, m.waitForEvent()

	case spinner.TickMsg:
		if !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case eventsClosedMsg:
		return m, nil

	case searchResultsMsg:
		if msg.err != nil {
			m.statusErr = msg.err
			m.status = "Search failed"
			m.view = EditView
			return m, nil
		}
		items := make([]list.Item, len(msg.results))
		for i, details := range msg.results {
			items[i] = resultItem{details: details}
		}
		m.searchList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
		m.searchList.Title = fmt.Sprintf("Results for '%s'", msg.query)
		m.searchList.SetShowHelp(false)
		m.view = SearchView
		return m, nil

	case historyDoneMsg:
		m.refreshTracks()
		return m, nil

	case claimDoneMsg:
		if msg.err != nil {
			var signIn *editor.SignInRequiredError
			if errors.As(msg.err, &signIn) {
				m.status = "Opening sign-in page..."
				if err := shared.OpenBrowser(signIn.URL); err != nil {
					m.status = "Sign in at: " + signIn.URL
				}
			} else {
				m.statusErr = msg.err
			}
		}
		return m, nil

	case exportDoneMsg:
		if msg.err == nil {
			m.exportURL = msg.url
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case EditView:
		return m.renderEdit()
	case PromptView:
		return m.renderPrompt()
	case SearchView:
		return m.renderSearch()
	default:
		return ""
	}
}

func (m *Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.session.Close()
		return m, tea.Quit
	case "t":
		return m.openPrompt(promptTitle, "Title", m.session.Form().Name), nil
	case "i":
		return m.openPrompt(promptIntro, "Intro text", m.session.Form().IntroText), nil
	case "1":
		return m.openPrompt(promptSubtitle1, "Subtitle 1", m.session.Form().Subtitle1), nil
	case "2":
		return m.openPrompt(promptSubtitle2, "Subtitle 2", m.session.Form().Subtitle2), nil
	case "3":
		return m.openPrompt(promptSubtitle3, "Subtitle 3", m.session.Form().Subtitle3), nil
	case "p":
		m.session.SetPublic(!m.session.Form().IsPublic)
		return m, nil
	case "a":
		return m.openPrompt(promptSearch, "Search the catalog", ""), nil
	case "e":
		if pos, ok := m.selectedPosition(); ok {
			current := ""
			for _, track := range m.session.TrackList() {
				if track.TrackPosition == pos && track.TrackText != nil {
					current = *track.TrackText
				}
			}
			model := m.openPrompt(promptAnnotation, "Annotation", current)
			m.promptPos = pos
			return model, nil
		}
		return m, nil
	case "x":
		if pos, ok := m.selectedPosition(); ok {
			if err := m.session.RemoveTrack(pos); err != nil {
				m.statusErr = err
			}
			m.refreshTracks()
		}
		return m, nil
	case "K", "shift+up":
		return m.moveSelected(-1), nil
	case "J", "shift+down":
		return m.moveSelected(1), nil
	case "z":
		return m, m.undoCmd()
	case "Z":
		return m, m.redoCmd()
	case "c":
		return m, m.claimCmd()
	case "E":
		return m, m.exportCmd()
	case "S":
		if err := m.session.CopyShareLink(); err == nil {
			m.status = "Share link copied"
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = EditView
		return m, nil
	case "enter":
		value := m.input.Value()
		m.view = EditView

		switch m.prompt {
		case promptTitle:
			m.session.SetName(value)
		case promptIntro:
			m.session.SetIntroText(value)
		case promptSubtitle1:
			m.session.SetSubtitle(1, value)
		case promptSubtitle2:
			m.session.SetSubtitle(2, value)
		case promptSubtitle3:
			m.session.SetSubtitle(3, value)
		case promptAnnotation:
			if err := m.session.EditTrackText(m.promptPos, value); err != nil {
				m.statusErr = err
			}
			m.refreshTracks()
		case promptSearch:
			if value != "" {
				return m, m.searchCmd(value)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.view = EditView
		return m, nil
	case "enter":
		if selected, ok := m.searchList.SelectedItem().(resultItem); ok {
			m.session.AddTrack(selected.details)
			m.refreshTracks()
			m.view = EditView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchList, cmd = m.searchList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case EditView:
		m.trackList, cmd = m.trackList.Update(msg)
	case SearchView:
		m.searchList, cmd = m.searchList.Update(msg)
	}
	return m, cmd
}

func (m *Model) openPrompt(kind promptKind, placeholder, value string) *Model {
	m.prompt = kind
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	m.view = PromptView
	return m
}

func (m *Model) selectedPosition() (int, bool) {
	if selected, ok := m.trackList.SelectedItem().(trackItem); ok {
		return selected.track.TrackPosition, true
	}
	return 0, false
}

func (m *Model) moveSelected(delta int) *Model {
	pos, ok := m.selectedPosition()
	if !ok {
		return m
	}

	if err := m.session.MoveTrack(pos, pos+delta); err == nil {
		m.refreshTracks()
		m.trackList.Select(pos + delta - 1)
	}
	return m
}

// refreshTracks rebuilds the list items from the session's current form.
func (m *Model) refreshTracks() {
	tracks := m.session.TrackList()
	items := make([]list.Item, len(tracks))
	for i, track := range tracks {
		items[i] = trackItem{track: track}
	}

	selected := m.trackList.Index()
	m.trackList.SetItems(items)
	if selected >= len(items) {
		selected = len(items) - 1
	}
	if selected >= 0 {
		m.trackList.Select(selected)
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.session.Events()
		if !ok {
			return eventsClosedMsg{}
		}
		return statusEventMsg(ev)
	}
}

func (m *Model) searchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := m.search.SearchTracks(m.ctx, query)
		return searchResultsMsg{query: query, results: results, err: err}
	}
}

func (m *Model) undoCmd() tea.Cmd {
	return func() tea.Msg {
		return historyDoneMsg{err: m.session.Undo(m.ctx)}
	}
}

func (m *Model) redoCmd() tea.Cmd {
	return func() tea.Msg {
		return historyDoneMsg{err: m.session.Redo(m.ctx)}
	}
}

func (m *Model) claimCmd() tea.Cmd {
	return func() tea.Msg {
		return claimDoneMsg{err: m.session.Claim(m.ctx)}
	}
}

func (m *Model) exportCmd() tea.Cmd {
	return func() tea.Msg {
		url, err := m.session.ExportToSpotify(m.ctx)
		return exportDoneMsg{url: url, err: err}
	}
}

func (m *Model) renderEdit() string {
	form := m.session.Form()
	mixtape := m.session.Mixtape()

	title := form.Name
	if title == "" {
		title = "Untitled Mixtape"
	}
	header := styles.title.Render(title)

	var subtitles string
	for _, line := range []string{form.Subtitle1, form.Subtitle2, form.Subtitle3} {
		if line != "" {
			subtitles += styles.help.Render(line) + "\n"
		}
	}

	intro := ""
	if form.IntroText != "" {
		intro = form.IntroText + "\n"
	}

	visibility := "private"
	if form.IsPublic {
		visibility = "public"
	}
	meta := fmt.Sprintf("v%d • %s", mixtape.Version, visibility)
	if m.session.Anonymous() {
		meta += " • " + styles.warn.Render("unclaimed (press c to claim)")
	}
	if m.exportURL != "" {
		meta += "\n" + styles.ok.Render("Spotify: "+m.exportURL)
	}

	helpKeys := []key.Binding{m.keys.add, m.keys.annotate, m.keys.undo, m.keys.redo, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s%s\n\n%s\n%s\n\n%s",
		header, subtitles, intro, meta, m.trackList.View(), m.toolbar(), helpView)
}

func (m *Model) renderPrompt() string {
	title := styles.title.Render(m.input.Placeholder)
	helpKeys := []key.Binding{m.keys.enter, m.keys.back}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.input.View(), helpView)
}

func (m *Model) renderSearch() string {
	addKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add to tape"))
	helpKeys := []key.Binding{addKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.searchList.View(), helpView)
}

// toolbar renders the transient status line: save state, history
// availability, and the most recent failure.
func (m *Model) toolbar() string {
	status := m.status
	if status == "" && m.saving {
		status = "Saving..."
	}
	if m.saving {
		status = m.spin.View() + status
	}

	history := ""
	if m.session.CanUndo() {
		history += " [z undo]"
	}
	if m.session.CanRedo() {
		history += " [Z redo]"
	}

	line := status + history
	if m.statusErr != nil {
		line += "  " + styles.err.Render(m.statusErr.Error())
	}
	if line == "" {
		line = styles.help.Render("all changes saved")
	}
	return line
}

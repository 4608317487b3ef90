package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytpm/internal/controller"
	"github.com/desertthunder/ytpm/internal/models"
	"github.com/desertthunder/ytpm/internal/shared"
)

// ProfileFunc loads the signed-in account for the header.
type ProfileFunc func(ctx context.Context) (models.Profile, error)

// Options configures a [Model].
type Options struct {
	Controller *controller.Controller
	Profile    ProfileFunc // optional
	Logger     *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	ctrl    *controller.Controller
	profile ProfileFunc
	logger  *log.Logger

	input   textinput.Model
	songs   list.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	// pending marks controls whose command has been dispatched but not settled, so a second
	// key press is dropped before the controller has even seen the first one.
	pending map[controller.Control]bool
	account string
	width   int
	height  int
}

// NewModel creates a new TUI model over opts.Controller.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	input := textinput.New()
	input.Placeholder = "Enter a song title"
	input.Prompt = "♪ "
	input.CharLimit = 200
	input.Focus()

	return &Model{
		ctx:     ctx,
		ctrl:    opts.Controller,
		profile: opts.Profile,
		logger:  shared.WithLogger(opts.Logger, "component", "tui"),
		input:   input,
		songs:   newSongList(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.warn)),
		help:    help.New(),
		keys:    newKeyMap(),
		pending: make(map[controller.Control]bool),
	}
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(ctx context.Context, m *Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Init mounts the playlist and starts the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.mount(), m.loadProfile(), m.spinner.Tick, textinput.Blink)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-20, 10)
		m.songs.SetSize(msg.Width-4, max(msg.Height-12, 3))
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case listedMsg:
		m.pending[controller.ControlRefresh] = false
		m.syncSongs()
		return m, nil

	case addedMsg:
		m.pending[controller.ControlAdd] = false
		if errors.Is(msg.err, shared.ErrBusy) {
			return m, nil
		}
		m.input.Reset()
		return m, m.relist()

	case clearedMsg:
		m.pending[controller.ControlClear] = false
		if msg.err != nil {
			return m, nil
		}
		return m, m.relist()

	case relistedMsg:
		m.syncSongs()
		return m, nil

	case signedInMsg:
		m.pending[controller.ControlSignIn] = false
		if msg.err != nil {
			return m, nil
		}
		return m, m.loadProfile()

	case profileMsg:
		if msg.err != nil {
			m.account = ""
			return m, nil
		}
		m.account = msg.profile.DisplayName()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.submit):
		title := m.input.Value()
		if m.busy(controller.ControlAdd) || strings.TrimSpace(title) == "" {
			return m, nil
		}
		m.pending[controller.ControlAdd] = true
		return m, m.addSong(title)

	case key.Matches(msg, m.keys.clear):
		if m.busy(controller.ControlClear) {
			return m, nil
		}
		m.pending[controller.ControlClear] = true
		return m, m.clearPlaylist()

	case key.Matches(msg, m.keys.refresh):
		if m.busy(controller.ControlRefresh) {
			return m, nil
		}
		m.pending[controller.ControlRefresh] = true
		return m, m.refresh()

	case key.Matches(msg, m.keys.signIn):
		if m.busy(controller.ControlSignIn) {
			return m, nil
		}
		m.pending[controller.ControlSignIn] = true
		return m, m.signIn()

	case key.Matches(msg, m.keys.dismiss):
		m.ctrl.DismissNotice()
		return m, nil

	case key.Matches(msg, m.keys.up, m.keys.down):
		var cmd tea.Cmd
		m.songs, cmd = m.songs.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) busy(c controller.Control) bool {
	return m.pending[c] || m.ctrl.Busy(c)
}

func (m *Model) syncSongs() {
	m.songs.SetItems(songItems(m.ctrl.Snapshot()))
}

func (m *Model) mount() tea.Cmd {
	return func() tea.Msg {
		return listedMsg{err: m.ctrl.Mount(m.ctx)}
	}
}

func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return listedMsg{err: m.ctrl.Refresh(m.ctx)}
	}
}

// addSong settles the add on its own; the list that follows is dispatched from Update.
func (m *Model) addSong(title string) tea.Cmd {
	return func() tea.Msg {
		return addedMsg{title: title, err: m.ctrl.SubmitSong(m.ctx, title)}
	}
}

func (m *Model) clearPlaylist() tea.Cmd {
	return func() tea.Msg {
		return clearedMsg{err: m.ctrl.SubmitClear(m.ctx)}
	}
}

func (m *Model) relist() tea.Cmd {
	return func() tea.Msg {
		return relistedMsg{err: m.ctrl.Relist(m.ctx)}
	}
}

func (m *Model) signIn() tea.Cmd {
	return func() tea.Msg {
		_, err := m.ctrl.SignIn(m.ctx)
		return signedInMsg{err: err}
	}
}

func (m *Model) loadProfile() tea.Cmd {
	if m.profile == nil {
		return nil
	}
	return func() tea.Msg {
		p, err := m.profile(m.ctx)
		if err != nil {
			m.logger.Debug("no profile", "error", err)
		}
		return profileMsg{profile: p, err: err}
	}
}

// View renders the playlist screen.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if notice := m.renderNotice(); notice != "" {
		b.WriteString(notice)
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderInput())
	b.WriteString("\n\n")

	if m.ctrl.Loading() {
		b.WriteString(fmt.Sprintf("%s Loading Playlist...\n", m.spinner.View()))
	} else if len(m.songs.Items()) == 0 {
		b.WriteString(styles.help.Render("No songs in playlist"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.songs.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) renderHeader() string {
	title := styles.title.Render("YouTube Playlist")
	if m.account == "" {
		return fmt.Sprintf("%s  %s", title, styles.help.Render("not signed in"))
	}
	return fmt.Sprintf("%s  %s", title, styles.ok.Render("signed in as "+m.account))
}

func (m *Model) renderNotice() string {
	if m.busy(controller.ControlSignIn) {
		return styles.warn.Render("Waiting for sign-in in your browser...")
	}

	notice := m.ctrl.Notice()
	switch notice.Kind {
	case controller.NoticeInfo:
		return styles.warn.Render(notice.Message) + "  " + styles.help.Render("(esc to dismiss)")
	case controller.NoticeError:
		return styles.err.Render(notice.Message) + "  " + styles.help.Render("(esc to dismiss)")
	}
	return ""
}

func (m *Model) renderInput() string {
	add := styles.button.Render("Add Song")
	if m.busy(controller.ControlAdd) {
		add = styles.busy.Render("Adding...")
	}

	clearBtn := styles.button.Render("Clear Playlist")
	if m.busy(controller.ControlClear) {
		clearBtn = styles.busy.Render("Clearing...")
	}

	return fmt.Sprintf("%s  %s  %s", m.input.View(), add, clearBtn)
}

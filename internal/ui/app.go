package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/giftlist/internal/dispatch"
	"github.com/five82/giftlist/internal/logtail"
	"github.com/five82/giftlist/internal/prefs"
	"github.com/five82/giftlist/internal/render"
	"github.com/five82/giftlist/internal/state"
	"github.com/five82/giftlist/internal/wishlist"
)

// View represents the current active view.
type View int

const (
	ViewWishlists View = iota
	ViewDiagnostics
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Client       wishlist.API
	Store        *state.Store
	Logger       logrus.FieldLogger
	LogPath      string
	ThemeName    string
	PrefsPath    string
	StrictDelete bool
	// RefreshInterval enables periodic refetching when positive.
	RefreshInterval time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	client       wishlist.API
	store        *state.Store
	log          logrus.FieldLogger
	logPath      string
	prefsPath    string
	strictDelete bool
	refresh      time.Duration
	keys         keyMap

	// Session, rebuilt on every reload
	role       wishlist.Role
	dispatcher *dispatch.Dispatcher
	viewState  *state.ViewState

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	modal       Modal

	// Data state
	snapshot state.Snapshot
	tree     render.Tree
	cursor   int
	selected target

	listViewport viewport.Model

	// Diagnostics state
	diagViewport viewport.Model
	diagEntries  []logtail.Entry
	diagErr      error

	// Status line
	notice    string
	actionErr error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}

	logger := opts.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	refresh := opts.RefreshInterval
	if refresh > 0 && refresh < MinRefreshInterval {
		refresh = MinRefreshInterval
	}

	m := Model{
		ctx:          ctx,
		client:       opts.Client,
		store:        store,
		log:          logger,
		logPath:      opts.LogPath,
		prefsPath:    prefsPath,
		strictDelete: opts.StrictDelete,
		refresh:      refresh,
		keys:         DefaultKeyMap(),
		theme:        GetTheme(themeName),
		currentView:  ViewWishlists,
		viewState:    state.NewViewState(),
	}
	m.startSession()
	return m
}

// startSession derives the role and capabilities once. It runs at startup
// and again after every role switch.
func (m *Model) startSession() {
	m.role = wishlist.RoleViewer
	if m.client != nil {
		m.role = m.client.Role()
	}
	m.dispatcher = dispatch.New(m.client, m.role.Capabilities(), m.log, dispatch.Options{StrictDelete: m.strictDelete})
}

func (m Model) caps() wishlist.Capabilities {
	return m.dispatcher.Capabilities()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchCmd(false)}
	if m.refresh > 0 {
		cmds = append(cmds, tickCmd(m.refresh))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.listViewport = viewport.New(msg.Width, m.contentHeight())
			m.diagViewport = viewport.New(msg.Width, m.contentHeight())
		}
		m.ready = true
		m.listViewport.Width = msg.Width
		m.listViewport.Height = m.contentHeight()
		m.diagViewport.Width = msg.Width
		m.diagViewport.Height = m.contentHeight()
		m.updateListViewport()
		m.updateDiagViewport()
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetchCmd(false), tickCmd(m.refresh))

	case fetchedMsg:
		m.handleFetched(msg)
		return m, nil

	case confirmMsg:
		return m, m.confirmCmd(msg)

	case formSubmitMsg:
		return m, m.submitFormCmd(msg)

	case mutationMsg:
		return m.handleMutation(msg)

	case roleSwitchedMsg:
		return m.handleRoleSwitched(msg)

	case diagnosticsMsg:
		m.diagEntries = msg.entries
		m.diagErr = msg.err
		m.updateDiagViewport()
		return m, nil

	case ThemeChangedMsg:
		m.theme = GetTheme(msg.Name)
		m.updateListViewport()
		m.updateDiagViewport()
		return m, nil
	}

	if m.modal != nil {
		var cmd tea.Cmd
		var closeModal bool
		m.modal, cmd, closeModal = m.modal.Update(msg, m.keys)
		if closeModal {
			m.modal = nil
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		var closeModal bool
		m.modal, cmd, closeModal = m.modal.Update(msg, m.keys)
		if closeModal {
			m.modal = nil
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.ToggleTheme):
		return m.toggleTheme(), nil

	case key.Matches(msg, m.keys.Diagnostics):
		m.currentView = ViewDiagnostics
		return m, m.diagnosticsCmd()

	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewWishlists
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.SwitchRole):
		return m, m.switchRoleCmd(m.role.Other())
	}

	switch m.currentView {
	case ViewDiagnostics:
		return m.handleDiagnosticsKey(msg)
	default:
		return m.handleWishlistKey(msg)
	}
}

func (m Model) toggleTheme() Model {
	next := prefs.Toggle(m.theme.Name)
	m.theme = GetTheme(next)
	if m.prefsPath != "" {
		if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: next}); err != nil {
			m.log.WithError(err).Warn("save theme preference")
		}
	}
	m.updateListViewport()
	m.updateDiagViewport()
	return m
}

// handleWishlistKey processes keyboard input for the wishlist view.
func (m Model) handleWishlistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	targets := buildTargets(m.tree)
	caps := m.caps()

	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetchCmd(false)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(targets, m.cursor+1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(targets, m.cursor-1)
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(targets, 0)
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(targets, len(targets)-1)

	case key.Matches(msg, m.keys.Expand):
		m.toggleExpanded(targets)

	case key.Matches(msg, m.keys.NewWishlist):
		if !caps.CanEdit {
			return m, nil
		}
		m.notice = ""
		m.modal = newWishlistForm()

	case key.Matches(msg, m.keys.AddItem):
		if !caps.CanAddItems || len(targets) == 0 {
			return m, nil
		}
		wl, ok := m.findWishlist(targets[m.cursor].wishlistID)
		if !ok {
			return m, nil
		}
		m.notice = ""
		m.modal = newItemForm(wl.ID, wl.Name)

	case key.Matches(msg, m.keys.TogglePurchase):
		if len(targets) == 0 || !targets[m.cursor].isItem() {
			return m, nil
		}
		item, _, ok := wishlist.FindItem(m.snapshot.Wishlists, targets[m.cursor].itemID)
		if !ok {
			return m, nil
		}
		intent, err := m.dispatcher.PrepareToggle(item)
		if err != nil {
			return m, nil
		}
		m.modal = newConfirmModal(intent)

	case key.Matches(msg, m.keys.Delete):
		if len(targets) == 0 {
			return m, nil
		}
		m.openDeleteConfirm(targets[m.cursor])
	}

	m.updateListViewport()
	return m, nil
}

func (m *Model) openDeleteConfirm(t target) {
	var (
		intent dispatch.Intent
		err    error
	)
	if t.isItem() {
		item, _, ok := wishlist.FindItem(m.snapshot.Wishlists, t.itemID)
		if !ok {
			return
		}
		intent, err = m.dispatcher.PrepareDeleteItem(item)
	} else {
		wl, ok := m.findWishlist(t.wishlistID)
		if !ok {
			return
		}
		intent, err = m.dispatcher.PrepareDeleteWishlist(wl)
	}
	if err != nil {
		return
	}
	m.notice = ""
	m.modal = newConfirmModal(intent)
}

func (m *Model) toggleExpanded(targets []target) {
	if len(targets) == 0 {
		return
	}
	t := targets[m.cursor]
	m.viewState.Toggle(t.wishlistID)
	m.tree = render.Render(m.snapshot.Wishlists, m.viewState, m.caps())
	// Collapsing from an item row moves the cursor to its card.
	m.selected = target{wishlistID: t.wishlistID}
	m.cursor = indexOf(buildTargets(m.tree), m.selected, 0)
}

func (m *Model) moveCursor(targets []target, idx int) {
	if len(targets) == 0 {
		m.cursor = 0
		m.selected = target{}
		return
	}
	m.cursor = clamp(idx, 0, len(targets)-1)
	m.selected = targets[m.cursor]
}

func (m Model) findWishlist(id int64) (wishlist.Wishlist, bool) {
	for _, wl := range m.snapshot.Wishlists {
		if wl.ID == id {
			return wl, true
		}
	}
	return wishlist.Wishlist{}, false
}

// handleFetched applies a fetch result unless a newer one already landed,
// then rebuilds the whole tree.
func (m *Model) handleFetched(msg fetchedMsg) {
	if !m.store.Apply(msg.gen, msg.lists, msg.err) {
		m.log.WithField("generation", msg.gen).Debug("discarded stale fetch")
		return
	}
	if msg.err != nil {
		m.log.WithError(msg.err).WithField("generation", msg.gen).Warn("fetch wishlists failed")
	}
	m.snapshot = m.store.Snapshot()
	m.rerender()
}

func (m *Model) rerender() {
	m.tree = render.Render(m.snapshot.Wishlists, m.viewState, m.caps())
	targets := buildTargets(m.tree)
	m.cursor = indexOf(targets, m.selected, m.cursor)
	if len(targets) > 0 {
		m.cursor = clamp(m.cursor, 0, len(targets)-1)
		m.selected = targets[m.cursor]
	} else {
		m.cursor = 0
	}
	m.updateListViewport()
}

func (m Model) handleMutation(msg mutationMsg) (tea.Model, tea.Cmd) {
	out := msg.outcome
	m.notice = out.Notice

	if msg.err != nil {
		var vErr *wishlist.ValidationError
		if f, ok := m.modal.(formModal); ok {
			if errors.As(msg.err, &vErr) {
				m.modal = f.withError(formatValidation(vErr))
			} else {
				m.modal = f.withError("Could not save; see diagnostics (L).")
			}
		}
		if !errors.Is(msg.err, dispatch.ErrConfirmationMismatch) && vErr == nil {
			m.actionErr = msg.err
		}
		return m, nil
	}
	m.actionErr = nil

	if out.ClearInputs {
		if _, ok := m.modal.(formModal); ok {
			m.modal = nil
		}
	}

	if out.Patch != nil {
		// Targeted update: only the one purchase control changes.
		m.store.PatchPurchased(out.Patch.ItemID, out.Patch.Result)
		m.snapshot = m.store.Snapshot()
		m.tree.PatchPurchased(out.Patch.ItemID, out.Patch.Result.Purchased)
		m.updateListViewport()
	}

	if out.Refetch {
		return m, m.fetchCmd(false)
	}
	return m, nil
}

func (m Model) handleRoleSwitched(msg roleSwitchedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.actionErr = msg.err
		return m, nil
	}
	if !msg.outcome.Reload {
		return m, nil
	}
	// Reload: fresh capabilities, collapsed cards, cache-busted fetch.
	m.store.Reset()
	m.viewState.Reset()
	m.snapshot = m.store.Snapshot()
	m.startSession()
	m.modal = nil
	m.notice = ""
	m.actionErr = nil
	m.cursor = 0
	m.selected = target{}
	m.rerender()
	return m, m.fetchCmd(true)
}

func formatValidation(err *wishlist.ValidationError) string {
	msg := err.Error()
	msg = strings.TrimPrefix(msg, "validation failed: ")
	if msg == "" {
		return "Please fill in the required fields."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())
	b.WriteString("\n")

	b.WriteString(m.renderStatusLine())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDiagnostics:
		return m.diagViewport.View()
	default:
		return m.listViewport.View()
	}
}

func (m Model) contentHeight() int {
	h := m.height - chromeLines
	if h < 1 {
		return 1
	}
	return h
}

// Messages

type tickMsg time.Time

type fetchedMsg struct {
	gen   uint64
	lists []wishlist.Wishlist
	err   error
}

type mutationMsg struct {
	outcome dispatch.Outcome
	err     error
}

type roleSwitchedMsg struct {
	outcome dispatch.Outcome
	err     error
}

type diagnosticsMsg struct {
	entries []logtail.Entry
	err     error
}

// ThemeChangedMsg applies a theme chosen by another running instance.
type ThemeChangedMsg struct {
	Name string
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchCmd reserves a generation now so that the order requests are issued
// in decides which response wins.
func (m Model) fetchCmd(fresh bool) tea.Cmd {
	if m.client == nil {
		return nil
	}
	gen := m.store.Begin()
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		var (
			lists []wishlist.Wishlist
			err   error
		)
		if fresh {
			lists, err = client.FetchAllFresh(ctx)
		} else {
			lists, err = client.FetchAll(ctx)
		}
		return fetchedMsg{gen: gen, lists: lists, err: err}
	}
}

func (m Model) confirmCmd(msg confirmMsg) tea.Cmd {
	d, ctx := m.dispatcher, m.ctx
	return func() tea.Msg {
		out, err := d.Confirm(ctx, msg.intent, msg.typed)
		return mutationMsg{outcome: out, err: err}
	}
}

func (m Model) submitFormCmd(msg formSubmitMsg) tea.Cmd {
	d, ctx := m.dispatcher, m.ctx
	return func() tea.Msg {
		var (
			out dispatch.Outcome
			err error
		)
		switch msg.kind {
		case formNewWishlist:
			out, err = d.CreateWishlist(ctx, msg.values[0], msg.values[1])
		case formAddItem:
			out, err = d.AddItem(ctx, msg.wishlistID, msg.values[0], msg.values[1])
		}
		return mutationMsg{outcome: out, err: err}
	}
}

func (m Model) switchRoleCmd(target wishlist.Role) tea.Cmd {
	d, ctx := m.dispatcher, m.ctx
	return func() tea.Msg {
		out, err := d.SwitchRole(ctx, target)
		return roleSwitchedMsg{outcome: out, err: err}
	}
}

func (m Model) diagnosticsCmd() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		if path == "" {
			return diagnosticsMsg{}
		}
		entries, err := logtail.ReadEntries(path, DiagnosticsTailLines)
		return diagnosticsMsg{entries: entries, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	_, err := NewProgram(opts).Run()
	return err
}

// NewProgram builds the program without starting it, so callers can Send
// external events into it.
func NewProgram(opts Options) *tea.Program {
	m := New(opts)
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
}

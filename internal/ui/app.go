// Package ui provides the Bubble Tea terminal interface for Filae.
package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ViniciusItoi/filae-mobile/internal/config"
	"github.com/ViniciusItoi/filae-mobile/internal/filae"
	"github.com/ViniciusItoi/filae-mobile/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewBrowse View = iota
	ViewMyQueues
	ViewTicket
	ViewRoster
)

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx             context.Context
	client          *filae.Client
	store           *state.Store
	actions         Actions
	cfg             config.Config
	configPath      string
	merchant        bool
	userName        string
	establishmentID int64
	myKick          func()
	rosterKick      func()
	watchTicket     func(int64) TicketWatch

	// UI state
	keys     keyMap
	theme    Theme
	styles   Styles
	width    int
	height   int
	ready    bool
	view     View
	showHelp bool
	status   statusLine

	// Store snapshots
	my     state.MyQueuesSnapshot
	roster state.RosterSnapshot
	ticket state.TicketSnapshot

	// Browse state
	establishments []filae.Establishment
	browseErr      error
	browseLoading  bool
	browseIndex    int
	searching      bool
	searchInput    textinput.Model
	favorites      map[int64]int64 // establishment id -> favorite id
	spin           spinner.Model

	// Join modal state
	joining    bool
	joinTarget filae.Establishment
	partyInput textinput.Model
	notesInput textinput.Model
	joinFocus  int

	// My-queues state
	historyTab bool
	queueIndex int

	// Ticket detail state
	watch        TicketWatch
	editing      bool
	editTicketID int64

	// Roster state
	rosterIndex int
}

// statusLine is a transient message shown in the footer.
type statusLine struct {
	text  string
	isErr bool
	until time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	search := textinput.New()
	search.Placeholder = "search establishments"
	search.CharLimit = 80

	party := textinput.New()
	party.Placeholder = "party size (1-20)"
	party.CharLimit = 2

	notes := textinput.New()
	notes.Placeholder = "notes (optional)"
	notes.CharLimit = filae.MaxNotesLen

	theme := GetTheme(opts.Config.Theme)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	kick := opts.MyQueuesKick
	if kick == nil {
		kick = func() {}
	}
	rosterKick := opts.RosterKick
	if rosterKick == nil {
		rosterKick = func() {}
	}

	return Model{
		ctx:             ctx,
		client:          opts.Client,
		store:           opts.Store,
		actions:         opts.Actions,
		cfg:             opts.Config,
		configPath:      opts.ConfigPath,
		merchant:        opts.Session.Merchant(),
		userName:        opts.Session.Name,
		establishmentID: opts.EstablishmentID,
		myKick:          kick,
		rosterKick:      rosterKick,
		watchTicket:     opts.WatchTicket,
		keys:            defaultKeyMap(),
		theme:           theme,
		styles:          theme.Styles(),
		view:            ViewBrowse,
		searchInput:     search,
		partyInput:      party,
		notesInput:      notes,
		favorites:       make(map[int64]int64),
		spin:            spin,
		browseLoading:   true,
	}
}

// Messages.

type storeMsg struct{}

type tickMsg time.Time

type establishmentsMsg struct {
	list []filae.Establishment
	err  error
}

type favoritesMsg struct {
	favorites map[int64]int64
	err       error
}

type actionMsg struct {
	info     string
	err      error
	ticket   *filae.Ticket
	goTicket bool
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.watchStoreCmd(),
		tickCmd(),
		m.spin.Tick,
		m.fetchEstablishmentsCmd(""),
		m.fetchFavoritesCmd(),
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
		return m, nil

	case storeMsg:
		m.readSnapshots()
		return m, m.watchStoreCmd()

	case tickMsg:
		// Snapshots carry timestamps rendered relatively; a slow tick
		// keeps them fresh even when nothing changes.
		if m.status.text != "" && time.Now().After(m.status.until) {
			m.status = statusLine{}
		}
		return m, tickCmd()

	case spinner.TickMsg:
		if !m.browseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case establishmentsMsg:
		m.browseLoading = false
		m.browseErr = msg.err
		if msg.err == nil {
			m.establishments = msg.list
			if m.browseIndex >= len(m.establishments) {
				m.browseIndex = 0
			}
		}
		return m, nil

	case favoritesMsg:
		if msg.err == nil {
			m.favorites = msg.favorites
		}
		return m, nil

	case actionMsg:
		return m.handleAction(msg)
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

	var body string
	switch m.view {
	case ViewBrowse:
		body = m.renderBrowse()
	case ViewMyQueues:
		body = m.renderMyQueues()
	case ViewTicket:
		body = m.renderTicket()
	case ViewRoster:
		body = m.renderRoster()
	}

	return m.renderHeader() + "\n" + body + "\n" + m.renderFooter()
}

// readSnapshots pulls fresh copies from the store.
func (m *Model) readSnapshots() {
	m.my = m.store.MyQueues()
	if m.merchant {
		m.roster = m.store.Roster()
	}
	m.ticket = m.store.Ticket()
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = statusLine{text: text, isErr: isErr, until: time.Now().Add(5 * time.Second)}
}

// handleAction folds a completed mutation back into the model.
func (m Model) handleAction(msg actionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		var aqErr *filae.AlreadyQueuedError
		if errors.As(msg.err, &aqErr) {
			// Not a failure: jump to the ticket the user already holds.
			m.setStatus("You already hold a ticket here", false)
			return m.openTicket(aqErr.Ticket.ID)
		}
		var apiErr *filae.APIError
		if errors.As(msg.err, &apiErr) && apiErr.Unauthorized() {
			m.setStatus("Session expired; restart with `filae login`", true)
			return m, nil
		}
		m.setStatus(msg.err.Error(), true)
		return m, nil
	}
	if msg.info != "" {
		m.setStatus(msg.info, false)
	}
	m.readSnapshots()
	if msg.goTicket && msg.ticket != nil {
		return m.openTicket(msg.ticket.ID)
	}
	return m, nil
}

// switchView changes the active view, kicking the matching poller so the
// screen opens against fresh data and stopping a ticket watch that is no
// longer visible.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	if m.view == ViewTicket && v != ViewTicket && m.watch != nil {
		m.watch.Stop()
		m.watch = nil
	}
	m.view = v
	switch v {
	case ViewMyQueues:
		m.myKick()
	case ViewRoster:
		m.rosterKick()
	}
	m.readSnapshots()
	return m, nil
}

// openTicket switches to the detail view for one ticket and starts its
// poller.
func (m Model) openTicket(ticketID int64) (tea.Model, tea.Cmd) {
	if m.watch != nil {
		m.watch.Stop()
		m.watch = nil
	}
	if m.watchTicket != nil {
		m.watch = m.watchTicket(ticketID)
		m.watch.Start(m.ctx)
	}
	m.view = ViewTicket
	m.readSnapshots()
	return m, nil
}

// Commands.

// watchStoreCmd blocks on the store's change signal and re-arms itself
// after every message.
func (m Model) watchStoreCmd() tea.Cmd {
	ch := m.store.Watch()
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
			return storeMsg{}
		}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchEstablishmentsCmd(search string) tea.Cmd {
	ctx := m.ctx
	client := m.client
	return func() tea.Msg {
		list, err := client.FetchEstablishments(ctx, filae.EstablishmentFilter{Search: search})
		return establishmentsMsg{list: list, err: err}
	}
}

func (m Model) fetchFavoritesCmd() tea.Cmd {
	ctx := m.ctx
	client := m.client
	return func() tea.Msg {
		favs, err := client.FetchFavorites(ctx)
		if err != nil {
			return favoritesMsg{err: err}
		}
		byEstablishment := make(map[int64]int64, len(favs))
		for _, f := range favs {
			byEstablishment[f.EstablishmentID] = f.ID
		}
		return favoritesMsg{favorites: byEstablishment}
	}
}

func (m Model) toggleFavoriteCmd(establishmentID int64) tea.Cmd {
	ctx := m.ctx
	client := m.client
	favoriteID, has := m.favorites[establishmentID]
	return func() tea.Msg {
		if has {
			if err := client.RemoveFavorite(ctx, favoriteID); err != nil {
				return actionMsg{err: err}
			}
		} else {
			if _, err := client.AddFavorite(ctx, establishmentID); err != nil {
				return actionMsg{err: err}
			}
		}
		favs, err := client.FetchFavorites(ctx)
		if err != nil {
			return favoritesMsg{err: err}
		}
		byEstablishment := make(map[int64]int64, len(favs))
		for _, f := range favs {
			byEstablishment[f.EstablishmentID] = f.ID
		}
		return favoritesMsg{favorites: byEstablishment}
	}
}

func (m Model) joinCmd(establishmentID int64, partySize int, notes string) tea.Cmd {
	ctx := m.ctx
	actions := m.actions
	return func() tea.Msg {
		ticket, err := actions.Join(ctx, establishmentID, partySize, notes)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{
			info:     "Joined queue, ticket " + ticket.TicketNumber,
			ticket:   &ticket,
			goTicket: true,
		}
	}
}

func (m Model) updateCmd(ticketID int64, partySize *int, notes *string) tea.Cmd {
	ctx := m.ctx
	actions := m.actions
	return func() tea.Msg {
		if _, err := actions.Update(ctx, ticketID, partySize, notes); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{info: "Ticket updated"}
	}
}

func (m Model) cancelCmd(ticketID int64) tea.Cmd {
	ctx := m.ctx
	actions := m.actions
	return func() tea.Msg {
		if err := actions.Cancel(ctx, ticketID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{info: "Ticket cancelled"}
	}
}

func (m Model) callNextCmd() tea.Cmd {
	ctx := m.ctx
	actions := m.actions
	establishmentID := m.establishmentID
	return func() tea.Msg {
		ticket, err := actions.CallNext(ctx, establishmentID)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{info: "Called " + ticket.UserName + " (ticket " + ticket.TicketNumber + ")"}
	}
}

func (m Model) finishCmd(ticketID int64) tea.Cmd {
	ctx := m.ctx
	actions := m.actions
	establishmentID := m.establishmentID
	return func() tea.Msg {
		if err := actions.Finish(ctx, ticketID, establishmentID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{info: "Ticket finished"}
	}
}

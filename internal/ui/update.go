package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ViniciusItoi/filae-mobile/internal/config"
	"github.com/ViniciusItoi/filae-mobile/internal/filae"
)

// handleKey routes keyboard input. Text-entry modes (search, join modal)
// capture keys before the global bindings.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.watch != nil {
			m.watch.Stop()
		}
		return m, tea.Quit
	}

	// Text-entry modes own the keyboard; only ctrl+c breaks out.
	if m.joining {
		return m.handleJoinKey(msg)
	}
	if m.editing {
		return m.handleEditKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	if key.Matches(msg, m.keys.Quit) {
		if m.watch != nil {
			m.watch.Stop()
		}
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.styles = m.theme.Styles()
		m.cfg.Theme = m.theme.Name
		if m.configPath != "" {
			// Persist the choice but keep going if the disk write fails.
			_ = config.Save(m.configPath, m.cfg)
		}
		return m, nil

	case key.Matches(msg, m.keys.ViewBrowse):
		return m.switchView(ViewBrowse)

	case key.Matches(msg, m.keys.ViewMyQueues):
		return m.switchView(ViewMyQueues)

	case key.Matches(msg, m.keys.ViewRoster):
		if !m.merchant {
			m.setStatus("Roster is only available on merchant accounts", true)
			return m, nil
		}
		return m.switchView(ViewRoster)

	case key.Matches(msg, m.keys.Refresh):
		switch m.view {
		case ViewBrowse:
			m.browseLoading = true
			return m, tea.Batch(m.spin.Tick, m.fetchEstablishmentsCmd(m.searchInput.Value()))
		case ViewRoster:
			m.rosterKick()
		default:
			m.myKick()
		}
		return m, nil
	}

	switch m.view {
	case ViewBrowse:
		return m.handleBrowseKey(msg)
	case ViewMyQueues:
		return m.handleMyQueuesKey(msg)
	case ViewTicket:
		return m.handleTicketKey(msg)
	case ViewRoster:
		return m.handleRosterKey(msg)
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.browseIndex > 0 {
			m.browseIndex--
		}
	case key.Matches(msg, m.keys.Down):
		if m.browseIndex < len(m.establishments)-1 {
			m.browseIndex++
		}
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Favorite):
		if est, ok := m.selectedEstablishment(); ok {
			return m, m.toggleFavoriteCmd(est.ID)
		}
	case key.Matches(msg, m.keys.Confirm):
		est, ok := m.selectedEstablishment()
		if !ok {
			return m, nil
		}
		// Holding a waiting ticket here short-circuits to its detail.
		if t, held := m.store.ActiveAt(est.ID); held {
			return m.openTicket(t.ID)
		}
		m.joining = true
		m.joinTarget = est
		m.joinFocus = 0
		m.partyInput.SetValue("")
		m.notesInput.SetValue("")
		m.partyInput.Focus()
		m.notesInput.Blur()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.searchInput.Blur()
		m.browseLoading = true
		m.browseIndex = 0
		return m, tea.Batch(m.spin.Tick, m.fetchEstablishmentsCmd(m.searchInput.Value()))
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleJoinKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.joining = false
		m.partyInput.Blur()
		m.notesInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.joinFocus = (m.joinFocus + 1) % 2
		if m.joinFocus == 0 {
			m.partyInput.Focus()
			m.notesInput.Blur()
		} else {
			m.partyInput.Blur()
			m.notesInput.Focus()
		}
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Confirm):
		size, err := strconv.Atoi(strings.TrimSpace(m.partyInput.Value()))
		if err != nil {
			m.setStatus("Party size must be a number", true)
			return m, nil
		}
		m.joining = false
		m.partyInput.Blur()
		m.notesInput.Blur()
		return m, m.joinCmd(m.joinTarget.ID, size, m.notesInput.Value())
	}

	var cmd tea.Cmd
	if m.joinFocus == 0 {
		m.partyInput, cmd = m.partyInput.Update(msg)
	} else {
		m.notesInput, cmd = m.notesInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleMyQueuesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tickets := m.currentQueueTab()
	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.historyTab = !m.historyTab
		m.queueIndex = 0
	case key.Matches(msg, m.keys.Up):
		if m.queueIndex > 0 {
			m.queueIndex--
		}
	case key.Matches(msg, m.keys.Down):
		if m.queueIndex < len(tickets)-1 {
			m.queueIndex++
		}
	case key.Matches(msg, m.keys.Confirm):
		if m.queueIndex < len(tickets) {
			return m.openTicket(tickets[m.queueIndex].ID)
		}
	case key.Matches(msg, m.keys.CancelTicket):
		if m.historyTab || m.queueIndex >= len(tickets) {
			return m, nil
		}
		t := tickets[m.queueIndex]
		if !t.Status.Active() {
			m.setStatus("Only waiting or called tickets can be cancelled", true)
			return m, nil
		}
		return m, m.cancelCmd(t.ID)
	}
	return m, nil
}

func (m Model) handleTicketKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		return m.switchView(ViewMyQueues)
	case key.Matches(msg, m.keys.CancelTicket):
		if m.ticket.HasTicket && m.ticket.Position.Ticket.Status.Active() {
			return m, m.cancelCmd(m.ticket.Position.Ticket.ID)
		}
	case key.Matches(msg, m.keys.EditTicket):
		if !m.ticket.HasTicket || m.ticket.Position.Ticket.Status != filae.StatusWaiting {
			m.setStatus("Only waiting tickets can be edited", true)
			return m, nil
		}
		t := m.ticket.Position.Ticket
		m.editing = true
		m.editTicketID = t.ID
		m.joinFocus = 0
		m.partyInput.SetValue(strconv.Itoa(t.PartySize))
		m.notesInput.SetValue(t.Notes)
		m.partyInput.Focus()
		m.notesInput.Blur()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.editing = false
		m.partyInput.Blur()
		m.notesInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.joinFocus = (m.joinFocus + 1) % 2
		if m.joinFocus == 0 {
			m.partyInput.Focus()
			m.notesInput.Blur()
		} else {
			m.partyInput.Blur()
			m.notesInput.Focus()
		}
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Confirm):
		size, err := strconv.Atoi(strings.TrimSpace(m.partyInput.Value()))
		if err != nil {
			m.setStatus("Party size must be a number", true)
			return m, nil
		}
		notes := m.notesInput.Value()
		m.editing = false
		m.partyInput.Blur()
		m.notesInput.Blur()
		return m, m.updateCmd(m.editTicketID, &size, &notes)
	}

	var cmd tea.Cmd
	if m.joinFocus == 0 {
		m.partyInput, cmd = m.partyInput.Update(msg)
	} else {
		m.notesInput, cmd = m.notesInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleRosterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.roster.Roster.Queues
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.rosterIndex > 0 {
			m.rosterIndex--
		}
	case key.Matches(msg, m.keys.Down):
		if m.rosterIndex < len(entries)-1 {
			m.rosterIndex++
		}
	case key.Matches(msg, m.keys.CallNext):
		return m, m.callNextCmd()
	case key.Matches(msg, m.keys.Finish):
		target, ok := rosterFinishTarget(entries, m.rosterIndex)
		if !ok {
			m.setStatus("No called ticket to finish", true)
			return m, nil
		}
		return m, m.finishCmd(target.ID)
	}
	return m, nil
}

// rosterFinishTarget picks the ticket a finish action applies to: the
// highlighted entry when it is CALLED, otherwise the first called ticket
// in server order.
func rosterFinishTarget(entries []filae.Ticket, index int) (filae.Ticket, bool) {
	if index >= 0 && index < len(entries) && entries[index].Status == filae.StatusCalled {
		return entries[index], true
	}
	called := ticketsWithStatus(entries, filae.StatusCalled)
	if len(called) == 0 {
		return filae.Ticket{}, false
	}
	return called[0], true
}

// ticketsWithStatus filters a roster's ticket list by status, preserving
// server order.
func ticketsWithStatus(tickets []filae.Ticket, status filae.TicketStatus) []filae.Ticket {
	var out []filae.Ticket
	for _, t := range tickets {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func (m Model) selectedEstablishment() (filae.Establishment, bool) {
	if m.browseIndex < 0 || m.browseIndex >= len(m.establishments) {
		return filae.Establishment{}, false
	}
	return m.establishments[m.browseIndex], true
}

func (m Model) currentQueueTab() []filae.Ticket {
	if m.historyTab {
		return m.my.View.HistoryQueues
	}
	return m.my.View.ActiveQueues
}

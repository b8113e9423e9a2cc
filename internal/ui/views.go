package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ViniciusItoi/filae-mobile/internal/filae"
)

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("Filae")

	var tabs []string
	type tab struct {
		label string
		view  View
	}
	items := []tab{
		{"[1] Browse", ViewBrowse},
		{"[2] My Queues", ViewMyQueues},
	}
	if m.merchant {
		items = append(items, tab{"[3] Roster", ViewRoster})
	}
	for _, it := range items {
		active := m.view == it.view || (it.view == ViewMyQueues && m.view == ViewTicket)
		if active {
			tabs = append(tabs, m.styles.TabActive.Render(it.label))
		} else {
			tabs = append(tabs, m.styles.TabIdle.Render(it.label))
		}
	}

	right := m.userName
	if m.my.IsOffline() {
		right = m.styles.Danger.Render("offline") + "  " + m.styles.Muted.Render(right)
	} else {
		right = m.styles.Muted.Render(right)
	}

	left := title + "  " + strings.Join(tabs, " ")
	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return m.styles.Header.Render(left + strings.Repeat(" ", pad) + right)
}

func (m Model) renderFooter() string {
	if m.status.text != "" {
		style := m.styles.Info
		if m.status.isErr {
			style = m.styles.Danger
		}
		return m.styles.Footer.Render(style.Render(m.status.text))
	}

	var hints []string
	switch m.view {
	case ViewBrowse:
		hints = []string{"enter join", "/ search", "f favorite", "j/k move"}
	case ViewMyQueues:
		hints = []string{"enter detail", "tab history", "c cancel", "j/k move"}
	case ViewTicket:
		hints = []string{"e edit", "c cancel", "esc back"}
	case ViewRoster:
		hints = []string{"n call next", "f finish", "j/k move"}
	}
	hints = append(hints, "R refresh", "? help", "q quit")
	return m.styles.Footer.Render(m.styles.Muted.Render(strings.Join(hints, "  ")))
}

func (m Model) renderBrowse() string {
	var b strings.Builder

	if m.searching {
		b.WriteString(m.styles.Accent.Render("Search: ") + m.searchInput.View() + "\n\n")
	} else if q := m.searchInput.Value(); q != "" {
		b.WriteString(m.styles.Muted.Render("Filter: "+q) + "\n\n")
	}

	if m.joining {
		return b.String() + m.renderJoinModal()
	}

	if m.browseLoading {
		b.WriteString(m.spin.View() + " Loading establishments...\n")
		return b.String()
	}
	if m.browseErr != nil {
		b.WriteString(m.styles.Danger.Render("Could not load establishments: "+m.browseErr.Error()) + "\n")
		b.WriteString(m.styles.Muted.Render("Press R to retry") + "\n")
		return b.String()
	}
	if len(m.establishments) == 0 {
		b.WriteString(m.styles.Muted.Render("No establishments found") + "\n")
		return b.String()
	}

	for i, est := range m.establishments {
		line := m.renderEstablishmentLine(est)
		if i == m.browseIndex {
			line = m.styles.Selection.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) renderEstablishmentLine(est filae.Establishment) string {
	name := est.Name
	if _, fav := m.favorites[est.ID]; fav {
		name = "★ " + name
	}
	badge := m.styles.Success.Render("open")
	if !est.IsAcceptingCustomers || !est.QueueEnabled {
		badge = m.styles.Danger.Render("closed")
	}
	meta := fmt.Sprintf("%s · %s · queue %d · ~%dm wait",
		est.Category, est.City, est.CurrentQueueSize, est.EstimatedWaitTime)
	return fmt.Sprintf("%-30s %s  %s", truncate(name, 30), badge, m.styles.Muted.Render(meta))
}

func (m Model) renderJoinModal() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Join "+m.joinTarget.Name) + "\n\n")
	b.WriteString("Party size: " + m.partyInput.View() + "\n")
	b.WriteString("Notes:      " + m.notesInput.View() + "\n\n")
	b.WriteString(m.styles.Muted.Render("tab switch field · enter join · esc cancel") + "\n")
	return m.styles.Panel.Render(b.String())
}

func (m Model) renderMyQueues() string {
	var b strings.Builder

	activeTab := m.styles.TabActive.Render(fmt.Sprintf(" Active (%d) ", len(m.my.View.ActiveQueues)))
	historyTab := m.styles.TabIdle.Render(fmt.Sprintf(" History (%d) ", len(m.my.View.HistoryQueues)))
	if m.historyTab {
		activeTab = m.styles.TabIdle.Render(fmt.Sprintf(" Active (%d) ", len(m.my.View.ActiveQueues)))
		historyTab = m.styles.TabActive.Render(fmt.Sprintf(" History (%d) ", len(m.my.View.HistoryQueues)))
	}
	b.WriteString(activeTab + historyTab + "\n\n")

	tickets := m.currentQueueTab()
	if len(tickets) == 0 {
		if m.historyTab {
			b.WriteString(m.styles.Muted.Render("No past queues") + "\n")
		} else {
			b.WriteString(m.styles.Muted.Render("You are not in any queue. Press 1 to browse establishments.") + "\n")
		}
		return b.String()
	}

	for i, t := range tickets {
		line := m.renderTicketLine(t)
		if i == m.queueIndex {
			line = m.styles.Selection.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	if !m.my.LastUpdated.IsZero() {
		b.WriteString("\n" + m.styles.Muted.Render("Updated "+relTime(m.my.LastUpdated)) + "\n")
	}
	return b.String()
}

func (m Model) renderTicketLine(t filae.Ticket) string {
	status := m.theme.StatusStyle(string(t.Status)).Render(string(t.Status))
	detail := fmt.Sprintf("#%s · party of %d", t.TicketNumber, t.PartySize)
	if t.Status == filae.StatusWaiting {
		detail += fmt.Sprintf(" · position %d", t.Position)
	}
	return fmt.Sprintf("%-28s %-10s %s", truncate(t.EstablishmentName, 28), status, m.styles.Muted.Render(detail))
}

func (m Model) renderTicket() string {
	var b strings.Builder

	if m.editing {
		b.WriteString(m.styles.Title.Render("Edit ticket") + "\n\n")
		b.WriteString("Party size: " + m.partyInput.View() + "\n")
		b.WriteString("Notes:      " + m.notesInput.View() + "\n\n")
		b.WriteString(m.styles.Muted.Render("tab switch field · enter save · esc cancel") + "\n")
		return m.styles.Panel.Render(b.String())
	}

	if !m.ticket.HasTicket {
		if m.ticket.LastError != nil {
			b.WriteString(m.styles.Danger.Render("Could not load ticket: "+m.ticket.LastError.Error()) + "\n")
		} else {
			b.WriteString(m.styles.Muted.Render("Loading ticket...") + "\n")
		}
		return b.String()
	}

	pos := m.ticket.Position
	t := pos.Ticket

	b.WriteString(m.styles.Title.Render(t.EstablishmentName) + "\n")
	b.WriteString(m.styles.Accent.Render("Ticket "+t.TicketNumber) + "  ")
	b.WriteString(m.theme.StatusStyle(string(t.Status)).Render(string(t.Status)) + "\n\n")

	switch t.Status {
	case filae.StatusWaiting:
		b.WriteString(fmt.Sprintf("Position:        %d\n", pos.Position))
		b.WriteString(fmt.Sprintf("People ahead:    %d\n", pos.TotalAhead))
		b.WriteString(fmt.Sprintf("Estimated wait:  %d min\n", pos.EstimatedWaitTime))
	case filae.StatusCalled:
		b.WriteString(m.styles.Success.Render("It's your turn! Head to the counter.") + "\n")
		if !t.ParsedCalledAt().IsZero() {
			b.WriteString(m.styles.Muted.Render("Called "+relTime(t.ParsedCalledAt())) + "\n")
		}
	case filae.StatusFinished:
		b.WriteString(m.styles.Muted.Render("This visit is finished.") + "\n")
	case filae.StatusCancelled:
		b.WriteString(m.styles.Muted.Render("This ticket was cancelled.") + "\n")
	}

	b.WriteString(fmt.Sprintf("\nParty size:      %d\n", t.PartySize))
	if t.Notes != "" {
		b.WriteString("Notes:           " + t.Notes + "\n")
	}
	if !t.ParsedJoinedAt().IsZero() {
		b.WriteString(m.styles.Muted.Render("Joined "+relTime(t.ParsedJoinedAt())) + "\n")
	}
	if !m.ticket.LastUpdated.IsZero() {
		b.WriteString(m.styles.Muted.Render("Updated "+relTime(m.ticket.LastUpdated)) + "\n")
	}
	return b.String()
}

func (m Model) renderRoster() string {
	var b strings.Builder

	if !m.roster.HasRoster {
		if m.roster.LastError != nil {
			b.WriteString(m.styles.Danger.Render("Could not load roster: "+m.roster.LastError.Error()) + "\n")
		} else {
			b.WriteString(m.styles.Muted.Render("Loading roster...") + "\n")
		}
		return b.String()
	}

	r := m.roster.Roster
	b.WriteString(m.styles.Title.Render(r.Establishment.Name) + "\n")
	// Counters come from the server as-is; the visible ticket list may be
	// a narrower window.
	summary := fmt.Sprintf("waiting %d · called %d · avg wait %dm",
		r.TotalWaiting, r.TotalCalled, r.AverageWaitTime)
	b.WriteString(m.styles.Muted.Render(summary) + "\n\n")

	if len(r.Queues) == 0 {
		b.WriteString(m.styles.Muted.Render("Queue is empty") + "\n")
		return b.String()
	}

	for i, t := range r.Queues {
		status := m.theme.StatusStyle(string(t.Status)).Render(string(t.Status))
		line := fmt.Sprintf("%-4s %-20s %-10s party %d · joined %s",
			"#"+t.TicketNumber, truncate(t.UserName, 20), status, t.PartySize, relTime(t.ParsedJoinedAt()))
		if i == m.rosterIndex {
			line = m.styles.Selection.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	if m.roster.IsOffline() {
		b.WriteString("\n" + m.styles.Danger.Render("Connection lost, showing last known roster") + "\n")
	} else if !m.roster.LastUpdated.IsZero() {
		b.WriteString("\n" + m.styles.Muted.Render("Updated "+relTime(m.roster.LastUpdated)) + "\n")
	}
	return b.String()
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Keys") + "\n\n")
	rows := [][2]string{
		{"1 / b", "browse establishments"},
		{"2 / m", "my queues"},
		{"3 / r", "roster (merchant)"},
		{"enter", "open / join"},
		{"tab", "switch tab or field"},
		{"/", "search"},
		{"f", "toggle favorite / finish ticket"},
		{"c", "cancel ticket"},
		{"e", "edit party size / notes"},
		{"n", "call next (merchant)"},
		{"R", "refresh now"},
		{"T", "cycle theme"},
		{"esc", "back"},
		{"q / ctrl+c", "quit"},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			m.styles.Accent.Render(fmt.Sprintf("%-12s", row[0])),
			m.styles.Text.Render(row[1])))
	}
	b.WriteString("\n" + m.styles.Muted.Render("Press any key to close") + "\n")
	return b.String()
}

// relTime renders a timestamp relative to now, coarsely.
func relTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

package filae

import (
	"time"
)

// TicketStatus enumerates the server-side states of a queue ticket.
type TicketStatus string

const (
	StatusWaiting   TicketStatus = "WAITING"
	StatusCalled    TicketStatus = "CALLED"
	StatusFinished  TicketStatus = "FINISHED"
	StatusCancelled TicketStatus = "CANCELLED"
)

// Active reports whether the ticket still occupies a place in a queue.
func (s TicketStatus) Active() bool {
	return s == StatusWaiting || s == StatusCalled
}

// Terminal reports whether the status can never change again.
func (s TicketStatus) Terminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// Known reports whether the status is one the client understands.
func (s TicketStatus) Known() bool {
	switch s {
	case StatusWaiting, StatusCalled, StatusFinished, StatusCancelled:
		return true
	}
	return false
}

// transitions lists the statuses reachable from each non-terminal status.
// The client never asserts a transition itself; this exists so the UI can
// flag a server payload that moved a ticket backwards.
var transitions = map[TicketStatus][]TicketStatus{
	StatusWaiting: {StatusCalled, StatusCancelled},
	StatusCalled:  {StatusFinished, StatusCancelled},
}

// ValidTransition reports whether the server may move a ticket from one
// status to another. Equal statuses are always valid (no-op poll).
func ValidTransition(from, to TicketStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Ticket is one customer's claim on a position in one establishment's queue.
// Position and EstimatedWaitTime are recomputed server-side on every fetch
// and are never derived locally.
type Ticket struct {
	ID                int64        `json:"id"`
	TicketNumber      string       `json:"ticketNumber"`
	EstablishmentID   int64        `json:"establishmentId"`
	EstablishmentName string       `json:"establishmentName"`
	UserID            int64        `json:"userId"`
	UserName          string       `json:"userName"`
	Status            TicketStatus `json:"status"`
	Position          int          `json:"position"`
	PartySize         int          `json:"partySize"`
	EstimatedWaitTime int          `json:"estimatedWaitTime"`
	JoinedAt          string       `json:"joinedAt"`
	CalledAt          string       `json:"calledAt,omitempty"`
	FinishedAt        string       `json:"finishedAt,omitempty"`
	CancelledAt       string       `json:"cancelledAt,omitempty"`
	Notes             string       `json:"notes,omitempty"`
}

// ParsedJoinedAt returns the JoinedAt timestamp as time.Time when possible.
func (t Ticket) ParsedJoinedAt() time.Time {
	return parseTime(t.JoinedAt)
}

// ParsedCalledAt returns the CalledAt timestamp as time.Time when possible.
func (t Ticket) ParsedCalledAt() time.Time {
	return parseTime(t.CalledAt)
}

// MyQueues is the canonical client-side shape of the my-queues endpoint:
// the caller's tickets partitioned into active and history by status.
type MyQueues struct {
	ActiveQueues  []Ticket `json:"activeQueues"`
	HistoryQueues []Ticket `json:"historyQueues"`
}

// EstablishmentRef identifies an establishment inside a roster payload.
type EstablishmentRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Roster is the merchant view of one establishment's queue. The aggregate
// counters are authoritative from the server and must not be recomputed from
// the ticket list; they may reflect windows the client does not see.
type Roster struct {
	Establishment   EstablishmentRef `json:"establishment"`
	Queues          []Ticket         `json:"queues"`
	TotalWaiting    int              `json:"totalWaiting"`
	TotalCalled     int              `json:"totalCalled"`
	AverageWaitTime int              `json:"averageWaitTime"`
}

// TicketPosition is the detail view of a single ticket. TotalAhead prefers
// the server-supplied value; FetchTicket fills it from Position-1 only when
// the server omits it.
type TicketPosition struct {
	Ticket            Ticket `json:"queue"`
	Position          int    `json:"position"`
	TotalAhead        int    `json:"totalAhead"`
	EstimatedWaitTime int    `json:"estimatedWaitTime"`
}

// JoinRequest is the body of a join call.
type JoinRequest struct {
	EstablishmentID int64  `json:"establishmentId"`
	PartySize       int    `json:"partySize"`
	Notes           string `json:"notes,omitempty"`
}

// UpdateRequest carries the mutable fields of a ticket. Nil means unchanged.
type UpdateRequest struct {
	PartySize *int    `json:"partySize,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// JoinResponse mirrors the join endpoint payload.
type JoinResponse struct {
	Ticket  Ticket `json:"queue"`
	Message string `json:"message"`
}

// CallNextResponse mirrors the call-next endpoint payload.
type CallNextResponse struct {
	CalledTicket Ticket `json:"calledQueue"`
	Message      string `json:"message"`
}

// MerchantStats aggregates queue counters across a merchant's establishments.
type MerchantStats struct {
	TotalWaiting    int `json:"totalWaiting"`
	TotalCalled     int `json:"totalCalled"`
	TotalFinished   int `json:"totalFinished"`
	TotalCancelled  int `json:"totalCancelled"`
	AverageWaitTime int `json:"averageWaitTime"`
}

// Establishment describes a place customers can queue at.
type Establishment struct {
	ID                   int64  `json:"id"`
	Name                 string `json:"name"`
	Description          string `json:"description"`
	Category             string `json:"category"`
	Address              string `json:"address"`
	City                 string `json:"city"`
	State                string `json:"state"`
	Phone                string `json:"phone"`
	IsAcceptingCustomers bool   `json:"isAcceptingCustomers"`
	QueueEnabled         bool   `json:"queueEnabled"`
	AverageServiceTime   int    `json:"averageServiceTime"`
	MaxCapacity          int    `json:"maxCapacity"`
	CurrentQueueSize     int    `json:"currentQueueSize"`
	EstimatedWaitTime    int    `json:"estimatedWaitTime"`
	MerchantID           int64  `json:"merchantId"`
	CreatedAt            string `json:"createdAt"`
	UpdatedAt            string `json:"updatedAt"`
}

// EstablishmentFilter narrows an establishment listing. Zero values are
// omitted from the query string.
type EstablishmentFilter struct {
	Search   string
	Category string
	City     string
	Page     int
	PageSize int
}

// Favorite links the signed-in user to an establishment.
type Favorite struct {
	ID              int64  `json:"id"`
	EstablishmentID int64  `json:"establishmentId"`
	CreatedAt       string `json:"createdAt"`
}

// LoginResponse mirrors the auth endpoint payload.
type LoginResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	UserID   int64  `json:"userId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

package filae

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// QueueAPI defines the gateway surface consumed by the sync subsystem.
// This interface is implemented by *Client and can be used for testing.
type QueueAPI interface {
	FetchMyQueues(ctx context.Context) (MyQueues, error)
	FetchTicket(ctx context.Context, id int64) (TicketPosition, error)
	Join(ctx context.Context, req JoinRequest) (JoinResponse, error)
	UpdateTicket(ctx context.Context, id int64, req UpdateRequest) (Ticket, error)
	Cancel(ctx context.Context, id int64) error
	FetchEstablishmentQueue(ctx context.Context, establishmentID int64) (Roster, error)
	CallNext(ctx context.Context, establishmentID int64) (CallNextResponse, error)
	Finish(ctx context.Context, id int64) error
	FetchMerchantAll(ctx context.Context) ([]Ticket, error)
	FetchMerchantActive(ctx context.Context) ([]Ticket, error)
	FetchMerchantStats(ctx context.Context) (MerchantStats, error)
}

// Ensure Client implements QueueAPI at compile time.
var _ QueueAPI = (*Client)(nil)

// Client talks to the Filae HTTP API. It is a stateless facade: one method
// per endpoint, no retries, no cache writes. Retry-by-polling is the
// caller's policy.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
}

const (
	defaultBaseURL   = "http://localhost:8080"
	defaultUserAgent = "filae/0.1"
	requestTimeout   = 30 * time.Second
)

// NewClient builds a Client for the given base URL. An empty token is
// valid for the unauthenticated endpoints (login, establishment browsing).
func NewClient(baseURL, token string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		token:     token,
	}, nil
}

// SetTimeout overrides the transport timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.http.Timeout = d
	}
}

// SetToken replaces the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login exchanges credentials for a session token. The token is not
// installed on the client; the caller decides whether to persist it.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	if c == nil {
		return LoginResponse{}, fmt.Errorf("client is nil")
	}
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}
	var payload LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &payload); err != nil {
		return LoginResponse{}, err
	}
	if payload.Token == "" {
		return LoginResponse{}, fmt.Errorf("login response missing token")
	}
	return payload, nil
}

// FetchMyQueues retrieves and normalizes the caller's active and history
// tickets. An unrecognized response shape degrades to an empty view and is
// logged; it is contract drift, not a user error.
func (c *Client) FetchMyQueues(ctx context.Context) (MyQueues, error) {
	if c == nil {
		return MyQueues{}, fmt.Errorf("client is nil")
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/queues/my-queues", nil, &raw); err != nil {
		return MyQueues{}, err
	}
	view, ok := NormalizeMyQueues(raw)
	if !ok {
		log.Printf("my-queues response shape not recognized; using empty view")
	}
	return view, nil
}

// FetchTicket retrieves one ticket with its position details. TotalAhead
// uses the server value when supplied and falls back to position-1.
func (c *Client) FetchTicket(ctx context.Context, id int64) (TicketPosition, error) {
	if c == nil {
		return TicketPosition{}, fmt.Errorf("client is nil")
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, ticketPath(id), nil, &raw); err != nil {
		return TicketPosition{}, err
	}
	var ticket Ticket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		return TicketPosition{}, fmt.Errorf("decode ticket: %w", err)
	}
	var extra struct {
		TotalAhead *int `json:"totalAhead"`
	}
	_ = json.Unmarshal(raw, &extra)

	pos := TicketPosition{
		Ticket:            ticket,
		Position:          ticket.Position,
		TotalAhead:        ticket.Position - 1,
		EstimatedWaitTime: ticket.EstimatedWaitTime,
	}
	if extra.TotalAhead != nil {
		pos.TotalAhead = *extra.TotalAhead
	}
	if pos.TotalAhead < 0 {
		pos.TotalAhead = 0
	}
	return pos, nil
}

// Join creates a ticket in an establishment's queue.
func (c *Client) Join(ctx context.Context, req JoinRequest) (JoinResponse, error) {
	if c == nil {
		return JoinResponse{}, fmt.Errorf("client is nil")
	}
	var payload JoinResponse
	if err := c.do(ctx, http.MethodPost, "/queues/join", req, &payload); err != nil {
		return JoinResponse{}, err
	}
	return payload, nil
}

// UpdateTicket changes a ticket's party size and/or notes.
func (c *Client) UpdateTicket(ctx context.Context, id int64, req UpdateRequest) (Ticket, error) {
	if c == nil {
		return Ticket{}, fmt.Errorf("client is nil")
	}
	var payload Ticket
	if err := c.do(ctx, http.MethodPut, ticketPath(id), req, &payload); err != nil {
		return Ticket{}, err
	}
	return payload, nil
}

// Cancel withdraws a ticket from its queue.
func (c *Client) Cancel(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPut, ticketPath(id)+"/cancel", nil, nil)
}

// FetchEstablishmentQueue retrieves the merchant roster for one
// establishment.
func (c *Client) FetchEstablishmentQueue(ctx context.Context, establishmentID int64) (Roster, error) {
	if c == nil {
		return Roster{}, fmt.Errorf("client is nil")
	}
	var payload Roster
	path := "/queues/establishment/" + strconv.FormatInt(establishmentID, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return Roster{}, err
	}
	return payload, nil
}

// CallNext asks the server to call the next waiting customer.
func (c *Client) CallNext(ctx context.Context, establishmentID int64) (CallNextResponse, error) {
	if c == nil {
		return CallNextResponse{}, fmt.Errorf("client is nil")
	}
	var payload CallNextResponse
	path := "/queues/establishment/" + strconv.FormatInt(establishmentID, 10) + "/call-next"
	if err := c.do(ctx, http.MethodPut, path, nil, &payload); err != nil {
		return CallNextResponse{}, err
	}
	return payload, nil
}

// Finish marks a called ticket as served.
func (c *Client) Finish(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPut, ticketPath(id)+"/finish", nil, nil)
}

// FetchMerchantAll retrieves every ticket across the merchant's
// establishments.
func (c *Client) FetchMerchantAll(ctx context.Context) ([]Ticket, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Ticket
	if err := c.do(ctx, http.MethodGet, "/queues/merchant/all", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchMerchantActive retrieves the merchant's waiting and called tickets.
func (c *Client) FetchMerchantActive(ctx context.Context) ([]Ticket, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Ticket
	if err := c.do(ctx, http.MethodGet, "/queues/merchant/active", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchMerchantStats retrieves aggregate counters for the merchant.
func (c *Client) FetchMerchantStats(ctx context.Context) (MerchantStats, error) {
	if c == nil {
		return MerchantStats{}, fmt.Errorf("client is nil")
	}
	var payload MerchantStats
	if err := c.do(ctx, http.MethodGet, "/queues/merchant/stats", nil, &payload); err != nil {
		return MerchantStats{}, err
	}
	return payload, nil
}

// FetchEstablishments lists establishments matching the filter.
func (c *Client) FetchEstablishments(ctx context.Context, filter EstablishmentFilter) ([]Establishment, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if s := strings.TrimSpace(filter.Search); s != "" {
		values.Set("search", s)
	}
	if s := strings.TrimSpace(filter.Category); s != "" {
		values.Set("category", s)
	}
	if s := strings.TrimSpace(filter.City); s != "" {
		values.Set("city", s)
	}
	if filter.Page > 0 {
		values.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(filter.PageSize))
	}
	rel := &url.URL{Path: "/establishments", RawQuery: values.Encode()}
	var payload []Establishment
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchEstablishment retrieves one establishment by id.
func (c *Client) FetchEstablishment(ctx context.Context, id int64) (Establishment, error) {
	if c == nil {
		return Establishment{}, fmt.Errorf("client is nil")
	}
	var payload Establishment
	path := "/establishments/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return Establishment{}, err
	}
	return payload, nil
}

// FetchFavorites lists the signed-in user's favorite establishments.
func (c *Client) FetchFavorites(ctx context.Context) ([]Favorite, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Favorite
	if err := c.do(ctx, http.MethodGet, "/favorites", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CheckFavorite reports whether an establishment is favorited and, if so,
// the favorite's id for removal.
func (c *Client) CheckFavorite(ctx context.Context, establishmentID int64) (bool, int64, error) {
	if c == nil {
		return false, 0, fmt.Errorf("client is nil")
	}
	var payload struct {
		IsFavorited bool  `json:"isFavorited"`
		FavoriteID  int64 `json:"favoriteId"`
	}
	path := "/favorites/check/" + strconv.FormatInt(establishmentID, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return false, 0, err
	}
	return payload.IsFavorited, payload.FavoriteID, nil
}

// AddFavorite favorites an establishment.
func (c *Client) AddFavorite(ctx context.Context, establishmentID int64) (Favorite, error) {
	if c == nil {
		return Favorite{}, fmt.Errorf("client is nil")
	}
	body := struct {
		EstablishmentID int64 `json:"establishmentId"`
	}{EstablishmentID: establishmentID}
	var payload struct {
		Favorite Favorite `json:"favorite"`
	}
	if err := c.do(ctx, http.MethodPost, "/favorites", body, &payload); err != nil {
		return Favorite{}, err
	}
	return payload.Favorite, nil
}

// RemoveFavorite deletes a favorite by its own id (not the establishment's).
func (c *Client) RemoveFavorite(ctx context.Context, favoriteID int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	path := "/favorites/" + strconv.FormatInt(favoriteID, 10)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func ticketPath(id int64) string {
	return "/queues/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(rel.Path, resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError turns a non-2xx response into an *APIError when the body
// carries the standard error envelope, or a plain error otherwise.
func decodeAPIError(path string, resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(bytes.TrimSpace(data)) > 0 {
		var apiErr APIError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			if apiErr.Status == 0 {
				apiErr.Status = resp.StatusCode
			}
			return &apiErr
		}
	}
	return &APIError{
		Message: fmt.Sprintf("api %s failed", path),
		Status:  resp.StatusCode,
	}
}

func parseBaseURL(baseURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base_url %q: %w", baseURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

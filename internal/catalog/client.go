package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service is the catalog API surface the UI depends on. *Client implements
// it; tests substitute catalogtest.Fake.
type Service interface {
	TopFilms(ctx context.Context, limit int) ([]FilmSummary, error)
	TopActors(ctx context.Context, limit int) ([]ActorSummary, error)
	Film(ctx context.Context, id int64) (*Film, error)
	Actor(ctx context.Context, id int64) (*Actor, error)
	SearchFilms(ctx context.Context, query string, by SearchType) ([]FilmSummary, error)
	RecentFilms(ctx context.Context, limit int) ([]FilmSummary, error)
	FilmInventory(ctx context.Context, filmID int64) (Inventory, error)
	RentFilm(ctx context.Context, filmID, customerID int64) (RentalReceipt, error)
	ReturnFilm(ctx context.Context, rentalID int64) error

	Customers(ctx context.Context, query CustomerQuery) (CustomerPage, error)
	Customer(ctx context.Context, id int64) (*Customer, error)
	CreateCustomer(ctx context.Context, in CustomerInput) error
	UpdateCustomer(ctx context.Context, id int64, in CustomerInput) error
	DeleteCustomer(ctx context.Context, id int64) error
	Countries(ctx context.Context) ([]Country, error)
	CustomerRentals(ctx context.Context, id int64) (RentalCheck, error)
	RentalHistory(ctx context.Context, id int64) ([]Rental, error)
}

// Observer is told about the outcome of every request.
type Observer interface {
	Observe(err error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the catalog REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *zap.Logger
	observer  Observer
}

const (
	defaultAPIURL    = "http://localhost:4001/api"
	defaultUserAgent = "rentdesk/0.1"
)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers an observer for request outcomes.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient builds a Client for the API rooted at apiURL (for example
// http://localhost:4001/api).
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// TopFilms returns the most rented films.
func (c *Client) TopFilms(ctx context.Context, limit int) ([]FilmSummary, error) {
	var films []FilmSummary
	if err := c.get(ctx, "/films/top", limitQuery(limit), &films); err != nil {
		return nil, err
	}
	return films, nil
}

// TopActors returns the actors appearing in the most films.
func (c *Client) TopActors(ctx context.Context, limit int) ([]ActorSummary, error) {
	var actors []ActorSummary
	if err := c.get(ctx, "/actors/top", limitQuery(limit), &actors); err != nil {
		return nil, err
	}
	return actors, nil
}

// Film returns film details including the cast. A nil film with a nil error
// means the API had no such film.
func (c *Client) Film(ctx context.Context, id int64) (*Film, error) {
	var film *Film
	if err := c.get(ctx, "/films/"+formatID(id), nil, &film); err != nil {
		return nil, err
	}
	return film, nil
}

// Actor returns actor details with up to MaxActorFilms films.
func (c *Client) Actor(ctx context.Context, id int64) (*Actor, error) {
	var actor *Actor
	if err := c.get(ctx, "/actors/"+formatID(id), nil, &actor); err != nil {
		return nil, err
	}
	if actor != nil {
		actor.normalize()
	}
	return actor, nil
}

// SearchFilms searches by title, actor name or genre.
func (c *Client) SearchFilms(ctx context.Context, query string, by SearchType) ([]FilmSummary, error) {
	values := url.Values{}
	values.Set("query", strings.TrimSpace(query))
	values.Set("type", string(ParseSearchType(string(by))))
	var films []FilmSummary
	if err := c.get(ctx, "/films/search", values, &films); err != nil {
		return nil, err
	}
	return films, nil
}

// RecentFilms returns the most recently released films.
func (c *Client) RecentFilms(ctx context.Context, limit int) ([]FilmSummary, error) {
	var films []FilmSummary
	if err := c.get(ctx, "/films/recent", limitQuery(limit), &films); err != nil {
		return nil, err
	}
	return films, nil
}

// FilmInventory reports whether a copy of the film is free to rent.
func (c *Client) FilmInventory(ctx context.Context, filmID int64) (Inventory, error) {
	var inv Inventory
	if err := c.get(ctx, "/films/"+formatID(filmID)+"/inventory", nil, &inv); err != nil {
		return Inventory{}, err
	}
	return inv, nil
}

// RentFilm rents a free copy of the film to the customer.
func (c *Client) RentFilm(ctx context.Context, filmID, customerID int64) (RentalReceipt, error) {
	if customerID <= 0 {
		return RentalReceipt{}, fmt.Errorf("customer id required")
	}
	body := map[string]int64{"customer_id": customerID}
	var receipt RentalReceipt
	if err := c.do(ctx, http.MethodPost, "/films/"+formatID(filmID)+"/rent", nil, body, &receipt); err != nil {
		return RentalReceipt{}, err
	}
	return receipt, nil
}

// ReturnFilm records the return of a rental.
func (c *Client) ReturnFilm(ctx context.Context, rentalID int64) error {
	return c.do(ctx, http.MethodPut, "/films/rentals/"+formatID(rentalID)+"/return", nil, nil, nil)
}

// Customers returns one page of customers, optionally filtered.
func (c *Client) Customers(ctx context.Context, query CustomerQuery) (CustomerPage, error) {
	values := url.Values{}
	page := query.Page
	if page < 1 {
		page = 1
	}
	values.Set("page", strconv.Itoa(page))
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	values.Set("search", strings.TrimSpace(query.Search))

	var payload CustomerPage
	if err := c.get(ctx, "/customers", values, &payload); err != nil {
		return CustomerPage{}, err
	}
	return payload, nil
}

// Customer returns a single customer; nil when the API has none.
func (c *Client) Customer(ctx context.Context, id int64) (*Customer, error) {
	var customer *Customer
	if err := c.get(ctx, "/customers/"+formatID(id), nil, &customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// CreateCustomer creates a customer.
func (c *Client) CreateCustomer(ctx context.Context, in CustomerInput) error {
	return c.do(ctx, http.MethodPost, "/customers", nil, in, nil)
}

// UpdateCustomer replaces a customer's editable fields.
func (c *Client) UpdateCustomer(ctx context.Context, id int64, in CustomerInput) error {
	return c.do(ctx, http.MethodPut, "/customers/"+formatID(id), nil, in, nil)
}

// DeleteCustomer deletes a customer. The server rejects customers with
// active rentals.
func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/customers/"+formatID(id), nil, nil, nil)
}

// Countries returns the country options for customer forms.
func (c *Client) Countries(ctx context.Context) ([]Country, error) {
	var countries []Country
	if err := c.get(ctx, "/customers/countries", nil, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

// CustomerRentals reports the customer's active rentals.
func (c *Client) CustomerRentals(ctx context.Context, id int64) (RentalCheck, error) {
	var check RentalCheck
	if err := c.get(ctx, "/customers/"+formatID(id)+"/rentals", nil, &check); err != nil {
		return RentalCheck{}, err
	}
	return check, nil
}

// RentalHistory returns every rental of the customer.
func (c *Client) RentalHistory(ctx context.Context, id int64) ([]Rental, error) {
	var history []Rental
	if err := c.get(ctx, "/customers/"+formatID(id)+"/rental-history", nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// Ping issues the cheapest read the API offers.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/films/top", limitQuery(1), nil)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, dest)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) (err error) {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	requestID := uuid.NewString()
	started := time.Now()
	defer func() {
		c.record(method, path, requestID, started, err)
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path, query), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &Error{Method: method, Path: path, Message: ctxErr.Error(), Err: err}
		}
		return Unreachable(method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &Error{Method: method, Path: path, Status: resp.StatusCode, Message: ctxErr.Error(), Err: err}
		}
		return Unreachable(method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: statusMessage(resp.StatusCode, raw),
		}
	}

	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return decodeError(method, path, resp.StatusCode, err)
	}
	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return decodeError(method, path, resp.StatusCode, err)
	}
	return nil
}

func (c *Client) record(method, path, requestID string, started time.Time, err error) {
	if c.observer != nil {
		c.observer.Observe(err)
	}
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(started)),
	}
	if err == nil {
		c.logger.Debug("api request", fields...)
		return
	}
	if apiErr, ok := err.(*Error); ok {
		fields = append(fields, zap.Int("status", apiErr.Status))
		if apiErr.Err != nil {
			fields = append(fields, zap.NamedError("cause", apiErr.Err))
		}
		if apiErr.Transport() {
			c.logger.Error("api unreachable", append(fields, zap.Error(err))...)
			return
		}
	}
	c.logger.Warn("api request failed", append(fields, zap.Error(err))...)
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func decodeError(method, path string, status int, err error) *Error {
	return &Error{
		Method:  method,
		Path:    path,
		Status:  status,
		Message: fmt.Sprintf("decode response: %v", err),
		Err:     err,
	}
}

func envelopeError(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return strings.TrimSpace(env.Error)
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": []string{strconv.Itoa(limit)}}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

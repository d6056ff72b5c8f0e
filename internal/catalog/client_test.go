package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu   sync.Mutex
	errs []error
}

func (o *recordingObserver) Observe(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errs = append(o.errs, err)
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	require.NoError(t, err)
	require.Equal(t, "http", u.Scheme)
	require.Equal(t, "localhost:4001", u.Host)
	require.Equal(t, "/api", u.Path)

	u, err = parseBaseURL("example.com:1234/api/?x=1#frag")
	require.NoError(t, err)
	require.Equal(t, "http://example.com:1234/api", u.String())

	_, err = parseBaseURL("http://")
	require.Error(t, err)
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	seen := map[string]*http.Request{}
	bodies := map[string]string{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen[r.Method+" "+r.URL.Path] = r
		bodies[r.Method+" "+r.URL.Path] = string(body)
		mu.Unlock()

		switch r.Method + " " + r.URL.Path {
		case "GET /api/films/top":
			writeData(w, []FilmSummary{{ID: 1, Title: "ACADEMY DINOSAUR", RentalCount: 34}})
		case "GET /api/actors/top":
			writeData(w, []ActorSummary{{ID: 107, Name: "GINA DEGENERES", FilmCount: 42}})
		case "GET /api/films/7":
			writeData(w, map[string]any{
				"id": 7, "title": "AIRPLANE SIERRA", "length": 62,
				"rentalRate": "4.99", "replacementCost": 28.99,
				"actors": []map[string]any{{"id": 3, "name": "ED CHASE"}},
			})
		case "GET /api/actors/3":
			films := make([]map[string]any, 7)
			for i := range films {
				films[i] = map[string]any{"id": i + 1, "title": "F"}
			}
			writeData(w, map[string]any{"id": 3, "first_name": "ED", "last_name": "CHASE", "films": films})
		case "GET /api/films/search", "GET /api/films/recent":
			writeData(w, []FilmSummary{{ID: 2, Title: "ACE GOLDFINGER", Genre: "Horror"}})
		case "GET /api/films/7/inventory":
			writeData(w, Inventory{Available: true})
		case "POST /api/films/7/rent":
			writeData(w, RentalReceipt{RentalID: 16050})
		case "PUT /api/films/rentals/16050/return":
			writeData(w, map[string]any{"message": "returned"})
		case "GET /api/customers":
			writeData(w, CustomerPage{
				Customers:  []Customer{{ID: 5, FirstName: "ELIZABETH", LastName: "BROWN"}},
				Pagination: Pagination{CurrentPage: 2, TotalPages: 3, TotalCustomers: 45, HasPrev: true, HasNext: true},
			})
		case "GET /api/customers/5":
			writeData(w, map[string]any{"id": 5, "first_name": "ELIZABETH", "active": 1})
		case "GET /api/customers/countries":
			writeData(w, []Country{{ID: 103, Name: "United States"}})
		case "GET /api/customers/5/rentals":
			writeData(w, RentalCheck{HasActiveRentals: true, ActiveRentalCount: 2})
		case "GET /api/customers/5/rental-history":
			writeData(w, []map[string]any{
				{"rental_id": 1, "film_title": "A", "status": "Active", "return_date": nil, "rental_rate": "2.99"},
				{"rental_id": 2, "film_title": "B", "status": "Returned", "return_date": "2005-06-01 10:00:00"},
			})
		case "POST /api/customers", "PUT /api/customers/5", "DELETE /api/customers/5":
			writeData(w, map[string]any{"id": 5})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	request := func(key string) *http.Request {
		mu.Lock()
		defer mu.Unlock()
		return seen[key]
	}
	body := func(key string) string {
		mu.Lock()
		defer mu.Unlock()
		return bodies[key]
	}

	obs := &recordingObserver{}
	c, err := NewClient(server.URL+"/api/", WithObserver(obs))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	top, err := c.TopFilms(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, 34, top[0].RentalCount)
	require.Equal(t, "5", request("GET /api/films/top").URL.Query().Get("limit"))

	actors, err := c.TopActors(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, 42, actors[0].FilmCount)

	film, err := c.Film(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, film)
	require.Equal(t, Amount(4.99), film.RentalRate)
	require.Equal(t, "ED CHASE", film.Actors[0].Name)
	require.NoError(t, film.Validate())

	actor, err := c.Actor(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "ED CHASE", actor.Name)
	require.Len(t, actor.Films, MaxActorFilms)

	_, err = c.SearchFilms(ctx, "  ace  ", SearchByGenre)
	require.NoError(t, err)
	q := request("GET /api/films/search").URL.Query()
	require.Equal(t, "ace", q.Get("query"))
	require.Equal(t, "genre", q.Get("type"))

	_, err = c.RecentFilms(ctx, 15)
	require.NoError(t, err)
	require.Equal(t, "15", request("GET /api/films/recent").URL.Query().Get("limit"))

	inv, err := c.FilmInventory(ctx, 7)
	require.NoError(t, err)
	require.True(t, inv.Available)

	receipt, err := c.RentFilm(ctx, 7, 42)
	require.NoError(t, err)
	require.Equal(t, int64(16050), receipt.RentalID)
	require.JSONEq(t, `{"customer_id":42}`, body("POST /api/films/7/rent"))

	require.NoError(t, c.ReturnFilm(ctx, 16050))

	page, err := c.Customers(ctx, CustomerQuery{Page: 2, Limit: 20, Search: " Smith "})
	require.NoError(t, err)
	require.True(t, page.Pagination.HasPrev)
	require.Equal(t, 45, page.Pagination.TotalCustomers)
	cq := request("GET /api/customers").URL.Query()
	require.Equal(t, "2", cq.Get("page"))
	require.Equal(t, "20", cq.Get("limit"))
	require.Equal(t, "Smith", cq.Get("search"))

	customer, err := c.Customer(ctx, 5)
	require.NoError(t, err)
	require.True(t, bool(customer.Active))

	in := CustomerInput{FirstName: "A", LastName: "B", Email: "a@b.c", Address: "x", District: "d", City: "c", CountryID: 103, Active: true}
	require.NoError(t, c.CreateCustomer(ctx, in))
	require.Contains(t, body("POST /api/customers"), `"country_id":103`)
	require.NoError(t, c.UpdateCustomer(ctx, 5, in))
	require.NoError(t, c.DeleteCustomer(ctx, 5))

	countries, err := c.Countries(ctx)
	require.NoError(t, err)
	require.Equal(t, "United States", countries[0].Name)

	check, err := c.CustomerRentals(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, 2, check.ActiveRentalCount)

	history, err := c.RentalHistory(ctx, 5)
	require.NoError(t, err)
	active, returned := SplitRentals(history)
	require.Len(t, active, 1)
	require.Len(t, returned, 1)
	require.Equal(t, Amount(2.99), active[0].RentalRate)

	mu.Lock()
	defer mu.Unlock()
	for key, r := range seen {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"), key)
		require.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "rentdesk/"), key)
		require.NotEmpty(t, r.Header.Get("X-Request-ID"), key)
	}

	obs.mu.Lock()
	defer obs.mu.Unlock()
	require.NotEmpty(t, obs.errs)
	for _, e := range obs.errs {
		require.NoError(t, e)
	}
}

func TestClient_ServerErrorUsesEnvelopeMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/customers/9":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"Customer has active rentals"}`))
		case "/api/customers/10":
			http.Error(w, "<html>boom</html>", http.StatusInternalServerError)
		case "/api/customers/11":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":""}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL + "/api")
	require.NoError(t, err)

	err = c.DeleteCustomer(context.Background(), 9)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.Status)
	require.Equal(t, "Customer has active rentals", err.Error())
	require.False(t, IsTransport(err))

	err = c.DeleteCustomer(context.Background(), 10)
	require.EqualError(t, err, "HTTP 500: Internal Server Error")

	_, err = c.Customer(context.Background(), 11)
	require.EqualError(t, err, "HTTP 502: Bad Gateway")
}

func TestClient_DecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{not-json"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = c.TopFilms(context.Background(), 5)
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode response")
}

func TestClient_NullDataMeansNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeData(w, nil)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	require.NoError(t, err)

	film, err := c.Film(context.Background(), 999)
	require.NoError(t, err)
	require.Nil(t, film)

	actor, err := c.Actor(context.Background(), 999)
	require.NoError(t, err)
	require.Nil(t, actor)
}

func TestClient_TransportFailureIsReportedAsConnectError(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	obs := &recordingObserver{}
	c, err := NewClient("http://"+addr+"/api", WithObserver(obs))
	require.NoError(t, err)

	_, err = c.TopFilms(context.Background(), 5)
	require.EqualError(t, err, ConnectMessage)
	require.True(t, IsTransport(err))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Zero(t, apiErr.Status)
	require.NotNil(t, errors.Unwrap(err))

	obs.mu.Lock()
	defer obs.mu.Unlock()
	require.Len(t, obs.errs, 1)
	require.True(t, IsTransport(obs.errs[0]))
}

func TestClient_CancelledContextIsNotTransport(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	c, err := NewClient(server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err = c.TopFilms(ctx, 5)
	require.Error(t, err)
	require.False(t, IsTransport(err))
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_RentFilmRequiresCustomer(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	require.NoError(t, err)
	_, err = c.RentFilm(context.Background(), 1, 0)
	require.Error(t, err)
}

func TestMessage(t *testing.T) {
	require.Equal(t, "", Message(nil, "fallback"))
	require.Equal(t, "fallback", Message(errors.New("  "), "fallback"))
	require.Equal(t, "boom", Message(errors.New("boom"), "fallback"))
}

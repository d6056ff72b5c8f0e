// Package catalogtest provides an in-memory catalog.Service for tests.
package catalogtest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/five82/rentdesk/internal/catalog"
)

// DefaultPageSize matches the page size the customer list requests.
const DefaultPageSize = 20

// Fake serves canned catalog data. Populate the exported fields before use;
// all methods are safe for concurrent use.
type Fake struct {
	TopFilmList    []catalog.FilmSummary
	TopActorList   []catalog.ActorSummary
	RecentFilmList []catalog.FilmSummary
	SearchResults  map[catalog.SearchType][]catalog.FilmSummary
	Films          map[int64]catalog.Film
	Actors         map[int64]catalog.Actor
	Available      map[int64]bool
	CustomerList   []catalog.Customer
	CountryList    []catalog.Country
	ActiveRentals  map[int64]int
	Histories      map[int64][]catalog.Rental
	NextRentalID   int64

	// Created, Updated, Deleted, Rented and Returned record mutations.
	Created  []catalog.CustomerInput
	Updated  map[int64]catalog.CustomerInput
	Deleted  []int64
	Rented   []Rent
	Returned []int64

	mu      sync.Mutex
	calls   map[string]int
	errs    map[string]error
	offline bool
	block   map[string]chan struct{}
}

// Rent records one RentFilm call.
type Rent struct {
	FilmID     int64
	CustomerID int64
}

// Ensure Fake implements catalog.Service at compile time.
var _ catalog.Service = (*Fake)(nil)

// FailWith makes the named method return err until cleared with a nil err.
func (f *Fake) FailWith(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errs == nil {
		f.errs = make(map[string]error)
	}
	if err == nil {
		delete(f.errs, method)
		return
	}
	f.errs[method] = err
}

// SetOffline makes every call fail the way an unreachable API does.
func (f *Fake) SetOffline(offline bool) {
	f.mu.Lock()
	f.offline = offline
	f.mu.Unlock()
}

// Hold blocks the named method until the returned release func is called.
func (f *Fake) Hold(method string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	if f.block == nil {
		f.block = make(map[string]chan struct{})
	}
	f.block[method] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			if f.block[method] == ch {
				delete(f.block, method)
			}
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns how often the named method ran.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (f *Fake) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// enter counts the call and returns the configured failure, if any. The
// caller must not hold f.mu.
func (f *Fake) enter(ctx context.Context, method, path string) error {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
	gate := f.block[method]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offline {
		return catalog.Unreachable("GET", path, errors.New("connection refused"))
	}
	return f.errs[method]
}

func (f *Fake) TopFilms(ctx context.Context, limit int) ([]catalog.FilmSummary, error) {
	if err := f.enter(ctx, "TopFilms", "/films/top"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return head(f.TopFilmList, limit), nil
}

func (f *Fake) TopActors(ctx context.Context, limit int) ([]catalog.ActorSummary, error) {
	if err := f.enter(ctx, "TopActors", "/actors/top"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return head(f.TopActorList, limit), nil
}

func (f *Fake) Film(ctx context.Context, id int64) (*catalog.Film, error) {
	if err := f.enter(ctx, "Film", "/films/"+strconv.FormatInt(id, 10)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	film, ok := f.Films[id]
	if !ok {
		return nil, nil
	}
	film.Actors = append([]catalog.ActorRef(nil), film.Actors...)
	return &film, nil
}

func (f *Fake) Actor(ctx context.Context, id int64) (*catalog.Actor, error) {
	if err := f.enter(ctx, "Actor", "/actors/"+strconv.FormatInt(id, 10)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	actor, ok := f.Actors[id]
	if !ok {
		return nil, nil
	}
	actor.Name = actor.DisplayName()
	actor.Films = head(actor.Films, catalog.MaxActorFilms)
	return &actor, nil
}

func (f *Fake) SearchFilms(ctx context.Context, query string, by catalog.SearchType) ([]catalog.FilmSummary, error) {
	if err := f.enter(ctx, "SearchFilms", "/films/search"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if canned, ok := f.SearchResults[by]; ok {
		return append([]catalog.FilmSummary(nil), canned...), nil
	}
	var out []catalog.FilmSummary
	needle := strings.ToLower(strings.TrimSpace(query))
	for _, film := range f.RecentFilmList {
		if by == catalog.SearchByTitle && strings.Contains(strings.ToLower(film.Title), needle) {
			out = append(out, film)
		}
		if by == catalog.SearchByGenre && strings.Contains(strings.ToLower(film.Kind()), needle) {
			out = append(out, film)
		}
	}
	return out, nil
}

func (f *Fake) RecentFilms(ctx context.Context, limit int) ([]catalog.FilmSummary, error) {
	if err := f.enter(ctx, "RecentFilms", "/films/recent"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return head(f.RecentFilmList, limit), nil
}

func (f *Fake) FilmInventory(ctx context.Context, filmID int64) (catalog.Inventory, error) {
	if err := f.enter(ctx, "FilmInventory", "/films/"+strconv.FormatInt(filmID, 10)+"/inventory"); err != nil {
		return catalog.Inventory{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return catalog.Inventory{Available: f.Available[filmID]}, nil
}

// RentFilm records the rental and marks the film unavailable, the way a
// single-copy inventory behaves.
func (f *Fake) RentFilm(ctx context.Context, filmID, customerID int64) (catalog.RentalReceipt, error) {
	if err := f.enter(ctx, "RentFilm", "/films/"+strconv.FormatInt(filmID, 10)+"/rent"); err != nil {
		return catalog.RentalReceipt{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Available[filmID] {
		return catalog.RentalReceipt{}, &catalog.Error{Status: 409, Message: "No copies available"}
	}
	f.NextRentalID++
	f.Rented = append(f.Rented, Rent{FilmID: filmID, CustomerID: customerID})
	f.Available[filmID] = false
	return catalog.RentalReceipt{RentalID: f.NextRentalID}, nil
}

func (f *Fake) ReturnFilm(ctx context.Context, rentalID int64) error {
	if err := f.enter(ctx, "ReturnFilm", "/films/rentals/"+strconv.FormatInt(rentalID, 10)+"/return"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Returned = append(f.Returned, rentalID)
	for id, history := range f.Histories {
		for i := range history {
			if history[i].RentalID == rentalID {
				returned := "2006-02-14 15:16:03"
				history[i].Status = catalog.RentalReturned
				history[i].ReturnDate = &returned
				if f.ActiveRentals[id] > 0 {
					f.ActiveRentals[id]--
				}
			}
		}
	}
	return nil
}

// Customers filters by id or name and paginates the way the API does.
func (f *Fake) Customers(ctx context.Context, query catalog.CustomerQuery) (catalog.CustomerPage, error) {
	if err := f.enter(ctx, "Customers", "/customers"); err != nil {
		return catalog.CustomerPage{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	matches := filterCustomers(f.CustomerList, query.Search)
	return Paginate(matches, query.Page, query.Limit), nil
}

// Paginate slices customers into the requested page and computes the
// pagination envelope.
func Paginate(customers []catalog.Customer, page, limit int) catalog.CustomerPage {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(customers)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return catalog.CustomerPage{
		Customers: append([]catalog.Customer(nil), customers[start:end]...),
		Pagination: catalog.Pagination{
			CurrentPage:    page,
			TotalPages:     totalPages,
			TotalCustomers: total,
			HasPrev:        page > 1,
			HasNext:        page < totalPages,
		},
	}
}

func filterCustomers(all []catalog.Customer, search string) []catalog.Customer {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return all
	}
	var out []catalog.Customer
	for _, c := range all {
		if strconv.FormatInt(c.ID, 10) == search ||
			strings.Contains(strings.ToLower(c.FirstName), search) ||
			strings.Contains(strings.ToLower(c.LastName), search) {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) Customer(ctx context.Context, id int64) (*catalog.Customer, error) {
	if err := f.enter(ctx, "Customer", "/customers/"+strconv.FormatInt(id, 10)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.CustomerList {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *Fake) CreateCustomer(ctx context.Context, in catalog.CustomerInput) error {
	if err := f.enter(ctx, "CreateCustomer", "/customers"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Created = append(f.Created, in)
	var next int64 = 1
	for _, c := range f.CustomerList {
		if c.ID >= next {
			next = c.ID + 1
		}
	}
	f.CustomerList = append(f.CustomerList, fromInput(next, in))
	return nil
}

func (f *Fake) UpdateCustomer(ctx context.Context, id int64, in catalog.CustomerInput) error {
	if err := f.enter(ctx, "UpdateCustomer", "/customers/"+strconv.FormatInt(id, 10)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Updated == nil {
		f.Updated = make(map[int64]catalog.CustomerInput)
	}
	f.Updated[id] = in
	for i, c := range f.CustomerList {
		if c.ID == id {
			updated := fromInput(id, in)
			updated.CreateDate = c.CreateDate
			f.CustomerList[i] = updated
			return nil
		}
	}
	return &catalog.Error{Status: 404, Message: "Customer not found"}
}

// DeleteCustomer refuses customers with active rentals, like the server.
func (f *Fake) DeleteCustomer(ctx context.Context, id int64) error {
	if err := f.enter(ctx, "DeleteCustomer", "/customers/"+strconv.FormatInt(id, 10)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if n := f.ActiveRentals[id]; n > 0 {
		return &catalog.Error{Status: 409, Message: fmt.Sprintf("Customer has %d active rentals", n)}
	}
	f.Deleted = append(f.Deleted, id)
	kept := f.CustomerList[:0]
	for _, c := range f.CustomerList {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	f.CustomerList = kept
	return nil
}

func (f *Fake) Countries(ctx context.Context) ([]catalog.Country, error) {
	if err := f.enter(ctx, "Countries", "/customers/countries"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.Country(nil), f.CountryList...), nil
}

func (f *Fake) CustomerRentals(ctx context.Context, id int64) (catalog.RentalCheck, error) {
	if err := f.enter(ctx, "CustomerRentals", "/customers/"+strconv.FormatInt(id, 10)+"/rentals"); err != nil {
		return catalog.RentalCheck{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.ActiveRentals[id]
	return catalog.RentalCheck{HasActiveRentals: n > 0, ActiveRentalCount: n}, nil
}

func (f *Fake) RentalHistory(ctx context.Context, id int64) ([]catalog.Rental, error) {
	if err := f.enter(ctx, "RentalHistory", "/customers/"+strconv.FormatInt(id, 10)+"/rental-history"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	history := append([]catalog.Rental(nil), f.Histories[id]...)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].RentalDate > history[j].RentalDate
	})
	return history, nil
}

func fromInput(id int64, in catalog.CustomerInput) catalog.Customer {
	return catalog.Customer{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		District:  in.District,
		City:      in.City,
		CountryID: int64(in.CountryID),
		Active:    catalog.Flag(in.Active),
	}
}

func head[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return append([]T(nil), items...)
}

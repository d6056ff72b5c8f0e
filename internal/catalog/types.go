package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const catalogTimestampLayout = "2006-01-02 15:04:05"

// MaxActorFilms caps the film list shown for an actor.
const MaxActorFilms = 5

// Amount is a money value. The API sends decimals either as JSON numbers or
// as numeric strings depending on the driver, so both are accepted.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*a = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("amount %q: %w", s, err)
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// String formats the amount as dollars.
func (a Amount) String() string {
	return fmt.Sprintf("$%.2f", float64(a))
}

// Flag is a boolean that also accepts 0/1 numbers.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(bytes.TrimSpace(data)), `"`) {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return fmt.Errorf("flag: unexpected value %s", data)
	}
	return nil
}

// FilmSummary is the shape returned by the list endpoints (top, recent,
// search) and embedded in actor details.
type FilmSummary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ReleaseYear int    `json:"releaseYear,omitempty"`
	Rating      string `json:"rating,omitempty"`
	Length      int    `json:"length,omitempty"`
	Category    string `json:"category,omitempty"`
	Genre       string `json:"genre,omitempty"`
	RentalCount int    `json:"rentalCount,omitempty"`
}

// Kind returns the category, falling back to genre.
func (f FilmSummary) Kind() string {
	if f.Category != "" {
		return f.Category
	}
	return f.Genre
}

// ActorRef is a cast entry on a film.
type ActorRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Film mirrors /films/:id.
type Film struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	ReleaseYear     int        `json:"releaseYear"`
	Rating          string     `json:"rating"`
	Length          int        `json:"length"`
	Category        string     `json:"category"`
	Genre           string     `json:"genre"`
	RentalRate      Amount     `json:"rentalRate"`
	RentalDuration  int        `json:"rentalDuration"`
	ReplacementCost Amount     `json:"replacementCost"`
	Language        string     `json:"language"`
	Actors          []ActorRef `json:"actors"`
}

// Kind returns the category, falling back to genre.
func (f Film) Kind() string {
	if f.Category != "" {
		return f.Category
	}
	return f.Genre
}

// Validate reports payloads that break the film invariants.
func (f Film) Validate() error {
	switch {
	case f.RentalRate < 0:
		return fmt.Errorf("film %d: negative rental rate %v", f.ID, float64(f.RentalRate))
	case f.ReplacementCost < 0:
		return fmt.Errorf("film %d: negative replacement cost %v", f.ID, float64(f.ReplacementCost))
	case f.Length <= 0:
		return fmt.Errorf("film %d: length must be positive, got %d", f.ID, f.Length)
	}
	return nil
}

// ActorSummary is the shape returned by /actors/top.
type ActorSummary struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	FilmCount int    `json:"filmCount"`
}

// Actor mirrors /actors/:id.
type Actor struct {
	ID        int64         `json:"id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Name      string        `json:"name"`
	Films     []FilmSummary `json:"films"`
}

// DisplayName returns Name, deriving it from the first and last name.
func (a Actor) DisplayName() string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

func (a *Actor) normalize() {
	a.Name = a.DisplayName()
	if len(a.Films) > MaxActorFilms {
		a.Films = a.Films[:MaxActorFilms]
	}
}

// SearchType selects which film attribute a search matches.
type SearchType string

const (
	SearchByTitle SearchType = "title"
	SearchByActor SearchType = "actor"
	SearchByGenre SearchType = "genre"
)

// SearchTypes lists the search modes in display order.
var SearchTypes = []SearchType{SearchByTitle, SearchByActor, SearchByGenre}

// ParseSearchType maps a string to a SearchType, defaulting to title.
func ParseSearchType(s string) SearchType {
	for _, st := range SearchTypes {
		if string(st) == strings.ToLower(strings.TrimSpace(s)) {
			return st
		}
	}
	return SearchByTitle
}

// Next returns the following search type in the cycle.
func (s SearchType) Next() SearchType {
	for i, st := range SearchTypes {
		if st == s {
			return SearchTypes[(i+1)%len(SearchTypes)]
		}
	}
	return SearchByTitle
}

// Inventory mirrors /films/:id/inventory.
type Inventory struct {
	Available bool `json:"available"`
}

// RentalReceipt mirrors the POST /films/:id/rent response.
type RentalReceipt struct {
	RentalID int64 `json:"rental_id"`
}

// Customer mirrors /customers/:id and the customer list rows.
type Customer struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	District   string `json:"district"`
	City       string `json:"city"`
	CountryID  int64  `json:"country_id"`
	Country    string `json:"country"`
	Active     Flag   `json:"active"`
	CreateDate string `json:"create_date"`
}

// FullName joins the first and last name.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ParsedCreateDate returns the parsed create date.
func (c Customer) ParsedCreateDate() time.Time {
	return parseTime(c.CreateDate)
}

// CustomerInput is the body of create and update requests.
type CustomerInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	District  string `json:"district"`
	City      string `json:"city"`
	CountryID int    `json:"country_id"`
	Active    bool   `json:"active"`
}

// Pagination is computed by the server; the client never adjusts it.
type Pagination struct {
	CurrentPage    int  `json:"currentPage"`
	TotalPages     int  `json:"totalPages"`
	TotalCustomers int  `json:"totalCustomers"`
	HasPrev        bool `json:"hasPrev"`
	HasNext        bool `json:"hasNext"`
}

// CustomerQuery configures /customers requests.
type CustomerQuery struct {
	Page   int
	Limit  int
	Search string
}

// CustomerPage mirrors the /customers envelope payload.
type CustomerPage struct {
	Customers  []Customer `json:"customers"`
	Pagination Pagination `json:"pagination"`
}

// Country is a selectable country option.
type Country struct {
	ID   int64  `json:"country_id"`
	Name string `json:"country"`
}

// RentalCheck mirrors /customers/:id/rentals.
type RentalCheck struct {
	HasActiveRentals  bool `json:"hasActiveRentals"`
	ActiveRentalCount int  `json:"activeRentalCount"`
}

// Rental status values.
const (
	RentalActive   = "Active"
	RentalReturned = "Returned"
)

// Rental is one entry of a customer's rental history.
type Rental struct {
	RentalID       int64   `json:"rental_id"`
	FilmTitle      string  `json:"film_title"`
	RentalDate     string  `json:"rental_date"`
	ReturnDate     *string `json:"return_date"`
	DaysRented     int     `json:"days_rented"`
	RentalDuration int     `json:"rental_duration"`
	RentalRate     Amount  `json:"rental_rate"`
	Status         string  `json:"status"`
}

// IsActive reports whether the rental has not been returned.
func (r Rental) IsActive() bool {
	if r.Status != "" {
		return strings.EqualFold(r.Status, RentalActive)
	}
	return r.ReturnDate == nil || strings.TrimSpace(*r.ReturnDate) == ""
}

// ParsedRentalDate returns the parsed rental date.
func (r Rental) ParsedRentalDate() time.Time {
	return parseTime(r.RentalDate)
}

// ParsedReturnDate returns the parsed return date, zero while active.
func (r Rental) ParsedReturnDate() time.Time {
	if r.ReturnDate == nil {
		return time.Time{}
	}
	return parseTime(*r.ReturnDate)
}

// SplitRentals partitions a history into active and returned rentals,
// preserving order.
func SplitRentals(history []Rental) (active, returned []Rental) {
	for _, r := range history {
		if r.IsActive() {
			active = append(active, r)
		} else {
			returned = append(returned, r)
		}
	}
	return active, returned
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	for _, layout := range []string{catalogTimestampLayout, time.DateOnly} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

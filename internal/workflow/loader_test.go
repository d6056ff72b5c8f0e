package workflow

import (
	"errors"
	"testing"

	"github.com/five82/rentdesk/internal/catalog"
)

func TestLoader_SuccessAndFailure(t *testing.T) {
	l := NewLoader[[]string]("Failed to load films")
	if l.Phase() != PhaseIdle {
		t.Fatalf("initial phase = %v, want idle", l.Phase())
	}

	ticket := l.Begin()
	if !l.Loading() {
		t.Fatalf("phase after Begin = %v, want loading", l.Phase())
	}
	if !l.Resolve(ticket, []string{"ACADEMY DINOSAUR"}, nil) {
		t.Fatalf("Resolve returned false for current ticket")
	}
	if !l.Loaded() || len(l.Data()) != 1 || l.Message() != "" {
		t.Fatalf("after success: phase=%v data=%v msg=%q", l.Phase(), l.Data(), l.Message())
	}

	ticket = l.Begin()
	l.Resolve(ticket, nil, &catalog.Error{Message: "HTTP 500: Internal Server Error"})
	if !l.Failed() {
		t.Fatalf("phase after error = %v, want failed", l.Phase())
	}
	if l.Data() != nil {
		t.Fatalf("data after failed reload = %v, want none", l.Data())
	}
	if got := l.Message(); got != "HTTP 500: Internal Server Error" {
		t.Fatalf("message = %q", got)
	}
}

func TestLoader_FallbackMessage(t *testing.T) {
	l := NewLoader[int]("Failed to load customer")
	ticket := l.Begin()
	l.Resolve(ticket, 0, errors.New("  "))
	if got := l.Message(); got != "Failed to load customer" {
		t.Fatalf("message = %q, want fallback", got)
	}
}

func TestLoader_IgnoresSupersededTickets(t *testing.T) {
	l := NewLoader[string]("failed")
	first := l.Begin()
	second := l.Begin()

	if !l.Resolve(second, "newer", nil) {
		t.Fatalf("latest ticket rejected")
	}
	if l.Resolve(first, "older", nil) {
		t.Fatalf("stale ticket applied")
	}
	if l.Data() != "newer" {
		t.Fatalf("data = %q, want newer", l.Data())
	}

	// A stale failure must not clobber a later success either.
	third := l.Begin()
	fourth := l.Begin()
	l.Resolve(fourth, "latest", nil)
	if l.Resolve(third, "", errors.New("boom")) {
		t.Fatalf("stale failure applied")
	}
	if !l.Loaded() || l.Data() != "latest" {
		t.Fatalf("phase=%v data=%q", l.Phase(), l.Data())
	}
}

func TestLoader_TicketsAreUniqueAcrossLoaders(t *testing.T) {
	a := NewLoader[int]("a")
	b := NewLoader[int]("b")
	ta := a.Begin()
	tb := b.Begin()
	if ta == tb {
		t.Fatalf("tickets collide: %d", ta)
	}
	if b.Resolve(ta, 1, nil) {
		t.Fatalf("loader accepted another loader's ticket")
	}
}

func TestLoader_ResetInvalidatesOutstandingTicket(t *testing.T) {
	l := NewLoader[int]("failed")
	ticket := l.Begin()
	l.Reset()
	if l.Resolve(ticket, 7, nil) {
		t.Fatalf("resolve after reset applied")
	}
	if l.Phase() != PhaseIdle || l.Data() != 0 {
		t.Fatalf("phase=%v data=%d", l.Phase(), l.Data())
	}
}

func TestLoader_RepeatedLoadIsIdempotent(t *testing.T) {
	film := &catalog.Film{ID: 1, Title: "ACADEMY DINOSAUR", Length: 86}
	l := NewLoader[*catalog.Film]("Failed to load film details")

	l.Resolve(l.Begin(), film, nil)
	first := *l.Data()
	l.Resolve(l.Begin(), film, nil)
	second := *l.Data()

	if first.Title != second.Title || first.ID != second.ID || l.Phase() != PhaseLoaded {
		t.Fatalf("reload changed state: %+v vs %+v", first, second)
	}
}

func TestCountryOptions(t *testing.T) {
	fetched := []catalog.Country{{ID: 103, Name: "United States"}}
	opts, fallback := CountryOptions(fetched, nil)
	if fallback || len(opts) != 1 {
		t.Fatalf("CountryOptions(fetched) = %v, %v", opts, fallback)
	}

	for name, tc := range map[string]struct {
		list []catalog.Country
		err  error
	}{
		"empty": {nil, nil},
		"error": {fetched, errors.New("boom")},
	} {
		opts, fallback := CountryOptions(tc.list, tc.err)
		if !fallback {
			t.Fatalf("%s: fallback = false", name)
		}
		if len(opts) != 10 || opts[0].Name != "United States" || opts[9].Name != "Brazil" {
			t.Fatalf("%s: options = %v", name, opts)
		}
	}

	opts = FallbackCountries()
	opts[0].Name = "mutated"
	if FallbackCountries()[0].Name != "United States" {
		t.Fatalf("fallback list is shared mutable state")
	}
	if got := CountryName(FallbackCountries(), 7); got != "Japan" {
		t.Fatalf("CountryName(7) = %q, want Japan", got)
	}
}

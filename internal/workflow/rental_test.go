package workflow

import (
	"errors"
	"testing"

	"github.com/five82/rentdesk/internal/catalog"
)

func TestRentalGate_DisabledWhenUnavailable(t *testing.T) {
	var g RentalGate
	if g.CanSubmit() {
		t.Fatalf("CanSubmit before inventory check = true")
	}
	g.SetAvailability(catalog.Inventory{Available: false})
	for _, input := range []string{"7", "", "abc"} {
		if g.CanSubmit() {
			t.Fatalf("CanSubmit with input %q = true, want false", input)
		}
		if _, err := g.Begin(input); !errors.Is(err, ErrRentalUnavailable) {
			t.Fatalf("Begin(%q) error = %v, want ErrRentalUnavailable", input, err)
		}
	}
}

func TestRentalGate_SuccessfulRental(t *testing.T) {
	var g RentalGate
	g.SetAvailability(catalog.Inventory{Available: true})
	if !g.CanSubmit() {
		t.Fatalf("CanSubmit = false, want true")
	}

	id, err := g.Begin("7")
	if err != nil || id != 7 {
		t.Fatalf("Begin(7) = %d, %v", id, err)
	}
	if g.CanSubmit() {
		t.Fatalf("CanSubmit while in flight = true")
	}

	g.Succeed(catalog.RentalReceipt{RentalID: 16050})
	if got := g.Notice(); got != "Film rented successfully! Rental ID: 16050" {
		t.Fatalf("Notice = %q", got)
	}
	if !g.CanSubmit() {
		t.Fatalf("CanSubmit after success before re-query = false")
	}
	g.SetAvailability(catalog.Inventory{Available: false})
	if g.CanSubmit() {
		t.Fatalf("CanSubmit after re-query reports unavailable = true")
	}
	g.ClearNotice()
	if g.Notice() != "" {
		t.Fatalf("notice not cleared")
	}
}

func TestRentalGate_InvalidCustomerID(t *testing.T) {
	for _, input := range []string{"", "  ", "abc", "0", "-4", "7.5"} {
		var g RentalGate
		g.SetAvailability(catalog.Inventory{Available: true})
		_, err := g.Begin(input)
		if !IsValidation(err) {
			t.Fatalf("Begin(%q) error = %v, want validation error", input, err)
		}
		if g.ErrorText() != MsgInvalidCustomerID {
			t.Fatalf("ErrorText = %q", g.ErrorText())
		}
		if g.InFlight() {
			t.Fatalf("Begin(%q) left a rental in flight", input)
		}
	}
}

func TestRentalGate_FailureKeepsAvailability(t *testing.T) {
	var g RentalGate
	g.SetAvailability(catalog.Inventory{Available: true})
	if _, err := g.Begin("7"); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	g.Fail(&catalog.Error{Status: 404, Message: "Customer not found"})
	if g.ErrorText() != "Customer not found" {
		t.Fatalf("ErrorText = %q", g.ErrorText())
	}
	if !g.Available() || !g.CanSubmit() {
		t.Fatalf("availability changed after failure")
	}
}

package workflow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/rentdesk/internal/catalog"
)

const (
	MsgInvalidCustomerID = "Please enter a valid customer ID"
	MsgRentFailed        = "Failed to rent film"
)

// ErrRentalUnavailable is returned by Begin when the controls are disabled.
var ErrRentalUnavailable = errors.New("rental controls are disabled")

// RentedMessage confirms a rental with the id the server issued.
func RentedMessage(rentalID int64) string {
	return fmt.Sprintf("Film rented successfully! Rental ID: %d", rentalID)
}

// RentalGate decides whether a film can be rented from its detail page. The
// controls are enabled only while a copy is available and no rental is in
// flight.
type RentalGate struct {
	available bool
	known     bool
	inFlight  bool
	notice    string
	errText   string
}

// SetAvailability records an inventory check.
func (g *RentalGate) SetAvailability(inv catalog.Inventory) {
	g.available = inv.Available
	g.known = true
}

// Forget drops the availability, e.g. while inventory is re-queried after a
// failed load.
func (g *RentalGate) Forget() {
	g.available = false
	g.known = false
}

// CanSubmit reports whether the rent controls are enabled.
func (g *RentalGate) CanSubmit() bool {
	return g.available && !g.inFlight
}

// Begin validates the customer id input and marks a rental in flight.
func (g *RentalGate) Begin(input string) (int64, error) {
	if !g.CanSubmit() {
		return 0, ErrRentalUnavailable
	}
	id, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil || id <= 0 {
		g.errText = MsgInvalidCustomerID
		g.notice = ""
		return 0, &ValidationError{Message: MsgInvalidCustomerID}
	}
	g.inFlight = true
	g.errText = ""
	g.notice = ""
	return id, nil
}

// Succeed records the rental. The caller clears the input and re-queries
// availability.
func (g *RentalGate) Succeed(receipt catalog.RentalReceipt) {
	if !g.inFlight {
		return
	}
	g.inFlight = false
	g.notice = RentedMessage(receipt.RentalID)
}

// Fail records the server message. Availability is left as it was.
func (g *RentalGate) Fail(err error) {
	if !g.inFlight {
		return
	}
	g.inFlight = false
	g.errText = catalog.Message(err, MsgRentFailed)
}

// ClearNotice drops the success line once its display time has passed.
func (g *RentalGate) ClearNotice() {
	g.notice = ""
}

func (g *RentalGate) Available() bool   { return g.available }
func (g *RentalGate) Known() bool       { return g.known }
func (g *RentalGate) InFlight() bool    { return g.inFlight }
func (g *RentalGate) Notice() string    { return g.notice }
func (g *RentalGate) ErrorText() string { return g.errText }

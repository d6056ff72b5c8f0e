package workflow

import (
	"fmt"

	"github.com/five82/rentdesk/internal/catalog"
)

const (
	MsgCheckFailed  = "Failed to check customer rentals"
	MsgDeleted      = "Customer deleted successfully!"
	MsgDeleteFailed = "Failed to delete customer"
)

// DeletePhase is the state of a Deletion.
type DeletePhase int

const (
	DeleteIdle DeletePhase = iota
	DeleteChecking
	DeleteBlocked
	DeleteConfirmPending
	DeleteDeleting
	DeleteDeleted
	DeleteFailed
)

func (p DeletePhase) String() string {
	switch p {
	case DeleteIdle:
		return "idle"
	case DeleteChecking:
		return "checking"
	case DeleteBlocked:
		return "blocked"
	case DeleteConfirmPending:
		return "confirm"
	case DeleteDeleting:
		return "deleting"
	case DeleteDeleted:
		return "deleted"
	case DeleteFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BlockedMessage names the rentals that prevent a delete.
func BlockedMessage(activeRentals int) string {
	return fmt.Sprintf("Cannot delete customer. Customer has %d active rental(s).", activeRentals)
}

// Deletion guards a customer delete behind an active-rental check and an
// explicit confirmation:
//
//	Idle -> Checking -> Blocked | ConfirmPending
//	ConfirmPending -> Idle (cancel) | Deleting -> Deleted | Failed
//
// The check is advisory. The server may still refuse the delete, which lands
// in Failed; Blocked and Failed both allow a new Request.
type Deletion struct {
	phase   DeletePhase
	subject string
	check   catalog.RentalCheck
	message string
}

// Request starts the dependency check for the named customer. It returns
// false when a check, prompt or delete is already under way.
func (d *Deletion) Request(subject string) bool {
	switch d.phase {
	case DeleteIdle, DeleteBlocked, DeleteFailed:
	default:
		return false
	}
	d.phase = DeleteChecking
	d.subject = subject
	d.check = catalog.RentalCheck{}
	d.message = ""
	return true
}

// Checked applies the dependency check result.
func (d *Deletion) Checked(check catalog.RentalCheck, err error) {
	if d.phase != DeleteChecking {
		return
	}
	if err != nil {
		d.phase = DeleteFailed
		d.message = MsgCheckFailed
		return
	}
	d.check = check
	if check.HasActiveRentals || check.ActiveRentalCount > 0 {
		d.phase = DeleteBlocked
		d.message = BlockedMessage(check.ActiveRentalCount)
		return
	}
	d.phase = DeleteConfirmPending
}

// Cancel dismisses the prompt and forgets the check result.
func (d *Deletion) Cancel() {
	if d.phase != DeleteConfirmPending {
		return
	}
	d.phase = DeleteIdle
	d.check = catalog.RentalCheck{}
	d.message = ""
}

// Confirm moves from the prompt to Deleting. It returns false when there is
// no prompt to confirm.
func (d *Deletion) Confirm() bool {
	if d.phase != DeleteConfirmPending {
		return false
	}
	d.phase = DeleteDeleting
	return true
}

// Deleted applies the delete call result.
func (d *Deletion) Deleted(err error) {
	if d.phase != DeleteDeleting {
		return
	}
	d.check = catalog.RentalCheck{}
	if err != nil {
		d.phase = DeleteFailed
		d.message = catalog.Message(err, MsgDeleteFailed)
		return
	}
	d.phase = DeleteDeleted
	d.message = MsgDeleted
}

// Prompt is the confirmation question shown in ConfirmPending.
func (d *Deletion) Prompt() string {
	if d.phase != DeleteConfirmPending {
		return ""
	}
	return fmt.Sprintf("Are you sure you want to delete customer %s?", d.subject)
}

// Busy reports whether a check or delete call is outstanding.
func (d *Deletion) Busy() bool {
	return d.phase == DeleteChecking || d.phase == DeleteDeleting
}

// Reset returns to Idle, e.g. when the page is reloaded.
func (d *Deletion) Reset() {
	*d = Deletion{}
}

func (d *Deletion) Phase() DeletePhase { return d.phase }
func (d *Deletion) Message() string    { return d.message }

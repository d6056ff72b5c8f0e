package workflow

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/five82/rentdesk/internal/catalog"
)

// Delays before the follow-up of a successful mutation runs.
const (
	SaveDelay         = 2000 * time.Millisecond
	DeleteDelay       = 1500 * time.Millisecond
	RentalNoticeDelay = 5000 * time.Millisecond
)

const (
	MsgRequired       = "All fields except phone are required"
	MsgInvalidEmail   = "Please enter a valid email address"
	MsgInvalidCountry = "Please select a valid country"

	MsgCreated      = "Customer created successfully!"
	MsgUpdated      = "Customer updated successfully!"
	MsgCreateFailed = "Failed to create customer"
	MsgUpdateFailed = "Failed to update customer"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return validEmail(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidationError is a local form failure. It never reaches the network.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// validEmail reports whether s looks like an email address.
func validEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// CustomerForm holds the raw field values of the add and edit forms.
type CustomerForm struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,mailbox"`
	Phone     string
	Address   string `validate:"required"`
	District  string `validate:"required"`
	City      string `validate:"required"`
	CountryID string `validate:"required"`
	Active    bool
}

// NewCustomerForm returns an empty form for a new, active customer.
func NewCustomerForm() CustomerForm {
	return CustomerForm{Active: true}
}

// FormFromCustomer fills a form with an existing customer.
func FormFromCustomer(c catalog.Customer) CustomerForm {
	form := CustomerForm{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		District:  c.District,
		City:      c.City,
		Active:    bool(c.Active),
	}
	if c.CountryID > 0 {
		form.CountryID = strconv.FormatInt(c.CountryID, 10)
	}
	return form
}

func (f CustomerForm) trimmed() CustomerForm {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.District = strings.TrimSpace(f.District)
	f.City = strings.TrimSpace(f.City)
	f.CountryID = strings.TrimSpace(f.CountryID)
	return f
}

// Validate trims the fields, checks them and builds the request body. A
// missing required field is reported ahead of a malformed email.
func (f CustomerForm) Validate() (catalog.CustomerInput, error) {
	f = f.trimmed()
	if err := validate.Struct(f); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return catalog.CustomerInput{}, err
		}
		for _, fe := range fieldErrs {
			if fe.Tag() == "required" {
				return catalog.CustomerInput{}, &ValidationError{Message: MsgRequired}
			}
		}
		return catalog.CustomerInput{}, &ValidationError{Message: MsgInvalidEmail}
	}

	countryID, err := strconv.Atoi(f.CountryID)
	if err != nil || countryID <= 0 {
		return catalog.CustomerInput{}, &ValidationError{Message: MsgInvalidCountry}
	}

	return catalog.CustomerInput{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Address:   f.Address,
		District:  f.District,
		City:      f.City,
		CountryID: countryID,
		Active:    f.Active,
	}, nil
}

// SubmitPhase is the state of a Submission.
type SubmitPhase int

const (
	SubmitIdle SubmitPhase = iota
	SubmitSaving
	SubmitSucceeded
	SubmitFailed
)

// Submission tracks one form's mutation: the in-flight flag and the error
// and success lines shown under the form.
type Submission struct {
	phase   SubmitPhase
	errText string
	notice  string
}

// Reject records a validation failure without starting a request.
func (s *Submission) Reject(err error) {
	s.phase = SubmitIdle
	s.notice = ""
	s.errText = catalog.Message(err, MsgRequired)
}

// Start clears prior messages and marks the submission in flight. It returns
// false while another submission is running.
func (s *Submission) Start() bool {
	if s.phase == SubmitSaving {
		return false
	}
	s.phase = SubmitSaving
	s.errText = ""
	s.notice = ""
	return true
}

// Succeed records a successful mutation and its confirmation.
func (s *Submission) Succeed(notice string) {
	if s.phase != SubmitSaving {
		return
	}
	s.phase = SubmitSucceeded
	s.notice = notice
}

// Fail records the server or fallback message. Field values are untouched.
func (s *Submission) Fail(err error, fallback string) {
	if s.phase != SubmitSaving {
		return
	}
	s.phase = SubmitFailed
	s.errText = catalog.Message(err, fallback)
}

// Edited clears the error after the operator changes a field.
func (s *Submission) Edited() {
	s.errText = ""
}

// Settle clears the confirmation once the delayed follow-up has run.
func (s *Submission) Settle() {
	s.notice = ""
	if s.phase == SubmitSucceeded {
		s.phase = SubmitIdle
	}
}

func (s *Submission) Phase() SubmitPhase { return s.phase }
func (s *Submission) Saving() bool       { return s.phase == SubmitSaving }
func (s *Submission) ErrorText() string  { return s.errText }
func (s *Submission) Notice() string     { return s.notice }

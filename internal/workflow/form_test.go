package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/five82/rentdesk/internal/catalog"
)

func validForm() CustomerForm {
	return CustomerForm{
		FirstName: "Mary",
		LastName:  "Smith",
		Email:     "mary.smith@sakilacustomer.org",
		Address:   "1913 Hanoi Way",
		District:  "Nagasaki",
		City:      "Sasebo",
		CountryID: "50",
		Active:    true,
	}
}

func TestCustomerForm_RequiredFields(t *testing.T) {
	blanks := map[string]func(*CustomerForm){
		"first name": func(f *CustomerForm) { f.FirstName = "" },
		"last name":  func(f *CustomerForm) { f.LastName = "   " },
		"email":      func(f *CustomerForm) { f.Email = "\t" },
		"address":    func(f *CustomerForm) { f.Address = "" },
		"district":   func(f *CustomerForm) { f.District = " " },
		"city":       func(f *CustomerForm) { f.City = "" },
		"country":    func(f *CustomerForm) { f.CountryID = "" },
	}
	for name, blank := range blanks {
		t.Run(name, func(t *testing.T) {
			form := validForm()
			blank(&form)
			_, err := form.Validate()
			require.Error(t, err)
			require.True(t, IsValidation(err))
			require.Equal(t, MsgRequired, err.Error())
		})
	}
}

func TestCustomerForm_PhoneIsOptional(t *testing.T) {
	form := validForm()
	form.Phone = ""
	in, err := form.Validate()
	require.NoError(t, err)
	require.Empty(t, in.Phone)
}

func TestCustomerForm_RequiredBeatsEmailFormat(t *testing.T) {
	form := validForm()
	form.Email = "abc"
	form.City = ""
	_, err := form.Validate()
	require.EqualError(t, err, MsgRequired)
}

func TestValidEmail(t *testing.T) {
	for _, ok := range []string{"a@b.c", "mary.smith@sakilacustomer.org"} {
		require.Truef(t, validEmail(ok), "validEmail(%q)", ok)
	}
	for _, bad := range []string{"abc", "a@b", "@b.c", "a b@c.d", "a@b@c.d"} {
		require.Falsef(t, validEmail(bad), "validEmail(%q)", bad)
	}

	form := validForm()
	form.Email = "a@b"
	_, err := form.Validate()
	require.EqualError(t, err, MsgInvalidEmail)
}

func TestCustomerForm_CoercesCountryAndTrims(t *testing.T) {
	form := validForm()
	form.FirstName = "  Mary "
	form.Phone = " 555-0100 "
	in, err := form.Validate()
	require.NoError(t, err)
	require.Equal(t, catalog.CustomerInput{
		FirstName: "Mary",
		LastName:  "Smith",
		Email:     "mary.smith@sakilacustomer.org",
		Phone:     "555-0100",
		Address:   "1913 Hanoi Way",
		District:  "Nagasaki",
		City:      "Sasebo",
		CountryID: 50,
		Active:    true,
	}, in)

	for _, bad := range []string{"Japan", "0", "-3"} {
		form.CountryID = bad
		_, err := form.Validate()
		require.EqualErrorf(t, err, MsgInvalidCountry, "country %q", bad)
	}
}

func TestFormFromCustomer(t *testing.T) {
	form := FormFromCustomer(catalog.Customer{FirstName: "Mary", CountryID: 50, Active: true})
	require.Equal(t, "50", form.CountryID)
	require.True(t, form.Active)

	form = FormFromCustomer(catalog.Customer{})
	require.Empty(t, form.CountryID)
	require.True(t, NewCustomerForm().Active)
}

func TestSubmission_Lifecycle(t *testing.T) {
	var s Submission
	s.Reject(&ValidationError{Message: MsgRequired})
	require.Equal(t, MsgRequired, s.ErrorText())
	require.Equal(t, SubmitIdle, s.Phase())

	require.True(t, s.Start())
	require.Empty(t, s.ErrorText(), "start clears prior error")
	require.True(t, s.Saving())
	require.False(t, s.Start(), "second start while saving")

	s.Fail(errors.New("Email already exists"), MsgUpdateFailed)
	require.Equal(t, SubmitFailed, s.Phase())
	require.Equal(t, "Email already exists", s.ErrorText())

	s.Edited()
	require.Empty(t, s.ErrorText())

	require.True(t, s.Start())
	s.Succeed(MsgUpdated)
	require.Equal(t, MsgUpdated, s.Notice())
	require.Equal(t, SubmitSucceeded, s.Phase())

	s.Settle()
	require.Empty(t, s.Notice())
	require.Equal(t, SubmitIdle, s.Phase())
}

func TestSubmission_IgnoresResultsWhenNotSaving(t *testing.T) {
	var s Submission
	s.Succeed(MsgCreated)
	s.Fail(errors.New("late"), MsgCreateFailed)
	require.Equal(t, SubmitIdle, s.Phase())
	require.Empty(t, s.Notice())
	require.Empty(t, s.ErrorText())
}

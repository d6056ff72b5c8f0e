package catalogtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/five82/rentdesk/internal/catalog"
)

func customers(n int) []catalog.Customer {
	out := make([]catalog.Customer, n)
	for i := range out {
		out[i] = catalog.Customer{ID: int64(i + 1), FirstName: fmt.Sprintf("First%d", i+1), LastName: "Jones"}
	}
	return out
}

func TestPaginate(t *testing.T) {
	all := customers(45)

	first := Paginate(all, 1, 20)
	require.Len(t, first.Customers, 20)
	require.Equal(t, catalog.Pagination{CurrentPage: 1, TotalPages: 3, TotalCustomers: 45, HasPrev: false, HasNext: true}, first.Pagination)

	last := Paginate(all, 3, 20)
	require.Len(t, last.Customers, 5)
	require.False(t, last.Pagination.HasNext)
	require.True(t, last.Pagination.HasPrev)
	require.Equal(t, int64(41), last.Customers[0].ID)

	past := Paginate(all, 9, 20)
	require.Empty(t, past.Customers)

	empty := Paginate(nil, 1, 20)
	require.Equal(t, 0, empty.Pagination.TotalPages)
	require.False(t, empty.Pagination.HasNext)
}

func TestFake_CustomersSearchMatchesIDOrName(t *testing.T) {
	fake := &Fake{CustomerList: append(customers(3), catalog.Customer{ID: 44, FirstName: "Mary", LastName: "Smith"})}

	page, err := fake.Customers(context.Background(), catalog.CustomerQuery{Page: 1, Limit: 20, Search: " smith "})
	require.NoError(t, err)
	require.Len(t, page.Customers, 1)
	require.Equal(t, "Smith", page.Customers[0].LastName)

	page, err = fake.Customers(context.Background(), catalog.CustomerQuery{Page: 1, Search: "2"})
	require.NoError(t, err)
	require.Len(t, page.Customers, 1)
	require.Equal(t, int64(2), page.Customers[0].ID)
	require.Equal(t, 2, fake.Calls("Customers"))
}

func TestFake_OfflineAndInjectedErrors(t *testing.T) {
	fake := &Fake{}
	fake.SetOffline(true)
	_, err := fake.TopFilms(context.Background(), 5)
	require.True(t, catalog.IsTransport(err))
	require.Equal(t, catalog.ConnectMessage, err.Error())

	fake.SetOffline(false)
	boom := &catalog.Error{Status: 500, Message: "boom"}
	fake.FailWith("TopFilms", boom)
	_, err = fake.TopFilms(context.Background(), 5)
	require.ErrorIs(t, err, boom)

	fake.FailWith("TopFilms", nil)
	_, err = fake.TopFilms(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, 3, fake.TotalCalls())
}

func TestFake_DeleteRefusesActiveRentals(t *testing.T) {
	fake := &Fake{CustomerList: customers(2), ActiveRentals: map[int64]int{1: 2}}

	err := fake.DeleteCustomer(context.Background(), 1)
	require.EqualError(t, err, "Customer has 2 active rentals")

	require.NoError(t, fake.DeleteCustomer(context.Background(), 2))
	require.Equal(t, []int64{2}, fake.Deleted)
	require.Len(t, fake.CustomerList, 1)
}

func TestFake_HoldBlocksUntilReleased(t *testing.T) {
	fake := &Fake{Available: map[int64]bool{1: true}}
	release := fake.Hold("FilmInventory")

	done := make(chan catalog.Inventory, 1)
	go func() {
		inv, _ := fake.FilmInventory(context.Background(), 1)
		done <- inv
	}()

	select {
	case <-done:
		t.Fatalf("FilmInventory returned before release")
	default:
	}
	release()
	require.True(t, (<-done).Available)
}

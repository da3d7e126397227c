package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icedepot/icedepot/internal/shared"
)

type fakeRepo struct {
	nextID    int64
	customers map[int64]Customer
	updates   map[string]interface{}
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, customers: map[int64]Customer{}}
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (f *fakeRepo) List(_ context.Context, _ ListCustomersRequest) ([]Customer, int, error) {
	out := make([]Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Create(_ context.Context, customer Customer) (int64, error) {
	id := f.nextID
	f.nextID++
	customer.ID = id
	f.customers[id] = customer
	return id, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	c, ok := f.customers[id]
	if !ok {
		return shared.ErrNotFound
	}
	f.updates = updates
	if v, ok := updates["name"].(string); ok {
		c.Name = v
	}
	if v, ok := updates["phone"]; ok {
		s, _ := v.(string)
		c.Phone = &s
	}
	f.customers[id] = c
	return nil
}

func TestCreateCustomerTrimsName(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	customer, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "  Polar Mart  "})
	require.NoError(t, err)
	assert.Equal(t, "Polar Mart", customer.Name)
}

func TestCreateCustomerRejectsBlankName(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "   "})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateCustomerNotFound(t *testing.T) {
	svc := NewService(newFakeRepo())

	name := "Someone"
	_, err := svc.Update(context.Background(), 42, UpdateCustomerRequest{Name: &name})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateCustomerAppliesChanges(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "Bay Cafe"})
	require.NoError(t, err)

	name := "Bayside Cafe"
	phone := "021-555-0101"
	updated, err := svc.Update(context.Background(), created.ID, UpdateCustomerRequest{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Bayside Cafe", updated.Name)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "021-555-0101", *updated.Phone)
}

func TestUpdateCustomerNoChangesReturnsExisting(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "Harbor Deli"})
	require.NoError(t, err)

	got, err := svc.Update(context.Background(), created.ID, UpdateCustomerRequest{})
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Nil(t, repo.updates)
}

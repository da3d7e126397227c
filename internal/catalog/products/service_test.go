package products

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icedepot/icedepot/internal/shared"
)

type fakeRepo struct {
	nextID   int64
	products map[int64]Product
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, products: map[int64]Product{}}
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (f *fakeRepo) GetBySKU(_ context.Context, sku string) (*Product, error) {
	for _, p := range f.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, _ ListProductsRequest) ([]Product, int, error) {
	out := make([]Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Create(_ context.Context, product Product) (int64, error) {
	for _, p := range f.products {
		if p.SKU == product.SKU {
			return 0, shared.ErrDuplicate
		}
	}
	id := f.nextID
	f.nextID++
	product.ID = id
	f.products[id] = product
	return id, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	p, ok := f.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	if v, ok := updates["name"].(string); ok {
		p.Name = v
	}
	if v, ok := updates["unit_price"].(float64); ok {
		p.UnitPrice = v
	}
	if v, ok := updates["active"].(bool); ok {
		p.Active = v
	}
	f.products[id] = p
	return nil
}

func TestCreateProductNormalizesSKU(t *testing.T) {
	svc := NewService(newFakeRepo())

	product, err := svc.Create(context.Background(), CreateProductRequest{
		SKU: " ice-5kg ", Name: "Ice Block 5kg", Unit: "bag", UnitPrice: 4.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "ICE-5KG", product.SKU)
	assert.True(t, product.Active)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateProductRequest{
		SKU: "ICE-5KG", Name: "Ice Block 5kg", Unit: "bag", UnitPrice: 4.5,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateProductRequest{
		SKU: "ice-5kg", Name: "Another", Unit: "bag", UnitPrice: 5,
	})
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateProductRequest{
		SKU: "ICE-5KG", Name: "Ice Block 5kg", Unit: "bag", UnitPrice: -1,
	})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateProductPriceAndDeactivate(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.Create(context.Background(), CreateProductRequest{
		SKU: "ICE-10KG", Name: "Ice Block 10kg", Unit: "bag", UnitPrice: 8,
	})
	require.NoError(t, err)

	price := 9.5
	active := false
	updated, err := svc.Update(context.Background(), created.ID, UpdateProductRequest{
		UnitPrice: &price, Active: &active,
	})
	require.NoError(t, err)
	assert.Equal(t, 9.5, updated.UnitPrice)
	assert.False(t, updated.Active)
}

func TestUpdateProductNotFound(t *testing.T) {
	svc := NewService(newFakeRepo())

	price := 2.0
	_, err := svc.Update(context.Background(), 99, UpdateProductRequest{UnitPrice: &price})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icedepot/icedepot/internal/catalog/products"
	"github.com/icedepot/icedepot/internal/shared"
)

type fakeOrderRepo struct {
	nextID  int64
	orders  map[int64]*Order
	items   map[int64][]OrderItem
	counter map[string]int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		nextID:  1,
		orders:  map[int64]*Order{},
		items:   map[int64][]OrderItem{},
		counter: map[string]int{},
	}
}

func (f *fakeOrderRepo) Create(_ context.Context, order Order, items []OrderItem) (int64, string, error) {
	day := DayKey(time.Now())
	f.counter[day]++
	order.OrderNo = FormatOrderNo(day, f.counter[day])

	id := f.nextID
	f.nextID++
	order.ID = id
	order.Version = 1
	order.CreatedAt = time.Now()
	f.orders[id] = &order
	f.items[id] = items
	return id, order.OrderNo, nil
}

func (f *fakeOrderRepo) Get(_ context.Context, id int64) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *o
	copied.Items = f.items[id]
	return &copied, nil
}

func (f *fakeOrderRepo) List(_ context.Context) ([]Order, error) {
	var out []Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderRepo) History(_ context.Context, filter HistoryFilter) ([]Order, error) {
	var out []Order
	for _, o := range f.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		out = append(out, *o)
		if len(out) == HistoryLimit {
			break
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id int64, status Status, expectedVersion int) error {
	o, ok := f.orders[id]
	if !ok {
		return shared.ErrNotFound
	}
	if o.Version != expectedVersion {
		return shared.ErrVersionConflict
	}
	o.Status = status
	o.Version++
	return nil
}

type fakeProductRepo struct {
	products map[int64]products.Product
}

func (f *fakeProductRepo) Get(_ context.Context, id int64) (*products.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProductRepo) GetBySKU(_ context.Context, _ string) (*products.Product, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeProductRepo) List(_ context.Context, _ products.ListProductsRequest) ([]products.Product, int, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) Create(_ context.Context, _ products.Product) (int64, error) {
	return 0, nil
}

func (f *fakeProductRepo) Update(_ context.Context, _ int64, _ map[string]interface{}) error {
	return nil
}

func newService() (*Service, *fakeOrderRepo) {
	repo := newFakeOrderRepo()
	productRepo := &fakeProductRepo{products: map[int64]products.Product{
		1: {ID: 1, SKU: "ICE-2KG", Name: "Ice 2kg", Unit: "bag", UnitPrice: 15, Active: true},
		2: {ID: 2, SKU: "ICE-5KG", Name: "Ice 5kg", Unit: "bag", UnitPrice: 30, Active: true},
	}}
	return NewService(repo, productRepo), repo
}

func createOrder(t *testing.T, svc *Service, lines ...OrderLineInput) *Order {
	t.Helper()
	order, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID:   1,
		DeliveryType: DeliveryTypeDelivery,
		Lines:        lines,
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrderComputesSubtotalFromSnapshots(t *testing.T) {
	svc, _ := newService()

	order := createOrder(t, svc,
		OrderLineInput{ProductID: 1, Qty: 2},
		OrderLineInput{ProductID: 2, Qty: 1},
	)

	assert.Equal(t, StatusNew, order.Status)
	assert.Equal(t, 60.0, order.Subtotal)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 15.0, order.Items[0].UnitPriceSnapshot)
	assert.Equal(t, 30.0, order.Items[0].LineTotal)
}

func TestCreateOrderNumbersIncreaseWithinDay(t *testing.T) {
	svc, _ := newService()

	day := DayKey(time.Now())
	first := createOrder(t, svc, OrderLineInput{ProductID: 1, Qty: 1})
	second := createOrder(t, svc, OrderLineInput{ProductID: 1, Qty: 1})

	assert.Equal(t, fmt.Sprintf("%s-001", day), first.OrderNo)
	assert.Equal(t, fmt.Sprintf("%s-002", day), second.OrderNo)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID:   1,
		DeliveryType: DeliveryTypeDelivery,
		Lines:        []OrderLineInput{{ProductID: 999, Qty: 1}},
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateOrderEmptyLines(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID:   1,
		DeliveryType: DeliveryTypeDelivery,
	})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestConfirmIsIdempotent(t *testing.T) {
	svc, _ := newService()
	order := createOrder(t, svc, OrderLineInput{ProductID: 1, Qty: 1})

	confirmed, err := svc.Confirm(context.Background(), order.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)

	again, err := svc.Confirm(context.Background(), order.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, again.Status)
	assert.Equal(t, confirmed.Version, again.Version)
}

func TestConfirmRejectsTerminalStates(t *testing.T) {
	svc, repo := newService()
	order := createOrder(t, svc, OrderLineInput{ProductID: 1, Qty: 1})
	repo.orders[order.ID].Status = StatusDelivered

	_, err := svc.Confirm(context.Background(), order.ID, nil)
	assert.ErrorIs(t, err, shared.ErrPrecondition)

	repo.orders[order.ID].Status = StatusCanceled
	_, err = svc.Confirm(context.Background(), order.ID, nil)
	assert.ErrorIs(t, err, shared.ErrPrecondition)
}

func TestConfirmMissingOrder(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Confirm(context.Background(), 404, nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCancelFailsOnlyWhenDelivered(t *testing.T) {
	svc, repo := newService()
	order := createOrder(t, svc, OrderLineInput{ProductID: 1, Qty: 1})

	for _, status := range []Status{StatusNew, StatusConfirmed, StatusOutForDelivery, StatusReadyForPickup} {
		repo.orders[order.ID].Status = status
		canceled, err := svc.Cancel(context.Background(), order.ID, nil)
		require.NoError(t, err, string(status))
		assert.Equal(t, StatusCanceled, canceled.Status)
	}

	repo.orders[order.ID].Status = StatusDelivered
	_, err := svc.Cancel(context.Background(), order.ID, nil)
	assert.ErrorIs(t, err, shared.ErrPrecondition)
}

func TestConfirmEnforcesVersionWhenSupplied(t *testing.T) {
	svc, _ := newService()
	order := createOrder(t, svc, OrderLineInput{ProductID: 1, Qty: 1})

	stale := order.Version + 5
	_, err := svc.Confirm(context.Background(), order.ID, &stale)
	assert.ErrorIs(t, err, shared.ErrVersionConflict)

	current := order.Version
	_, err = svc.Confirm(context.Background(), order.ID, &current)
	assert.NoError(t, err)
}

func TestMarkReadyForPickupAndCollected(t *testing.T) {
	svc, _ := newService()
	order := createOrder(t, svc, OrderLineInput{ProductID: 1, Qty: 1})

	ready, err := svc.MarkReadyForPickup(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusReadyForPickup, ready.Status)

	collected, err := svc.MarkCollected(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPickedUp, collected.Status)
}

func TestHistoryRejectsUnknownStatus(t *testing.T) {
	svc, _ := newService()

	bogus := Status("SHIPPED")
	_, err := svc.History(context.Background(), HistoryFilter{Status: &bogus})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

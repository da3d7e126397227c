package fleet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icedepot/icedepot/internal/shared"
)

type fakeRepo struct {
	nextID   int64
	drivers  map[int64]Driver
	vehicles map[int64]Vehicle
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, drivers: map[int64]Driver{}, vehicles: map[int64]Vehicle{}}
}

func (f *fakeRepo) GetDriver(_ context.Context, id int64) (*Driver, error) {
	d, ok := f.drivers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &d, nil
}

func (f *fakeRepo) ListDrivers(_ context.Context, activeOnly bool) ([]Driver, error) {
	var out []Driver
	for _, d := range f.drivers {
		if activeOnly && !d.Active {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeRepo) CreateDriver(_ context.Context, driver Driver) (int64, error) {
	id := f.nextID
	f.nextID++
	driver.ID = id
	f.drivers[id] = driver
	return id, nil
}

func (f *fakeRepo) UpdateDriver(_ context.Context, id int64, updates map[string]interface{}) error {
	d, ok := f.drivers[id]
	if !ok {
		return shared.ErrNotFound
	}
	if v, ok := updates["active"].(bool); ok {
		d.Active = v
	}
	if v, ok := updates["name"].(string); ok {
		d.Name = v
	}
	f.drivers[id] = d
	return nil
}

func (f *fakeRepo) GetVehicle(_ context.Context, id int64) (*Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &v, nil
}

func (f *fakeRepo) ListVehicles(_ context.Context, activeOnly bool) ([]Vehicle, error) {
	var out []Vehicle
	for _, v := range f.vehicles {
		if activeOnly && !v.Active {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeRepo) CreateVehicle(_ context.Context, vehicle Vehicle) (int64, error) {
	for _, v := range f.vehicles {
		if v.Plate == vehicle.Plate {
			return 0, shared.ErrDuplicate
		}
	}
	id := f.nextID
	f.nextID++
	vehicle.ID = id
	f.vehicles[id] = vehicle
	return id, nil
}

func (f *fakeRepo) UpdateVehicle(_ context.Context, id int64, updates map[string]interface{}) error {
	v, ok := f.vehicles[id]
	if !ok {
		return shared.ErrNotFound
	}
	if a, ok := updates["active"].(bool); ok {
		v.Active = a
	}
	if l, ok := updates["label"].(string); ok {
		v.Label = l
	}
	f.vehicles[id] = v
	return nil
}

func TestCreateDriverActiveByDefault(t *testing.T) {
	svc := NewService(newFakeRepo())

	driver, err := svc.CreateDriver(context.Background(), CreateDriverRequest{Name: " Sam Porter "})
	require.NoError(t, err)
	assert.Equal(t, "Sam Porter", driver.Name)
	assert.True(t, driver.Active)
}

func TestDeactivateDriverFiltersActiveList(t *testing.T) {
	svc := NewService(newFakeRepo())

	driver, err := svc.CreateDriver(context.Background(), CreateDriverRequest{Name: "Sam Porter"})
	require.NoError(t, err)

	inactive := false
	_, err = svc.UpdateDriver(context.Background(), driver.ID, UpdateDriverRequest{Active: &inactive})
	require.NoError(t, err)

	active, err := svc.ListDrivers(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCreateVehicleNormalizesPlate(t *testing.T) {
	svc := NewService(newFakeRepo())

	vehicle, err := svc.CreateVehicle(context.Background(), CreateVehicleRequest{Plate: " ab-1234 ", Label: "Reefer van"})
	require.NoError(t, err)
	assert.Equal(t, "AB-1234", vehicle.Plate)
}

func TestCreateVehicleDuplicatePlate(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CreateVehicle(context.Background(), CreateVehicleRequest{Plate: "AB-1234", Label: "Reefer van"})
	require.NoError(t, err)

	_, err = svc.CreateVehicle(context.Background(), CreateVehicleRequest{Plate: "ab-1234", Label: "Second van"})
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

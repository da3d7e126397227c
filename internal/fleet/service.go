package fleet

import (
	"context"
	"fmt"
	"strings"

	"github.com/icedepot/icedepot/internal/shared"
)

// Service handles driver and vehicle business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateDriver registers a new driver.
func (s *Service) CreateDriver(ctx context.Context, req CreateDriverRequest) (*Driver, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: driver name required", shared.ErrValidation)
	}

	id, err := s.repo.CreateDriver(ctx, Driver{Name: name, Phone: req.Phone, Active: true})
	if err != nil {
		return nil, fmt.Errorf("create driver: %w", err)
	}
	return s.repo.GetDriver(ctx, id)
}

// UpdateDriver applies partial updates to a driver.
func (s *Service) UpdateDriver(ctx context.Context, id int64, req UpdateDriverRequest) (*Driver, error) {
	existing, err := s.repo.GetDriver(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get driver: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: driver name required", shared.ErrValidation)
		}
		updates["name"] = name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) == 0 {
		return existing, nil
	}
	if err := s.repo.UpdateDriver(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update driver: %w", err)
	}
	return s.repo.GetDriver(ctx, id)
}

// ListDrivers returns drivers, optionally active ones only.
func (s *Service) ListDrivers(ctx context.Context, activeOnly bool) ([]Driver, error) {
	return s.repo.ListDrivers(ctx, activeOnly)
}

// CreateVehicle registers a new vehicle. Plates are normalized to upper case.
func (s *Service) CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*Vehicle, error) {
	plate := strings.ToUpper(strings.TrimSpace(req.Plate))
	label := strings.TrimSpace(req.Label)
	if plate == "" || label == "" {
		return nil, fmt.Errorf("%w: plate and label required", shared.ErrValidation)
	}

	id, err := s.repo.CreateVehicle(ctx, Vehicle{Plate: plate, Label: label, Active: true})
	if err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	return s.repo.GetVehicle(ctx, id)
}

// UpdateVehicle applies partial updates to a vehicle.
func (s *Service) UpdateVehicle(ctx context.Context, id int64, req UpdateVehicleRequest) (*Vehicle, error) {
	existing, err := s.repo.GetVehicle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get vehicle: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Label != nil {
		label := strings.TrimSpace(*req.Label)
		if label == "" {
			return nil, fmt.Errorf("%w: vehicle label required", shared.ErrValidation)
		}
		updates["label"] = label
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) == 0 {
		return existing, nil
	}
	if err := s.repo.UpdateVehicle(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	return s.repo.GetVehicle(ctx, id)
}

// ListVehicles returns vehicles, optionally active ones only.
func (s *Service) ListVehicles(ctx context.Context, activeOnly bool) ([]Vehicle, error) {
	return s.repo.ListVehicles(ctx, activeOnly)
}

package fleet

import "time"

// Driver is a person who can be assigned to a delivery run.
type Driver struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Vehicle is a truck or van that can be assigned to a delivery run.
type Vehicle struct {
	ID        int64     `json:"id"`
	Plate     string    `json:"plate"`
	Label     string    `json:"label"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateDriverRequest carries input for registering a driver.
type CreateDriverRequest struct {
	Name  string  `json:"name" validate:"required,max=120"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// UpdateDriverRequest carries partial updates; nil fields are left unchanged.
type UpdateDriverRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Phone  *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Active *bool   `json:"active,omitempty"`
}

// CreateVehicleRequest carries input for registering a vehicle.
type CreateVehicleRequest struct {
	Plate string `json:"plate" validate:"required,max=20"`
	Label string `json:"label" validate:"required,max=80"`
}

// UpdateVehicleRequest carries partial updates; nil fields are left unchanged.
type UpdateVehicleRequest struct {
	Label  *string `json:"label,omitempty" validate:"omitempty,max=80"`
	Active *bool   `json:"active,omitempty"`
}

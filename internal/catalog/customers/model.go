package customers

import "time"

// Customer is a buyer on record. Customers referenced by orders are never
// deleted; there is no delete operation.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCustomerRequest carries input for creating a customer.
type CreateCustomerRequest struct {
	Name    string  `json:"name" validate:"required,max=120"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email,max=200"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=300"`
}

// UpdateCustomerRequest carries partial updates; nil fields are left unchanged.
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email,max=200"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=300"`
}

// ListCustomersRequest filters the customer listing.
type ListCustomersRequest struct {
	Search *string
	Limit  int
	Offset int
}

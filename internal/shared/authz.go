package shared

// Permissions declared for role gating across the application.
const (
	// Catalog
	PermCustomerView   = "catalog.customer.view"
	PermCustomerCreate = "catalog.customer.create"
	PermCustomerEdit   = "catalog.customer.edit"
	PermProductView    = "catalog.product.view"
	PermProductCreate  = "catalog.product.create"
	PermProductEdit    = "catalog.product.edit"

	// Orders
	PermOrderView    = "orders.view"
	PermOrderCreate  = "orders.create"
	PermOrderConfirm = "orders.confirm"
	PermOrderCancel  = "orders.cancel"
	PermOrderPickup  = "orders.pickup"

	// Payments
	PermPaymentView   = "payments.view"
	PermPaymentRecord = "payments.record"

	// Delivery runs
	PermRunView     = "runs.view"
	PermRunCreate   = "runs.create"
	PermRunDeliver  = "runs.deliver"
	PermRunAddOrder = "runs.add_order"
	PermRunStatus   = "runs.status"

	// Fleet reference lists
	PermFleetView = "fleet.view"
	PermFleetEdit = "fleet.edit"

	// POD files
	PermPodUpload   = "pod.upload"
	PermPodDownload = "pod.download"

	// Dashboard
	PermDashboardView = "dashboard.view"
)

// ClerkScopes lists permissions granted to the clerk role.
func ClerkScopes() []string {
	return []string{
		PermCustomerView, PermCustomerCreate, PermCustomerEdit,
		PermProductView, PermProductCreate, PermProductEdit,
		PermOrderView, PermOrderCreate, PermOrderConfirm, PermOrderCancel, PermOrderPickup,
		PermPaymentView, PermPaymentRecord,
		PermFleetView,
		PermPodDownload,
	}
}

// DriverScopes lists permissions granted to the driver role.
func DriverScopes() []string {
	return []string{
		PermRunView, PermRunDeliver,
		PermFleetView,
		PermPodUpload, PermPodDownload,
	}
}

// ManagerScopes lists permissions granted to the manager role: everything.
func ManagerScopes() []string {
	scopes := append([]string{}, ClerkScopes()...)
	scopes = append(scopes, DriverScopes()...)
	scopes = append(scopes,
		PermRunCreate, PermRunAddOrder, PermRunStatus,
		PermFleetEdit,
		PermDashboardView,
	)
	return scopes
}

package usecase

// Published on the order.placed queue after a checkout succeeds.
type OrderPlacedMsg struct {
	OrderID     string `json:"orderId"`
	Customer    string `json:"customer"`
	Total       string `json:"total"`
	Destination string `json:"destination"`
	Text        string `json:"text"`
}

// Catalog resource kinds and actions.
const (
	KindProduct  = "product"
	KindCategory = "category"

	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionReordered = "reordered"
)

// Published on the catalog.changed topic after any catalog write.
type CatalogChangedMsg struct {
	Kind   string `json:"kind"`
	ID     string `json:"id,omitempty"`
	Action string `json:"action"`
}

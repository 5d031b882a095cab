package domain

// ServicePriceItem is one priced catalog entry as served by the backend.
// serviceKey plus key form the composite identity a cart item refers to.
type ServicePriceItem struct {
	ID           string   `json:"_id,omitempty"`
	ServiceKey   string   `json:"serviceKey"`
	Key          string   `json:"key"`
	Name         string   `json:"name"`
	Subtitle     string   `json:"subtitle,omitempty"`
	UnitPrice    *float64 `json:"unitPrice,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	DisplayPrice string   `json:"displayPrice,omitempty"`
	Active       *bool    `json:"active,omitempty"`
	SortOrder    int      `json:"sortOrder,omitempty"`
	Image        string   `json:"image,omitempty"`
}

// Coupon is the result of a successful validation call. It lives only for the
// current session and is never persisted with the cart.
type Coupon struct {
	Code        string  `json:"code"`
	Discount    float64 `json:"discount"`
	Description string  `json:"description,omitempty"`
}

// UserProfile is the authenticated profile returned by the backend.
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

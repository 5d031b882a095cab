package domain

import "encoding/json"

// LineItem is one entry in the cart. Items are pushed by several different
// producer pages (bag pricing, dry cleaning, cleaning categories, subscription
// plans) and share no required shape beyond quantity, so every field here is
// optional and unknown fields round-trip through Extra untouched.
type LineItem struct {
	Name          string   `json:"name,omitempty"`
	PlanName      string   `json:"planName,omitempty"`
	CategoryLabel string   `json:"categoryLabel,omitempty"`
	ServiceType   string   `json:"serviceType,omitempty"`
	UnitPrice     *float64 `json:"unitPrice,omitempty"`
	// Price is the legacy field name some producers still write.
	Price        *float64 `json:"price,omitempty"`
	ServiceKey   string   `json:"serviceKey,omitempty"`
	Key          string   `json:"key,omitempty"`
	EstimatedMin *float64 `json:"estimatedMin,omitempty"`
	EstimatedMax *float64 `json:"estimatedMax,omitempty"`
	Quantity     int      `json:"quantity,omitempty"`
	Unit         string   `json:"unit,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Image        string   `json:"image,omitempty"`
	AddedAt      string   `json:"addedAt,omitempty"`

	// Extra carries producer-specific fields (planKey, categoryKey, cycle, ...)
	// that the core never interprets but must not drop on re-persist.
	Extra map[string]json.RawMessage `json:"-"`
}

var knownItemFields = map[string]struct{}{
	"name": {}, "planName": {}, "categoryLabel": {}, "serviceType": {},
	"unitPrice": {}, "price": {}, "serviceKey": {}, "key": {},
	"estimatedMin": {}, "estimatedMax": {}, "quantity": {}, "unit": {},
	"notes": {}, "image": {}, "addedAt": {},
}

type lineItemAlias LineItem

func (li *LineItem) UnmarshalJSON(data []byte) error {
	var alias lineItemAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range knownItemFields {
		delete(raw, k)
	}
	if len(raw) > 0 {
		alias.Extra = raw
	}
	*li = LineItem(alias)
	return nil
}

func (li LineItem) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(lineItemAlias(li))
	if err != nil {
		return nil, err
	}
	if len(li.Extra) == 0 {
		return base, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range li.Extra {
		if _, known := knownItemFields[k]; known {
			continue
		}
		merged[k] = v
	}
	return json.Marshal(merged)
}

// DisplayName picks a label depending on which producer page created the item.
func (li *LineItem) DisplayName() string {
	for _, s := range []string{li.Name, li.PlanName, li.CategoryLabel, li.ServiceType} {
		if s != "" {
			return s
		}
	}
	return "Item"
}

// ResolvedUnitPrice returns the exact per-unit price if the item has one,
// preferring unitPrice over the legacy price field.
func (li *LineItem) ResolvedUnitPrice() (float64, bool) {
	if li.UnitPrice != nil {
		return *li.UnitPrice, true
	}
	if li.Price != nil {
		return *li.Price, true
	}
	return 0, false
}

// NormalizedQuantity floors the stored quantity at 1 for display and
// multiplication. It never rewrites the stored value.
func (li *LineItem) NormalizedQuantity() int {
	if li.Quantity < 1 {
		return 1
	}
	return li.Quantity
}

// Pending reports whether the item references a catalog entry but has no
// resolved price yet, i.e. it should be reconciled against current prices.
func (li *LineItem) Pending() bool {
	return li.ServiceKey != "" && li.Key != "" && li.UnitPrice == nil
}

// HasEstimate reports whether at least one estimate bound is present.
func (li *LineItem) HasEstimate() bool {
	return li.EstimatedMin != nil || li.EstimatedMax != nil
}

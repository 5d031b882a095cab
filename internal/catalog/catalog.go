// Package catalog builds cart line items from priced catalog options, the way
// the service pricing pages do it: exact unit price when the catalog has one,
// otherwise estimate bounds parsed out of the display label.
package catalog

import (
	"time"

	"github.com/Sly2277/BookNclean/internal/domain"
	"github.com/Sly2277/BookNclean/internal/pricing"
)

// Service keys of the priced catalogs.
const (
	ServiceWashDryFold    = "wash-dry-fold"
	ServiceCarpetCleaning = "carpet-cleaning"
)

// Option is one selectable catalog entry on a pricing page.
type Option struct {
	Key          string
	Name         string
	Subtitle     string
	UnitPrice    *float64
	DisplayPrice string
}

// FromPriceItem converts a backend catalog entry into a page option.
func FromPriceItem(p domain.ServicePriceItem) Option {
	return Option{
		Key:          p.Key,
		Name:         p.Name,
		Subtitle:     p.Subtitle,
		UnitPrice:    p.UnitPrice,
		DisplayPrice: p.DisplayPrice,
	}
}

// LineItem builds the cart entry for an option. Options without an exact unit
// price get estimate bounds from their display label so the cart can show a
// range until reconciliation resolves a price.
func (o Option) LineItem(serviceKey, serviceType, image, notes string) domain.LineItem {
	item := domain.LineItem{
		Name:        o.Name,
		UnitPrice:   o.UnitPrice,
		ServiceKey:  serviceKey,
		Key:         o.Key,
		Quantity:    1,
		Notes:       notes,
		ServiceType: serviceType,
		Image:       image,
		AddedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if o.UnitPrice == nil {
		bounds := pricing.ParseDisplayPrice(o.DisplayPrice)
		item.EstimatedMin = bounds.Min
		item.EstimatedMax = bounds.Max
	}
	return item
}

// DefaultWashDryFoldOptions are the placeholder bag sizes shown when the
// backend price list cannot be loaded.
func DefaultWashDryFoldOptions() []Option {
	return []Option{
		{Key: "small", Name: "Small Bag", Subtitle: "≈ up to 7kg", DisplayPrice: "₵99.99"},
		{Key: "medium", Name: "Medium Bag", Subtitle: "≈ 8–12kg", DisplayPrice: "₵65–₵95"},
		{Key: "large", Name: "Large Bag", Subtitle: "≈ 13–17kg", DisplayPrice: "₵100–₵135"},
		{Key: "xl", Name: "Extra Large Bag", Subtitle: "18kg+", DisplayPrice: "₵140+"},
	}
}

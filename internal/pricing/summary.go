package pricing

import (
	"github.com/Sly2277/BookNclean/internal/domain"
)

// Delivery is always free. Business rule, not a computed quantity.
const DeliveryFee = 0

// Summary holds the order-summary figures for the current cart. When Exact is
// false no item carries a resolved price, and the UI should show the
// estimated range instead of Subtotal/Total.
type Summary struct {
	Subtotal     float64
	EstimatedMin float64
	EstimatedMax float64
	Discount     float64
	DeliveryFee  float64
	Total        float64
	// TotalMin/TotalMax are the estimated totals, each floored at zero.
	TotalMin float64
	TotalMax float64
	Exact    bool
}

// Summarize computes cart totals from the line items and an optional coupon.
// Each item is in one of three states: resolved unit price, estimate bounds,
// or price to be confirmed. All three contribute without error: unpriced
// items simply add nothing.
func Summarize(items []domain.LineItem, coupon *domain.Coupon) Summary {
	var s Summary
	for i := range items {
		li := &items[i]
		qty := float64(li.NormalizedQuantity())
		if price, ok := li.ResolvedUnitPrice(); ok {
			s.Subtotal += price * qty
			s.EstimatedMin += price * qty
			s.EstimatedMax += price * qty
			continue
		}
		if li.HasEstimate() {
			min := 0.0
			if li.EstimatedMin != nil {
				min = *li.EstimatedMin
			}
			max := min
			if li.EstimatedMax != nil {
				max = *li.EstimatedMax
			}
			s.EstimatedMin += min * qty
			s.EstimatedMax += max * qty
		}
	}
	if coupon != nil {
		s.Discount = coupon.Discount
	}
	s.DeliveryFee = DeliveryFee
	s.Total = floorZero(s.Subtotal - s.Discount + s.DeliveryFee)
	s.TotalMin = floorZero(s.EstimatedMin - s.Discount + s.DeliveryFee)
	s.TotalMax = floorZero(s.EstimatedMax - s.Discount + s.DeliveryFee)
	s.Exact = s.Subtotal > 0
	return s
}

func floorZero(n float64) float64 {
	if n < 0 {
		return 0
	}
	return n
}

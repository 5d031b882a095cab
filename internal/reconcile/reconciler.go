// Package reconcile upgrades cart items that reference a catalog entry but
// have no resolved price yet, using the freshest backend prices.
package reconcile

import (
	"context"
	"sync"

	"github.com/Sly2277/BookNclean/internal/domain"
	"github.com/sirupsen/logrus"
)

// PriceFetcher is the slice of the backend client the reconciler needs.
type PriceFetcher interface {
	GetPrices(ctx context.Context, serviceKey string) ([]domain.ServicePriceItem, error)
}

type Reconciler struct {
	prices PriceFetcher
	log    logrus.FieldLogger
}

func New(prices PriceFetcher, log logrus.FieldLogger) *Reconciler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Reconciler{prices: prices, log: log}
}

// Reconcile fills in UnitPrice on pending items in place. Items are grouped
// by service key so each distinct key is fetched once; fetches run
// concurrently and a failed key only leaves its own items in their estimate
// state. Items are never removed or reordered, and nothing else about them
// changes.
func (r *Reconciler) Reconcile(ctx context.Context, items []domain.LineItem) {
	pending := make(map[string][]*domain.LineItem)
	for i := range items {
		if items[i].Pending() {
			sk := items[i].ServiceKey
			pending[sk] = append(pending[sk], &items[i])
		}
	}
	if len(pending) == 0 {
		return
	}

	var wg sync.WaitGroup
	for serviceKey, group := range pending {
		wg.Add(1)
		go func(serviceKey string, group []*domain.LineItem) {
			defer wg.Done()
			list, err := r.prices.GetPrices(ctx, serviceKey)
			if err != nil {
				// Silent degrade: the items keep their estimate or
				// "to be confirmed" state and the view still renders.
				r.log.WithError(err).WithField("serviceKey", serviceKey).
					Warn("price refresh failed, keeping estimates")
				return
			}
			if ctx.Err() != nil {
				return
			}
			byKey := make(map[string]domain.ServicePriceItem, len(list))
			for _, p := range list {
				byKey[p.Key] = p
			}
			for _, item := range group {
				if p, ok := byKey[item.Key]; ok && p.UnitPrice != nil {
					price := *p.UnitPrice
					item.UnitPrice = &price
				}
			}
		}(serviceKey, group)
	}
	wg.Wait()
}

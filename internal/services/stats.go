package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"bazario-backend/internal/models"
)

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type OrderStatsStore interface {
	Counter
	Revenue(ctx context.Context) (float64, error)
}

type RentalCounter interface {
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type Stats struct {
	Users          int64   `json:"users"`
	Products       int64   `json:"products"`
	Orders         int64   `json:"orders"`
	PendingRentals int64   `json:"pendingRentals"`
	Revenue        float64 `json:"revenue"`
}

type StatsService struct {
	users    Counter
	products Counter
	orders   OrderStatsStore
	rentals  RentalCounter
}

func NewStatsService(users, products Counter, orders OrderStatsStore, rentals RentalCounter) *StatsService {
	return &StatsService{users: users, products: products, orders: orders, rentals: rentals}
}

// Get gathers the dashboard figures concurrently; any failing read fails
// the whole call.
func (s *StatsService) Get(ctx context.Context) (*Stats, error) {
	var stats Stats

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.Users, err = s.users.Count(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Products, err = s.products.Count(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Orders, err = s.orders.Count(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.PendingRentals, err = s.rentals.CountByStatus(ctx, models.RentalPending)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Revenue, err = s.orders.Revenue(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

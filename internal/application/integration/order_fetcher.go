package integration

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/integration"
)

const (
	// defaultBurstSize is the number of item calls allowed before cooling down.
	defaultBurstSize = 20

	// defaultBurstCooldown is how long to pause once the burst is exhausted.
	defaultBurstCooldown = time.Hour
)

// ---------------------------------------------------------------------------
// Burst limiter
// ---------------------------------------------------------------------------

// burstLimiter counts line-item calls and pauses for the cooldown once the
// burst is spent. Order listing calls are not counted, and the counter
// starts fresh with every order page.
type burstLimiter struct {
	size     int
	cooldown time.Duration
	calls    int
	sleep    func(ctx context.Context, d time.Duration) error
}

func (b *burstLimiter) wait(ctx context.Context) error {
	if b.calls >= b.size {
		if err := b.sleep(ctx, b.cooldown); err != nil {
			return err
		}
		b.calls = 0
	}
	b.calls++
	return nil
}

// ---------------------------------------------------------------------------
// OrderFetcher
// ---------------------------------------------------------------------------

// OrderVisitFunc receives one remote order together with its complete line
// item list. Returning an error aborts the iteration.
type OrderVisitFunc func(ctx context.Context, order *integration.RemoteOrder, items []integration.RemoteOrderItem) error

// OrderFetcher walks the paginated order listing and hydrates each new
// order with its line items. Orders that already have a remote key mapping
// are skipped before any item call is spent on them.
type OrderFetcher struct {
	api    integration.MarketplaceAPI
	keys   integration.RemoteKeyStore
	logger *zap.Logger

	burstSize int
	cooldown  time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewOrderFetcher creates an OrderFetcher. Non-positive burst settings fall
// back to the defaults.
func NewOrderFetcher(api integration.MarketplaceAPI, keys integration.RemoteKeyStore, burstSize int, cooldown time.Duration, logger *zap.Logger) *OrderFetcher {
	if burstSize <= 0 {
		burstSize = defaultBurstSize
	}
	if cooldown <= 0 {
		cooldown = defaultBurstCooldown
	}
	return &OrderFetcher{
		api:       api,
		keys:      keys,
		logger:    logger,
		burstSize: burstSize,
		cooldown:  cooldown,
		sleep:     sleepContext,
	}
}

// Each visits every unmapped order matching the query, in listing order,
// with its full item list. Pagination follows the remote cursors until the
// listing is exhausted; any fetch or visit error aborts the walk.
func (f *OrderFetcher) Each(ctx context.Context, query integration.ListOrdersQuery, visit OrderVisitFunc) error {
	for {
		page, err := f.api.ListOrders(ctx, query)
		if err != nil {
			return err
		}

		limiter := &burstLimiter{size: f.burstSize, cooldown: f.cooldown, sleep: f.sleep}

		for i := range page.Orders {
			order := &page.Orders[i]

			known, err := f.isMapped(ctx, order.RemoteOrderID)
			if err != nil {
				return err
			}
			if known {
				f.logger.Debug("Skipping already imported order",
					zap.String("remote_order_id", order.RemoteOrderID),
				)
				continue
			}

			items, err := f.fetchItems(ctx, limiter, order.RemoteOrderID)
			if err != nil {
				return err
			}

			if err := visit(ctx, order, items); err != nil {
				return err
			}
		}

		if page.NextToken == "" {
			return nil
		}
		query.NextToken = page.NextToken
	}
}

func (f *OrderFetcher) isMapped(ctx context.Context, remoteOrderID string) (bool, error) {
	_, err := f.keys.GetLocal(ctx, integration.EntityTypeOrders, remoteOrderID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, integration.ErrRemoteKeyNotFound) {
		return false, nil
	}
	return false, err
}

func (f *OrderFetcher) fetchItems(ctx context.Context, limiter *burstLimiter, remoteOrderID string) ([]integration.RemoteOrderItem, error) {
	var (
		items     []integration.RemoteOrderItem
		nextToken string
	)

	for {
		if err := limiter.wait(ctx); err != nil {
			return nil, err
		}

		page, err := f.api.ListOrderItems(ctx, remoteOrderID, nextToken)
		if err != nil {
			return nil, err
		}

		items = append(items, page.Items...)

		if page.NextToken == "" {
			return items, nil
		}
		nextToken = page.NextToken
	}
}

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/threading"
)

var ErrUnknownQuery = errors.New("dashboard: unknown query")

// Result is the latest state of a query. Value keeps the last successful
// payload even when a later attempt fails; Err reports the latest attempt.
type Result struct {
	Key       string
	Value     any
	Err       error
	UpdatedAt time.Time
	FetchedAt time.Time
}

// Fresh reports whether a successful value is younger than staleTime.
func (r Result) Fresh(now time.Time, staleTime time.Duration) bool {
	return r.Err == nil && !r.UpdatedAt.IsZero() && now.Sub(r.UpdatedAt) < staleTime
}

type PollerOption func(*Poller)

// WithClock replaces time.Now for staleness checks.
func WithClock(now func() time.Time) PollerOption {
	return func(p *Poller) {
		if now != nil {
			p.now = now
		}
	}
}

// WithUpdateBuffer sizes the Updates channel. Updates are dropped when it is full.
func WithUpdateBuffer(n int) PollerOption {
	return func(p *Poller) {
		if n >= 0 {
			p.updates = make(chan Result, n)
		}
	}
}

// Poller runs every registered query on its own interval and keeps the
// latest result of each.
type Poller struct {
	mu      sync.RWMutex
	queries map[string]Query
	order   []string
	results map[string]Result

	now     func() time.Time
	updates chan Result
	group   *threading.RoutineGroup
	started bool
}

func NewPoller(opts ...PollerOption) *Poller {
	p := &Poller{
		queries: make(map[string]Query),
		results: make(map[string]Result),
		now:     time.Now,
		updates: make(chan Result, 16),
		group:   threading.NewRoutineGroup(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Add registers q. Queries must be added before Start.
func (p *Poller) Add(q Query) error {
	if q.Key == "" {
		return errors.New("dashboard: query key is required")
	}
	if q.Fetch == nil {
		return fmt.Errorf("dashboard: query %s has no fetch func", q.Key)
	}
	if q.RefreshInterval <= 0 {
		return fmt.Errorf("dashboard: query %s needs a positive refresh interval", q.Key)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return fmt.Errorf("dashboard: poller already started, cannot add %s", q.Key)
	}
	if _, dup := p.queries[q.Key]; dup {
		return fmt.Errorf("dashboard: duplicate query %s", q.Key)
	}
	p.queries[q.Key] = q
	p.order = append(p.order, q.Key)
	return nil
}

// Updates delivers every completed fetch.
func (p *Poller) Updates() <-chan Result {
	return p.updates
}

// Start launches one loop per query. Each fetches immediately and then on
// every tick until ctx is done.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	p.started = true
	queries := make([]Query, 0, len(p.order))
	for _, key := range p.order {
		queries = append(queries, p.queries[key])
	}
	p.mu.Unlock()

	for _, q := range queries {
		q := q
		p.group.RunSafe(func() {
			p.loop(ctx, q)
		})
	}
}

// Wait blocks until every loop started by Start has returned.
func (p *Poller) Wait() {
	p.group.Wait()
}

// Get returns the cached result when still fresh, otherwise fetches now.
func (p *Poller) Get(ctx context.Context, key string) (Result, error) {
	p.mu.RLock()
	q, ok := p.queries[key]
	cached := p.results[key]
	p.mu.RUnlock()
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownQuery, key)
	}
	if cached.Fresh(p.now(), q.StaleTime) {
		return cached, nil
	}
	res := p.fetch(ctx, q)
	return res, res.Err
}

// Latest returns the stored result without fetching.
func (p *Poller) Latest(key string) (Result, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	res, ok := p.results[key]
	return res, ok
}

func (p *Poller) loop(ctx context.Context, q Query) {
	ticker := time.NewTicker(q.RefreshInterval)
	defer ticker.Stop()

	p.fetch(ctx, q)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetch(ctx, q)
		}
	}
}

func (p *Poller) fetch(ctx context.Context, q Query) Result {
	if err := ctx.Err(); err != nil {
		return Result{Key: q.Key, Err: err}
	}
	value, err := q.Fetch(ctx)
	now := p.now()

	p.mu.Lock()
	res := p.results[q.Key]
	res.Key = q.Key
	res.FetchedAt = now
	res.Err = err
	if err == nil {
		res.Value = value
		res.UpdatedAt = now
	}
	p.results[q.Key] = res
	p.mu.Unlock()

	if err != nil {
		logx.WithContext(ctx).Errorf("dashboard: fetch %s failed: %v", q.Key, err)
	}
	select {
	case p.updates <- res:
	default:
	}
	return res
}

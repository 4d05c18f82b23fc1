package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ShopBot/internal/catalog"
)

// Store owns the in-memory user->cart mapping and writes it through the
// configured Persister after every mutation. One lock covers the whole
// read-modify-write-persist sequence, so two adds for the same user can
// never interleave.
type Store struct {
	mu      sync.RWMutex
	carts   map[string]Cart
	catalog *catalog.Store
	persist Persister
	log     *zap.Logger
	metrics *Metrics
}

func NewStore(ctx context.Context, cat *catalog.Store, p Persister, log *zap.Logger, m *Metrics) *Store {
	if p == nil {
		p = Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	carts, err := p.Load(ctx)
	if err != nil {
		// Known limitation: a corrupt snapshot means every cart persisted
		// before it is lost for this process. Recover with an empty store,
		// never crash.
		log.Warn("cart store unreadable, starting empty", zap.Error(err))
		if m != nil {
			m.LoadCorrupt.Inc()
		}
		carts = map[string]Cart{}
	}
	if carts == nil {
		carts = map[string]Cart{}
	}

	return &Store{carts: carts, catalog: cat, persist: p, log: log, metrics: m}
}

// GetOrCreate returns the user's cart, registering an empty one on first
// access. Registration is in-memory only; an empty cart reloads as empty
// regardless.
func (s *Store) GetOrCreate(userID string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[userID]
	if !ok {
		c = Cart{Items: []Line{}}
		s.carts[userID] = c
	}
	return c.clone()
}

// AddItem validates optionID against the catalog, bumps the matching line or
// appends a new one, and persists before reporting success. On any failure
// the cart is left exactly as it was.
func (s *Store) AddItem(ctx context.Context, userID, optionID string) (Cart, error) {
	if _, ok := s.catalog.FindOption(optionID); !ok {
		return Cart{}, ErrOptionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.carts[userID]
	next := prev.clone()

	bumped := false
	for i := range next.Items {
		if next.Items[i].OptionID == optionID {
			next.Items[i].Qty++
			bumped = true
			break
		}
	}
	if !bumped {
		next.Items = append(next.Items, Line{OptionID: optionID, Qty: 1})
	}

	if err := s.commitLocked(ctx, userID, prev, next); err != nil {
		return Cart{}, err
	}
	return next.clone(), nil
}

// Summary prices the current cart against the catalog. A line referencing an
// option the catalog no longer has is priced at zero and flagged rather than
// failing the whole view.
func (s *Store) Summary(userID string) Summary {
	s.mu.RLock()
	c := s.carts[userID].clone()
	s.mu.RUnlock()

	return s.summarize(userID, c)
}

// Clear resets the user's cart to empty and persists. Clearing an already
// empty cart is a no-op that still succeeds.
func (s *Store) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.carts[userID]
	return s.commitLocked(ctx, userID, prev, Cart{Items: []Line{}})
}

// Checkout finalizes a non-empty cart: snapshots its priced lines, resets it
// to empty, persists, and only then mints the order id. An empty cart fails
// with ErrEmptyCart and no order id is ever produced for it.
func (s *Store) Checkout(ctx context.Context, userID string) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.carts[userID]
	if prev.Empty() {
		return Receipt{}, ErrEmptyCart
	}

	sum := s.summarize(userID, prev)

	if err := s.commitLocked(ctx, userID, prev, Cart{Items: []Line{}}); err != nil {
		return Receipt{}, err
	}

	if s.metrics != nil {
		s.metrics.Checkouts.Inc()
	}

	return Receipt{
		OrderID:   "o_" + uuid.NewString(),
		UserID:    userID,
		Lines:     sum.Lines,
		Total:     sum.Total,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// commitLocked installs next, flushes, and rolls back to prev if the write
// fails. Callers hold the write lock.
func (s *Store) commitLocked(ctx context.Context, userID string, prev, next Cart) error {
	s.carts[userID] = next
	if err := s.persist.Flush(ctx, userID, next, s.carts); err != nil {
		s.carts[userID] = prev
		s.log.Error("cart flush failed, mutation rolled back",
			zap.Error(err), zap.String("user_id", userID))
		return err
	}
	return nil
}

func (s *Store) summarize(userID string, c Cart) Summary {
	sum := Summary{Lines: make([]SummaryLine, 0, len(c.Items))}

	for _, l := range c.Items {
		opt, ok := s.catalog.FindOption(l.OptionID)
		if !ok {
			s.log.Warn("cart line references unknown option",
				zap.String("user_id", userID), zap.String("option_id", l.OptionID))
			if s.metrics != nil {
				s.metrics.IntegrityFaults.Inc()
			}
			sum.Lines = append(sum.Lines, SummaryLine{
				OptionID: l.OptionID,
				Title:    l.OptionID,
				Qty:      l.Qty,
				Missing:  true,
			})
			continue
		}

		lineTotal := opt.Price * int64(l.Qty)
		sum.Lines = append(sum.Lines, SummaryLine{
			OptionID:  l.OptionID,
			Title:     opt.Title,
			UnitPrice: opt.Price,
			Qty:       l.Qty,
			LineTotal: lineTotal,
		})
		sum.Total += lineTotal
	}

	return sum
}

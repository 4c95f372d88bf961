package ordering

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"golden-palette/internal/models"
	"golden-palette/internal/services/cart"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one customer's ordering screen: a cart and the last confirmation
type Session struct {
	ID string

	mu        sync.Mutex
	cart      *cart.Cart
	lastOrder *models.Order
	lastSeen  time.Time
}

// AddItem merges quantity units of item into the cart
func (s *Session) AddItem(item models.MenuItem, quantity int) (*models.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cart.AddItem(item.Name, item.Price, item.Category, quantity, item.Image); err != nil {
		return nil, err
	}
	return s.cart.Summary(), nil
}

func (s *Session) Cart() *models.CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Summary()
}

// Checkout runs confirm against the current cart lines while holding the session
func (s *Session) Checkout(confirm func(lines []models.CartLine) (*models.Order, error)) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, err := confirm(s.cart.Lines())
	if err != nil {
		return nil, err
	}
	s.lastOrder = order
	return order, nil
}

func (s *Session) LastOrder() *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOrder
}

// SessionRegistry owns every live session. Idle sessions expire after ttl.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *SessionRegistry) Create() *Session {
	s := &Session{
		ID:       uuid.NewString(),
		cart:     cart.New(),
		lastSeen: r.now(),
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session and marks it as active
func (r *SessionRegistry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.lastSeen = r.now()
	return s, nil
}

func (r *SessionRegistry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the ttl and reports how many
// were removed. A zero ttl disables expiry.
func (r *SessionRegistry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done
func (r *SessionRegistry) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}

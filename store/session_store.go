package store

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"retailco/shopper/models"
	"retailco/shopper/utils"
)

// IdentityProber resolves the customer behind the current credential.
type IdentityProber interface {
	CurrentCustomer(ctx context.Context) (*models.Customer, error)
}

// SessionStore owns the bearer credential and the signed-in identity.
// The credential slot is read once when the store is opened and only
// written afterwards.
type SessionStore struct {
	mu       sync.RWMutex
	slot     CredentialStore
	token    string
	identity *models.Customer
	log      logrus.FieldLogger
	now      func() time.Time
}

// OpenSessionStore loads the durable credential. A slot that cannot be read
// is treated as empty.
func OpenSessionStore(ctx context.Context, slot CredentialStore, log logrus.FieldLogger) *SessionStore {
	s := &SessionStore{slot: slot, log: log, now: time.Now}
	token, err := slot.Load(ctx)
	if err != nil {
		log.WithError(err).Warn("Could not read stored credential, starting signed out")
		return s
	}
	s.token = token
	return s
}

// SetCredential replaces the in-memory token and persists it. An empty
// token clears the durable slot.
func (s *SessionStore) SetCredential(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if token == "" {
		return s.slot.Clear(ctx)
	}
	return s.slot.Save(ctx, token)
}

// Credential returns the current bearer token or "".
func (s *SessionStore) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *SessionStore) SetIdentity(c *models.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c == nil {
		s.identity = nil
		return
	}
	cp := *c
	s.identity = &cp
}

// Identity returns a copy of the signed-in customer, or nil.
func (s *SessionStore) Identity() *models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	cp := *s.identity
	return &cp
}

// Restore tries to resolve the identity for a stored credential. It never
// fails: any problem is logged and the session stays signed out.
func (s *SessionStore) Restore(ctx context.Context, prober IdentityProber) *models.Customer {
	token := s.Credential()
	if token == "" {
		return nil
	}
	if utils.TokenExpired(token, s.now()) {
		s.log.Info("Stored credential has expired, skipping session restore")
		return nil
	}

	customer, err := prober.CurrentCustomer(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Failed to restore session")
		return nil
	}
	if customer == nil {
		s.log.Warn("Session probe returned no customer")
		return nil
	}

	s.SetIdentity(customer)
	s.log.WithField("customer_id", customer.CustomerID).Info("Session restored")
	return s.Identity()
}

package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/infoscreen/infoscreen/internal/db/models"
)

const (
	opGet  = "get"
	opLoad = "load"
	opSet  = "set"

	// flightKey is the single-flight key for cold cache loads; there is only one record.
	flightKey = "settings"
)

// Repository is the persistence capability the store depends on.
type Repository interface {
	// Load returns the stored record or an error matching ErrNotFound if the table is empty.
	Load(ctx context.Context) (models.Settings, error)
	// Create inserts v if no record exists yet and returns the record that is stored afterwards.
	Create(ctx context.Context, v models.Settings) (models.Settings, error)
	// Save replaces the stored record with v, or inserts it if the table is empty.
	Save(ctx context.Context, v models.Settings) error
}

// Option configures a Store.
type Option func(*Store)

// WithIDPolicy sets the policy applied to writes carrying a foreign id.
func WithIDPolicy(p IDPolicy) Option {
	return func(s *Store) {
		s.policy = p
	}
}

// WithBackendTimeout bounds every backend call. Zero means no bound beyond the caller's context.
func WithBackendTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// WithIDGenerator replaces the id generator used for the default record.
func WithIDGenerator(f func() string) Option {
	return func(s *Store) {
		s.newID = f
	}
}

// Store keeps the settings record consistent between the repository and an in-process cache.
// It is safe for concurrent use.
type Store struct {
	repo      Repository
	policy    IDPolicy
	timeout   time.Duration
	newID     func() string
	validator *validator.Validate
	flight    singleflight.Group

	// writeMu orders Set calls so the cache always ends on the last durable write.
	writeMu sync.Mutex

	mu     sync.RWMutex
	cached *models.Settings
	// gen is bumped by every successful Set so a slower cold load cannot overwrite a newer value.
	gen uint64
}

// New creates a store on top of repo.
func New(repo Repository, opts ...Option) *Store {
	if repo == nil {
		panic("settings repository cannot be nil")
	}

	s := &Store{
		repo:      repo,
		policy:    IDPolicyAdopt,
		newID:     uuid.NewString,
		validator: validator.New(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Policy returns the id policy in use.
func (s *Store) Policy() IDPolicy {
	return s.policy
}

// Cached returns the cached record, if any, without touching the backend.
func (s *Store) Cached() (models.Settings, bool) {
	v, ok, _ := s.snapshot()
	return v, ok
}

// Get returns the current settings. On a cold cache the record is loaded from the repository,
// and created with default values if the table is empty.
func (s *Store) Get(ctx context.Context) (models.Settings, error) {
	return s.read(ctx, opGet, true)
}

// Load is Get without the default creation: on an empty table it returns an error matching ErrNotFound.
func (s *Store) Load(ctx context.Context) (models.Settings, error) {
	return s.read(ctx, opLoad, false)
}

// WarmUp populates the cache, creating the default record if needed.
func (s *Store) WarmUp(ctx context.Context) error {
	v, err := s.Get(ctx)
	if err != nil {
		return err
	}

	log.Info().Str("id", v.ID).Bool("dark_mode", v.DarkMode).Int("slide_interval", v.SlideInterval).
		Msg("settings cache warmed up")

	return nil
}

// Set validates v, persists it and then replaces the cached record with it.
func (s *Store) Set(ctx context.Context, v models.Settings) error {
	if err := s.validateSettings(v); err != nil {
		countError(opSet, err)
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.policy == IDPolicyReject {
		// an empty table accepts the first id
		current, err := s.Load(ctx)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		if err == nil && current.ID != v.ID {
			err = NewValidationError(opSet, fmt.Sprintf("ID %q does not match the stored settings", v.ID))
			countError(opSet, err)

			return err
		}
	}

	bctx, cancel := s.backendContext(ctx)
	defer cancel()

	if err := s.repo.Save(bctx, v); err != nil {
		err = classify(opSet, err)
		countError(opSet, err)

		return err
	}

	s.mu.Lock()
	s.cached = &v
	s.gen++
	s.mu.Unlock()

	log.Info().Str("id", v.ID).Bool("dark_mode", v.DarkMode).Int("slide_interval", v.SlideInterval).
		Msg("settings updated")

	return nil
}

func (s *Store) read(ctx context.Context, op string, create bool) (models.Settings, error) {
	if v, ok, _ := s.snapshot(); ok {
		cacheLookups.WithLabelValues("hit").Inc()
		return v, nil
	}

	cacheLookups.WithLabelValues("miss").Inc()

	key := flightKey
	if !create {
		key += ".nocreate"
	}

	// the shared load must not die with the first caller's context
	ch := s.flight.DoChan(key, func() (interface{}, error) {
		bctx, cancel := s.backendContext(context.WithoutCancel(ctx))
		defer cancel()

		return s.fill(bctx, op, create)
	})

	select {
	case <-ctx.Done():
		err := NewConnectionError(op, ctx.Err())
		countError(op, err)

		return models.Settings{}, err
	case res := <-ch:
		if res.Err != nil {
			return models.Settings{}, res.Err
		}

		return res.Val.(models.Settings), nil //nolint:forcetypeassert
	}
}

// fill loads (or creates) the record and stores it in the cache. Errors leave the cache untouched.
func (s *Store) fill(ctx context.Context, op string, create bool) (models.Settings, error) {
	cached, ok, gen := s.snapshot()
	if ok {
		return cached, nil
	}

	v, err := s.repo.Load(ctx)

	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound) && create:
		log.Debug().Msg("settings table is empty, creating default settings")

		v, err = s.repo.Create(ctx, models.DefaultSettings(s.newID()))
		if err != nil {
			err = classify(op, err)
			countError(op, err)

			return models.Settings{}, err
		}

		defaultsCreated.Inc()
	default:
		err = classify(op, err)
		countError(op, err)

		return models.Settings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen && s.cached != nil {
		return *s.cached, nil
	}

	s.cached = &v

	return v, nil
}

func (s *Store) snapshot() (models.Settings, bool, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cached == nil {
		return models.Settings{}, false, s.gen
	}

	return *s.cached, true, s.gen
}

func (s *Store) backendContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.timeout)
}

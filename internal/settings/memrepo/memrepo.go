// Package memrepo provides an in-memory settings repository for tests and database-less runs.
package memrepo

import (
	"context"
	"sync"

	"github.com/infoscreen/infoscreen/internal/db/models"
	"github.com/infoscreen/infoscreen/internal/settings"
)

// Repository is an in-memory settings.Repository holding at most one record.
type Repository struct {
	mu   sync.Mutex
	row  *models.Settings
	err  error
	gate chan struct{}

	loads   int
	creates int
	saves   int
}

// Ensure Repository implements settings.Repository.
var _ settings.Repository = (*Repository)(nil)

// New returns an empty repository.
func New() *Repository {
	return &Repository{}
}

// NewWith returns a repository already holding v.
func NewWith(v models.Settings) *Repository {
	return &Repository{row: &v}
}

// Fail makes every following call return err until Recover is called.
func (r *Repository) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.err = err
}

// Recover clears the failure set by Fail.
func (r *Repository) Recover() {
	r.Fail(nil)
}

// Block makes Load wait until the returned release func is called or the context ends.
func (r *Repository) Block() (release func()) {
	gate := make(chan struct{})

	r.mu.Lock()
	r.gate = gate
	r.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			r.mu.Lock()
			r.gate = nil
			r.mu.Unlock()
			close(gate)
		})
	}
}

// Row returns the stored record, if any.
func (r *Repository) Row() (models.Settings, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.row == nil {
		return models.Settings{}, false
	}

	return *r.row, true
}

// Loads returns how often Load was called.
func (r *Repository) Loads() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loads
}

// Creates returns how often Create was called.
func (r *Repository) Creates() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.creates
}

// Saves returns how often Save was called.
func (r *Repository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.saves
}

// Load implements settings.Repository.
func (r *Repository) Load(ctx context.Context) (models.Settings, error) {
	r.mu.Lock()
	r.loads++
	gate := r.gate
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return models.Settings{}, settings.NewConnectionError("load", ctx.Err())
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return models.Settings{}, r.err
	}

	if r.row == nil {
		return models.Settings{}, settings.NewNotFoundError("load")
	}

	return *r.row, nil
}

// Create implements settings.Repository.
func (r *Repository) Create(_ context.Context, v models.Settings) (models.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.creates++

	if r.err != nil {
		return models.Settings{}, r.err
	}

	if r.row == nil {
		r.row = &v
	}

	return *r.row, nil
}

// Save implements settings.Repository.
func (r *Repository) Save(_ context.Context, v models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.saves++

	if r.err != nil {
		return r.err
	}

	r.row = &v

	return nil
}

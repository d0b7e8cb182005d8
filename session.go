package formbuilder

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/storage"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

// Session pairs a store with the storage backend its state is persisted in.
type Session struct {
	Store *store.Store
	// Fresh is set when the backend held no saved state.
	Fresh bool

	storage storage.Storage
	logger  logrus.FieldLogger
}

// OpenSession restores the state saved in backend into a new store. Missing
// or invalid state starts an empty session.
func OpenSession(ctx context.Context, backend storage.Storage, logger logrus.FieldLogger, opts ...store.Option) (*Session, error) {
	if backend == nil {
		return nil, errors.New("formbuilder: storage is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	s := NewStore(append([]store.Option{store.WithLogger(logger)}, opts...)...)

	fresh := false
	data, err := backend.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		fresh = true
		logger.Debug("formbuilder: no saved state, starting empty")
	case err != nil:
		return nil, fmt.Errorf("formbuilder: load state: %w", err)
	default:
		s.RestoreState(data)
	}
	return &Session{Store: s, Fresh: fresh, storage: backend, logger: logger}, nil
}

// Save writes the persisted state back to storage.
func (s *Session) Save(ctx context.Context) error {
	data, err := s.Store.MarshalState()
	if err != nil {
		return fmt.Errorf("formbuilder: marshal state: %w", err)
	}
	if err := s.storage.Save(ctx, data); err != nil {
		return fmt.Errorf("formbuilder: save state: %w", err)
	}
	s.logger.WithField("forms", len(s.Store.SavedForms())).Debug("formbuilder: state saved")
	return nil
}

// Close releases the storage backend.
func (s *Session) Close() error {
	return s.storage.Close()
}

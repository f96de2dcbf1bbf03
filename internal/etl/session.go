package etl

import (
	"context"
	"errors"
	"fmt"

	"salesetl/internal/ddl"
	"salesetl/internal/storage"
)

// ErrSessionClosed is returned by Repository after Close.
var ErrSessionClosed = errors.New("session closed")

// Opener connects to the store.
type Opener func(ctx context.Context) (storage.Repository, error)

// Session owns the single store connection of a pipeline run. The connection
// is opened on first use and released by Close, which is safe to call any
// number of times.
type Session struct {
	open   Opener
	def    ddl.TableDef
	repo   storage.Repository
	ready  bool
	closed bool
}

// NewSession returns a session that opens connections with open and ensures
// def exists on first use.
func NewSession(open Opener, def ddl.TableDef) *Session {
	return &Session{open: open, def: def}
}

// StorageOpener opens a backend through the storage factory.
func StorageOpener(cfg storage.Config) Opener {
	return func(ctx context.Context) (storage.Repository, error) {
		return storage.New(ctx, cfg)
	}
}

// Table returns the managed table definition.
func (s *Session) Table() ddl.TableDef { return s.def }

// Opened reports whether a connection is currently held.
func (s *Session) Opened() bool { return s.repo != nil }

// Repository returns the connection, opening it and creating the table if
// needed.
func (s *Session) Repository(ctx context.Context) (storage.Repository, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.repo == nil {
		repo, err := s.open(ctx)
		if err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
		s.repo = repo
	}
	if !s.ready {
		if err := storage.EnsureTable(ctx, s.repo, s.def); err != nil {
			return nil, err
		}
		s.ready = true
	}
	return s.repo, nil
}

// Close releases the connection if one was opened.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.repo == nil {
		return nil
	}
	repo := s.repo
	s.repo = nil
	if err := repo.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

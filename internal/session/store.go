// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
Package session owns the authenticated-employee state of the CivicField
client: the persisted token + employee pair on disk, and the in-memory
session the rest of the program reads.

Store is the durable half (BadgerDB under ~/.civicfield/state). Manager
is the in-memory half and the only writer of the Store; everything else
reads the session through Manager and never touches Badger directly.
*/
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/civicfieldworks/civicfield/internal/api"
	"github.com/civicfieldworks/civicfield/pkg/logging"
)

// Storage keys. The token and employee record are always written and
// deleted together; a key existing without its partner means a previous
// write was interrupted, and Load treats that as no session.
const (
	keyToken    = "session/token"
	keyEmployee = "session/employee"
)

// StoreConfig configures the on-disk session store.
type StoreConfig struct {
	// Path is the directory for BadgerDB files. Required unless
	// InMemory is set.
	Path string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool

	// Logger receives store-level events. Token values are never logged.
	Logger *logging.Logger
}

// Store persists the session pair in an embedded BadgerDB.
//
// Thread Safety: safe for concurrent use; Badger transactions provide
// the atomicity.
type Store struct {
	db     *badger.DB
	logger *logging.Logger
}

// badgerLogger adapts our logger to BadgerDB's Logger interface so the
// database's own chatter lands in the same structured stream.
type badgerLogger struct {
	logger *logging.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenStore opens (creating if needed) the session database.
//
// # Inputs
//
//   - cfg: store configuration. Path is created with 0700 since it
//     holds a credential.
//
// # Outputs
//
//   - *Store: the opened store. Caller must Close().
//   - error: non-nil if the path is missing or Badger cannot open.
func OpenStore(cfg StoreConfig) (*Store, error) {
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("session store path is required")
		}
		if err := os.MkdirAll(cfg.Path, 0o700); err != nil {
			return nil, fmt.Errorf("create session store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.
		WithSyncWrites(!cfg.InMemory).
		WithNumVersionsToKeep(1).
		WithLogger(&badgerLogger{logger: log})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return &Store{db: db, logger: log}, nil
}

// Save writes the token and employee record in a single transaction.
// Either both land on disk or neither does.
func (s *Store) Save(token string, emp *api.Employee) error {
	if token == "" {
		return errors.New("refusing to persist an empty token")
	}
	if emp == nil {
		return errors.New("refusing to persist a session without an employee record")
	}
	data, err := json.Marshal(emp)
	if err != nil {
		return fmt.Errorf("encode employee record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(keyToken), []byte(token)); err != nil {
			return err
		}
		return txn.Set([]byte(keyEmployee), data)
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.logger.Debug("session persisted", "token_present", true, "employee_id", emp.EmployeeID)
	return nil
}

// Load reads the persisted session pair.
//
// # Outputs
//
//   - token, emp: the stored pair. Both zero when no session exists;
//     a missing partner key is treated the same as no session.
//   - error: non-nil only for real store failures (corrupt employee
//     JSON, I/O). Callers should treat an error as "no session" after
//     clearing the store.
func (s *Store) Load() (string, *api.Employee, error) {
	var token string
	var emp *api.Employee

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyToken))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(v []byte) error {
			token = string(v)
			return nil
		}); err != nil {
			return err
		}

		item, err = txn.Get([]byte(keyEmployee))
		if errors.Is(err, badger.ErrKeyNotFound) {
			// Interrupted write: token without employee. No session.
			token = ""
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			var e api.Employee
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("decode stored employee record: %w", err)
			}
			emp = &e
			return nil
		})
	})
	if err != nil {
		return "", nil, err
	}
	if token == "" || emp == nil {
		return "", nil, nil
	}
	return token, emp, nil
}

// Clear deletes both session keys in a single transaction. Clearing an
// already-empty store is a no-op.
func (s *Store) Clear() error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(keyToken)); err != nil {
			return err
		}
		return txn.Delete([]byte(keyEmployee))
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Debug("session cleared")
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

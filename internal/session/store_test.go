// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicfieldworks/civicfield/internal/api"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(StoreConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testEmployee() *api.Employee {
	return &api.Employee{
		ID:         "emp-1",
		EmployeeID: "EMP001",
		Name:       "Dana Reyes",
		Department: "Sanitation",
		IsActive:   true,
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save("tok-123", testEmployee()))

	token, emp, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	require.NotNil(t, emp)
	assert.Equal(t, "EMP001", emp.EmployeeID)
	assert.Equal(t, "Sanitation", emp.Department)
}

func TestStore_LoadEmpty(t *testing.T) {
	s := newTestStore(t)

	token, emp, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, emp)
}

func TestStore_TokenWithoutEmployeeIsNoSession(t *testing.T) {
	s := newTestStore(t)

	// Simulate an interrupted legacy write: token present, employee absent.
	require.NoError(t, s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyToken), []byte("orphan-tok"))
	}))

	token, emp, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, emp)
}

func TestStore_CorruptEmployeeIsError(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(keyToken), []byte("tok")); err != nil {
			return err
		}
		return txn.Set([]byte(keyEmployee), []byte("{not json"))
	}))

	_, _, err := s.Load()
	require.Error(t, err)
}

func TestStore_ClearRemovesBothKeys(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save("tok", testEmployee()))
	require.NoError(t, s.Clear())

	token, emp, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, emp)

	// Clearing an empty store is fine.
	require.NoError(t, s.Clear())
}

func TestStore_RejectsEmptyToken(t *testing.T) {
	s := newTestStore(t)
	require.Error(t, s.Save("", testEmployee()))
	require.Error(t, s.Save("tok", nil))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenStore(StoreConfig{Path: dir})
	require.NoError(t, err)
	require.NoError(t, s.Save("tok-persist", testEmployee()))
	require.NoError(t, s.Close())

	s2, err := OpenStore(StoreConfig{Path: dir})
	require.NoError(t, err)
	defer s2.Close()

	token, emp, err := s2.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-persist", token)
	require.NotNil(t, emp)
	assert.Equal(t, "Dana Reyes", emp.Name)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package integritytest provides an in-memory [integrity.Store] for service tests.
package integritytest

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/core/integrity"
)

// Adjustment records one Adjust call.
type Adjustment struct {
	Collection string
	ID         primitive.ObjectID
	Deltas     map[string]int64
}

// Store keeps counters in memory and records every adjustment. Parents must
// be registered with Exist before RequireParents will accept them.
type Store struct {
	mu sync.Mutex

	counters    map[integrity.Target]map[string]int64
	exists      map[string]map[primitive.ObjectID]bool
	adjustments []Adjustment

	// Referencing is returned by CountReferencing, keyed by relation name.
	Referencing map[string]int64
	// Detached lists the relation names passed to Detach, in call order.
	Detached []string
	// Strict makes Adjust fail with ErrParentMissing for ids never passed to Exist.
	Strict bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		counters:    map[integrity.Target]map[string]int64{},
		exists:      map[string]map[primitive.ObjectID]bool{},
		Referencing: map[string]int64{},
	}
}

// Exist registers ids as existing documents of collection.
func (store *Store) Exist(collection string, ids ...primitive.ObjectID) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.exists[collection] == nil {
		store.exists[collection] = map[primitive.ObjectID]bool{}
	}
	for _, id := range ids {
		store.exists[collection][id] = true
	}
}

// Counter returns the current value of one counter.
func (store *Store) Counter(collection string, id primitive.ObjectID, field string) int64 {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.counters[integrity.Target{Collection: collection, ID: id}][field]
}

// Adjustments returns every Adjust call made so far.
func (store *Store) Adjustments() []Adjustment {
	store.mu.Lock()
	defer store.mu.Unlock()
	return append([]Adjustment(nil), store.adjustments...)
}

// Reset forgets recorded adjustments but keeps counters.
func (store *Store) Reset() {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.adjustments = nil
	store.Detached = nil
}

func (store *Store) Adjust(_ context.Context, collection string, id primitive.ObjectID, deltas map[string]int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.Strict && !store.exists[collection][id] {
		return integrity.ErrParentMissing
	}
	store.adjustments = append(store.adjustments, Adjustment{Collection: collection, ID: id, Deltas: deltas})
	target := integrity.Target{Collection: collection, ID: id}
	if store.counters[target] == nil {
		store.counters[target] = map[string]int64{}
	}
	for field, delta := range deltas {
		store.counters[target][field] = max(0, store.counters[target][field]+delta)
	}
	return nil
}

func (store *Store) MissingIDs(_ context.Context, collection string, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var missing []primitive.ObjectID
	for _, id := range ids {
		if !store.exists[collection][id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (store *Store) CountReferencing(_ context.Context, relation integrity.Relation, _ []primitive.ObjectID) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.Referencing[relation.Name], nil
}

func (store *Store) Detach(_ context.Context, relation integrity.Relation, _ []primitive.ObjectID) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.Detached = append(store.Detached, relation.Name)
	return 0, nil
}

func (store *Store) CountChildren(context.Context, integrity.Relation) (map[primitive.ObjectID]int64, error) {
	return map[primitive.ObjectID]int64{}, nil
}

func (store *Store) SyncCounter(context.Context, integrity.Relation, map[primitive.ObjectID]int64) (int64, int64, error) {
	return 0, 0, nil
}

var _ integrity.Store = (*Store)(nil)

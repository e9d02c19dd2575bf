// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package integrity

import "go.mongodb.org/mongo-driver/bson/primitive"

// # Ledger

// Target identifies one parent document.
type Target struct {
	Collection string
	ID         primitive.ObjectID
}

// Entry is the net adjustment for one parent document, keyed by counter field.
type Entry struct {
	Target
	Deltas map[string]int64
}

// Ledger accumulates counter deltas so that each parent document receives a
// single update, however many children touched it. The zero value is ready
// to use; a Ledger is not safe for concurrent use.
type Ledger struct {
	order  []Target
	deltas map[Target]map[string]int64
}

// Add records delta on the counter of a relation's parent.
// Zero ids are ignored.
func (ledger *Ledger) Add(relation Relation, id primitive.ObjectID, delta int64) {
	if id.IsZero() || delta == 0 {
		return
	}
	if ledger.deltas == nil {
		ledger.deltas = make(map[Target]map[string]int64)
	}

	target := Target{Collection: relation.Parent, ID: id}
	fields, ok := ledger.deltas[target]
	if !ok {
		fields = make(map[string]int64, 1)
		ledger.deltas[target] = fields
		ledger.order = append(ledger.order, target)
	}
	fields[relation.Counter] += delta
}

// Link records +1 for each parent a new child references.
func (ledger *Ledger) Link(relation Relation, ids ...primitive.ObjectID) {
	for _, id := range uniqueOrdered(ids) {
		ledger.Add(relation, id, 1)
	}
}

// Unlink records -1 for each parent a removed child referenced.
func (ledger *Ledger) Unlink(relation Relation, ids ...primitive.ObjectID) {
	for _, id := range uniqueOrdered(ids) {
		ledger.Add(relation, id, -1)
	}
}

// Move records the effect of a single reference changing from previous to
// next. Either side may be nil; nothing is recorded when both are equal.
func (ledger *Ledger) Move(relation Relation, previous, next *primitive.ObjectID) {
	if sameRef(previous, next) {
		return
	}
	if previous != nil {
		ledger.Add(relation, *previous, -1)
	}
	if next != nil {
		ledger.Add(relation, *next, 1)
	}
}

// Retarget records the effect of a reference array changing from previous to
// next: -1 for removed ids, +1 for added ids, nothing for the intersection.
func (ledger *Ledger) Retarget(relation Relation, previous, next []primitive.ObjectID) {
	removed, added := Diff(previous, next)
	ledger.Unlink(relation, removed...)
	ledger.Link(relation, added...)
}

// Entries returns the net adjustments in first-touch order. Parents whose
// deltas cancelled out are omitted.
func (ledger *Ledger) Entries() []Entry {
	entries := make([]Entry, 0, len(ledger.order))
	for _, target := range ledger.order {
		fields := make(map[string]int64, len(ledger.deltas[target]))
		for field, delta := range ledger.deltas[target] {
			if delta != 0 {
				fields[field] = delta
			}
		}
		if len(fields) == 0 {
			continue
		}
		entries = append(entries, Entry{Target: target, Deltas: fields})
	}
	return entries
}

// Empty reports whether the ledger would produce no updates.
func (ledger *Ledger) Empty() bool {
	return len(ledger.Entries()) == 0
}

func sameRef(left, right *primitive.ObjectID) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	return *left == *right
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package integrity_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/core/integrity"
	"github.com/taibuivan/idolbase/internal/platform/apperr"
	"github.com/taibuivan/idolbase/internal/platform/constants"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestDiff verifies the symmetric difference of reference sets.
*/
func TestDiff(t *testing.T) {
	g1, g2, g3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	tests := []struct {
		name        string
		previous    []primitive.ObjectID
		next        []primitive.ObjectID
		wantRemoved []primitive.ObjectID
		wantAdded   []primitive.ObjectID
	}{
		{"overlap", []primitive.ObjectID{g1, g2}, []primitive.ObjectID{g2, g3}, []primitive.ObjectID{g1}, []primitive.ObjectID{g3}},
		{"unchanged", []primitive.ObjectID{g1, g2}, []primitive.ObjectID{g2, g1}, nil, nil},
		{"cleared", []primitive.ObjectID{g1}, nil, []primitive.ObjectID{g1}, nil},
		{"from empty", nil, []primitive.ObjectID{g1, g1}, nil, []primitive.ObjectID{g1}},
		{"zero ids ignored", []primitive.ObjectID{primitive.NilObjectID}, []primitive.ObjectID{g2}, nil, []primitive.ObjectID{g2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			removed, added := integrity.Diff(tt.previous, tt.next)
			assert.Equal(t, tt.wantRemoved, removed)
			assert.Equal(t, tt.wantAdded, added)
		})
	}
}

/*
TestLedger_AggregatesPerParent verifies that many children touching the same
parent produce exactly one entry carrying every counter field.
*/
func TestLedger_AggregatesPerParent(t *testing.T) {
	idol := primitive.NewObjectID()
	gallery := primitive.NewObjectID()

	ledger := &integrity.Ledger{}
	for i := 0; i < 3; i++ {
		ledger.Unlink(integrity.IdolPhotos, idol)
		ledger.Unlink(integrity.GalleryPhotos, gallery)
	}
	ledger.Unlink(integrity.IdolVideos, idol)

	entries := ledger.Entries()
	require.Len(t, entries, 2)

	assert.Equal(t, constants.CollectionIdols, entries[0].Collection)
	assert.Equal(t, idol, entries[0].ID)
	assert.Equal(t, map[string]int64{"photoCount": -3, "videoCount": -1}, entries[0].Deltas)

	assert.Equal(t, constants.CollectionGalleries, entries[1].Collection)
	assert.Equal(t, map[string]int64{"photoCount": -3}, entries[1].Deltas)
}

/*
TestLedger_MoveAndRetarget verifies single and array reference changes.
*/
func TestLedger_MoveAndRetarget(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	g1, g2, g3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	ledger := &integrity.Ledger{}
	ledger.Move(integrity.IdolVideos, &a, &b)
	ledger.Move(integrity.IdolVideos, &a, &a)
	ledger.Move(integrity.GenreGalleries, nil, nil)
	ledger.Retarget(integrity.GenreVideos, []primitive.ObjectID{g1, g2}, []primitive.ObjectID{g2, g3})

	got := map[primitive.ObjectID]map[string]int64{}
	for _, entry := range ledger.Entries() {
		got[entry.ID] = entry.Deltas
	}

	assert.Equal(t, map[primitive.ObjectID]map[string]int64{
		a:  {"videoCount": -1},
		b:  {"videoCount": 1},
		g1: {"contentCounts.videos": -1},
		g3: {"contentCounts.videos": 1},
	}, got)
}

/*
TestLedger_CancelledDeltasDropped verifies that net-zero parents are omitted.
*/
func TestLedger_CancelledDeltasDropped(t *testing.T) {
	idol := primitive.NewObjectID()

	ledger := &integrity.Ledger{}
	ledger.Link(integrity.IdolPhotos, idol)
	ledger.Unlink(integrity.IdolPhotos, idol)

	assert.True(t, ledger.Empty())
	assert.Empty(t, ledger.Entries())
}

/*
TestMaintainer_Apply verifies one store call per parent and that failures
are counted without aborting the remaining updates.
*/
func TestMaintainer_Apply(t *testing.T) {
	store := newFakeStore()
	broken := primitive.NewObjectID()
	healthy := primitive.NewObjectID()
	store.failOn[broken] = errors.New("connection reset")

	ledger := &integrity.Ledger{}
	ledger.Link(integrity.IdolPhotos, broken)
	ledger.Link(integrity.IdolPhotos, healthy)
	ledger.Link(integrity.IdolGalleries, healthy)

	maintainer := integrity.NewMaintainer(store, discardLogger())
	failed := maintainer.Apply(context.Background(), ledger)

	assert.Equal(t, 1, failed)
	assert.Len(t, store.adjustCalls, 2)
	assert.Equal(t, int64(1), store.counter(constants.CollectionIdols, healthy, "photoCount"))
	assert.Equal(t, int64(1), store.counter(constants.CollectionIdols, healthy, "galleryCount"))
}

/*
TestMaintainer_RequireParents verifies missing references become field errors.
*/
func TestMaintainer_RequireParents(t *testing.T) {
	store := newFakeStore()
	known := primitive.NewObjectID()
	unknown := primitive.NewObjectID()
	store.exists[constants.CollectionGenres] = map[primitive.ObjectID]bool{known: true}

	maintainer := integrity.NewMaintainer(store, discardLogger())

	assert.NoError(t, maintainer.RequireParents(context.Background(), "genres", constants.CollectionGenres, known))
	assert.NoError(t, maintainer.RequireParents(context.Background(), "genres", constants.CollectionGenres))

	err := maintainer.RequireParents(context.Background(), "genres", constants.CollectionGenres, known, unknown)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code)
	assert.Equal(t, "genres", ae.Details[0].Field)
	assert.Contains(t, ae.Details[0].Message, unknown.Hex())
}

/*
TestMaintainer_GuardAndDetach verifies required relations block deletes while
optional ones are detached.
*/
func TestMaintainer_GuardAndDetach(t *testing.T) {
	store := newFakeStore()
	idol := primitive.NewObjectID()
	maintainer := integrity.NewMaintainer(store, discardLogger())

	store.referencing[integrity.IdolVideos.Name] = 2
	err := maintainer.GuardDelete(context.Background(), constants.CollectionIdols, []primitive.ObjectID{idol})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	store.referencing[integrity.IdolVideos.Name] = 0
	assert.NoError(t, maintainer.GuardDelete(context.Background(), constants.CollectionIdols, []primitive.ObjectID{idol}))

	maintainer.DetachChildren(context.Background(), constants.CollectionIdols, []primitive.ObjectID{idol})
	assert.ElementsMatch(t, []string{integrity.IdolPhotos.Name, integrity.IdolGalleries.Name}, store.detached)
}

/*
TestMaintainer_ReportDangling verifies a video that slipped in between the
guard and the delete is counted and logged.
*/
func TestMaintainer_ReportDangling(t *testing.T) {
	tests := []struct {
		name   string
		videos int64
		ids    []primitive.ObjectID
		want   int64
		logged bool
	}{
		{name: "Nothing left behind", ids: []primitive.ObjectID{primitive.NewObjectID()}},
		{name: "Video created during delete", videos: 1, ids: []primitive.ObjectID{primitive.NewObjectID()}, want: 1, logged: true},
		{name: "No parents removed", videos: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buffer bytes.Buffer
			store := newFakeStore()
			store.referencing[integrity.IdolVideos.Name] = tt.videos
			maintainer := integrity.NewMaintainer(store, slog.New(slog.NewTextHandler(&buffer, nil)))

			got := maintainer.ReportDangling(context.Background(), constants.CollectionIdols, tt.ids)

			assert.Equal(t, tt.want, got)
			if tt.logged {
				assert.Contains(t, buffer.String(), "dangling_required_reference")
				assert.Contains(t, buffer.String(), integrity.IdolVideos.Name)
			} else {
				assert.Empty(t, buffer.String())
			}
		})
	}
}

/*
TestReconciler_Run verifies drifted counters are reported and the tree is rebuilt.
*/
func TestReconciler_Run(t *testing.T) {
	store := newFakeStore()
	store.repairs[integrity.GenreVideos.Name] = 3
	tree := &fakeTree{repaired: 1}

	reconciler := integrity.NewReconciler(store, tree, discardLogger())
	report, err := reconciler.Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, report.Relations, len(integrity.Relations))
	assert.Equal(t, int64(4), report.Repaired())
	assert.Equal(t, int64(1), report.TreeRepaired)
}

// # Fakes

type adjustCall struct {
	target integrity.Target
	deltas map[string]int64
}

type fakeStore struct {
	counters    map[integrity.Target]map[string]int64
	adjustCalls []adjustCall
	failOn      map[primitive.ObjectID]error
	exists      map[string]map[primitive.ObjectID]bool
	referencing map[string]int64
	detached    []string
	repairs     map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		counters:    map[integrity.Target]map[string]int64{},
		failOn:      map[primitive.ObjectID]error{},
		exists:      map[string]map[primitive.ObjectID]bool{},
		referencing: map[string]int64{},
		repairs:     map[string]int64{},
	}
}

func (store *fakeStore) counter(collection string, id primitive.ObjectID, field string) int64 {
	return store.counters[integrity.Target{Collection: collection, ID: id}][field]
}

func (store *fakeStore) Adjust(_ context.Context, collection string, id primitive.ObjectID, deltas map[string]int64) error {
	target := integrity.Target{Collection: collection, ID: id}
	store.adjustCalls = append(store.adjustCalls, adjustCall{target: target, deltas: deltas})
	if err := store.failOn[id]; err != nil {
		return err
	}
	if store.counters[target] == nil {
		store.counters[target] = map[string]int64{}
	}
	for field, delta := range deltas {
		store.counters[target][field] = max(0, store.counters[target][field]+delta)
	}
	return nil
}

func (store *fakeStore) MissingIDs(_ context.Context, collection string, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	var missing []primitive.ObjectID
	for _, id := range ids {
		if !store.exists[collection][id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (store *fakeStore) CountReferencing(_ context.Context, relation integrity.Relation, _ []primitive.ObjectID) (int64, error) {
	return store.referencing[relation.Name], nil
}

func (store *fakeStore) Detach(_ context.Context, relation integrity.Relation, _ []primitive.ObjectID) (int64, error) {
	store.detached = append(store.detached, relation.Name)
	return 1, nil
}

func (store *fakeStore) CountChildren(context.Context, integrity.Relation) (map[primitive.ObjectID]int64, error) {
	return map[primitive.ObjectID]int64{}, nil
}

func (store *fakeStore) SyncCounter(_ context.Context, relation integrity.Relation, _ map[primitive.ObjectID]int64) (int64, int64, error) {
	return 10, store.repairs[relation.Name], nil
}

type fakeTree struct {
	repaired int64
	calls    int
}

func (tree *fakeTree) RebuildTree(context.Context) (int64, error) {
	tree.calls++
	return tree.repaired, nil
}

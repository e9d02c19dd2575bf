// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package integrity keeps denormalized counters and cross-collection references
consistent with the documents they summarize.

Core Responsibility:

  - Relations: The fixed table of parent counters and the child fields driving them.
  - Ledger: Aggregates counter deltas per parent document before they are applied.
  - Maintainer: Applies ledgers, checks referenced parents exist, detaches children.
  - Reconciler: Recounts every relation from ground truth and repairs drift.

Every catalogue service records its counter effects in a [Ledger] and hands it to
the [Maintainer] once the primary write has been committed.
*/
package integrity

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/platform/constants"
)

// # Relations

// Relation binds a parent counter to the child field that references the parent.
type Relation struct {
	// Name identifies the relation in logs and recount reports.
	Name string

	// Parent is the collection holding the counter.
	Parent string
	// Counter is the (possibly dotted) counter field on the parent.
	Counter string

	// Child is the referencing collection.
	Child string
	// Field is the reference field on the child.
	Field string
	// Multi marks array reference fields.
	Multi bool

	// Required relations block deletion of a still-referenced parent instead
	// of detaching its children.
	Required bool
}

var (
	IdolPhotos = Relation{
		Name: "idol_photos", Parent: constants.CollectionIdols, Counter: "photoCount",
		Child: constants.CollectionPhotos, Field: "idol",
	}
	IdolVideos = Relation{
		Name: "idol_videos", Parent: constants.CollectionIdols, Counter: "videoCount",
		Child: constants.CollectionVideos, Field: "idol", Required: true,
	}
	IdolGalleries = Relation{
		Name: "idol_galleries", Parent: constants.CollectionIdols, Counter: "galleryCount",
		Child: constants.CollectionGalleries, Field: "idol",
	}
	GalleryPhotos = Relation{
		Name: "gallery_photos", Parent: constants.CollectionGalleries, Counter: "photoCount",
		Child: constants.CollectionPhotos, Field: "gallery",
	}
	GenreVideos = Relation{
		Name: "genre_videos", Parent: constants.CollectionGenres, Counter: "contentCounts.videos",
		Child: constants.CollectionVideos, Field: "genres", Multi: true,
	}
	GenreGalleries = Relation{
		Name: "genre_galleries", Parent: constants.CollectionGenres, Counter: "contentCounts.galleries",
		Child: constants.CollectionGalleries, Field: "genre",
	}
	GenreIdols = Relation{
		Name: "genre_idols", Parent: constants.CollectionGenres, Counter: "contentCounts.idols",
		Child: constants.CollectionIdols, Field: "genres", Multi: true,
	}
)

// Relations lists every maintained counter.
var Relations = []Relation{
	IdolPhotos,
	IdolVideos,
	IdolGalleries,
	GalleryPhotos,
	GenreVideos,
	GenreGalleries,
	GenreIdols,
}

// ParentRelations returns the relations whose parent is collection.
func ParentRelations(collection string) []Relation {
	var relations []Relation
	for _, relation := range Relations {
		if relation.Parent == collection {
			relations = append(relations, relation)
		}
	}
	return relations
}

// # Set Difference

// Diff returns the ids present only in previous (removed) and only in next
// (added). Duplicates and zero ids are ignored; the intersection appears in
// neither result.
func Diff(previous, next []primitive.ObjectID) (removed, added []primitive.ObjectID) {
	previousSet := toSet(previous)
	nextSet := toSet(next)

	for _, id := range uniqueOrdered(previous) {
		if _, ok := nextSet[id]; !ok {
			removed = append(removed, id)
		}
	}
	for _, id := range uniqueOrdered(next) {
		if _, ok := previousSet[id]; !ok {
			added = append(added, id)
		}
	}
	return removed, added
}

func toSet(ids []primitive.ObjectID) map[primitive.ObjectID]struct{} {
	set := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func uniqueOrdered(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	unique := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

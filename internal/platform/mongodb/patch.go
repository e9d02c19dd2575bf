// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// PatchOf builds a partial update from the listed bson fields of doc. Fields
// absent from the marshalled document (nil pointers, omitempty zero values)
// are unset, which is how optional references get cleared. updatedAt is
// always refreshed.
func PatchOf(doc any, fields []string, now time.Time) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("mongodb: marshal patch: %w", err)
	}

	var values bson.M
	if err := bson.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("mongodb: unmarshal patch: %w", err)
	}

	set := bson.M{"updatedAt": now}
	unset := bson.M{}
	for _, field := range fields {
		if value, ok := values[field]; ok && value != nil {
			set[field] = value
		} else {
			unset[field] = ""
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update, nil
}

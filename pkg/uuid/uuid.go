// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the opaque tokens used outside MongoDB: object storage
keys and distributed lock owners.

Version 7 values are used so that object keys uploaded in the same folder
list roughly in upload order.
*/
package uuid

import "github.com/google/uuid"

// New returns a new UUIDv7 string. It panics only if the system entropy
// source fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: entropy source failed: " + err.Error())
	}
	return id.String()
}

// Package store defines the persistence interfaces consumed by the API
// layer, together with the sentinel errors their implementations return.
// Every task and category operation is scoped by the owning user's ID so
// that a cross-user access attempt is indistinguishable from "not found".
package store

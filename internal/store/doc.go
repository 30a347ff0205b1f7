// Package store defines the persistence contracts for the riding club
// scheduler: one interface per entity plus the transaction helpers that
// give the enrollment service its serializable read-evaluate-write
// sequence.
//
// Implementations live under internal/platform. All query methods return
// point-in-time snapshots; none return partial results. Entities that do
// not exist surface as ErrNotFound-wrapping sentinels so callers can use
// errors.Is without knowing the backend.
package store

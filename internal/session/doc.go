// Package session tracks the images open in a viewer session.
//
// A Registry owns an ordered list of entries, one per image the user can
// inspect. Each entry has an ID that is unique among live entries; IDs are
// the only stable handle a frontend holds, so every lookup can fail with
// ErrNotFound once the entry has been swept.
//
// # ID Allocation
//
// AllocateID returns the smallest non-negative integer not held by a live
// entry. IDs freed by a sweep are therefore reused:
//
//	reg := session.NewRegistry(a, b, c) // ids 0, 1, 2
//	reg.MarkForRemoval(1)
//	reg.Sweep()
//	reg.AllocateID()                     // 1
//
// # Removal
//
// Removal is two-phase. MarkForRemoval only sets a flag, so a frontend can
// flag entries while it is iterating over them. Sweep then drops every
// flagged entry in a single pass and preserves the order of the rest.
//
// # Thread Safety
//
// A Registry is not safe for concurrent use. It is meant to be driven from a
// single frontend loop.
package session

// Package attr maps logical attribute names (e.g. "label", "state") onto
// type-specific handlers, so that several concrete object and datastream
// variants expose one uniform get/set/has/clear surface.
//
// Resolution order for an operation on a name:
//
//  1. a handler registered for this (name, operation) pair
//  2. the slot for this operation in the name-wide Accessor
//  3. the default policy: get and set use the holder's plain field bag,
//     has reports false and clear does nothing
//
// Names declared read-only reject set and clear with status.ErrAttributeReadOnly.
package attr

// Package repository is the client side model of a digital object repository.
//
// Objects come in two variants sharing the Object interface:
//
//   - NewObject, built by Repository.ConstructObject, lives in memory and buffers its datastreams
//     until Repository.IngestObject submits it
//   - PersistedObject, returned by Repository.GetObject or IngestObject, writes every change through
//     the transport, guarded by the last modification date it knows of (optimistic concurrency)
//
// Datastreams follow the same split (NewDatastream, PersistedDatastream). Persisted objects and
// datastreams are populated lazily: the datastream index, the datastream properties and the version
// history are fetched on first use.
//
// Besides typed accessors, objects and datastreams expose their properties by name with
// Get, Set, Has and Clear (see package attr).
package repository

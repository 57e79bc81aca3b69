// Package models defines the catalog entities shared by the store, services and transports.
//
// The package contains two categories of types:
//
// 1. Catalog rows: loosely typed records loaded from the song table
//   - [Song] : one row, an ordered field mapping with a typed id/title/rating subset
//   - [Table] : the ordered column set and every row, in pagination order
//
// 2. Persistent entities: database-backed records with an id and timestamps
//   - [RatingEvent] : one applied rating change, kept as an audit trail
//
// Persistent entities implement the [Model] interface. The [EventLog] interface defines the
// append-only data access operations used for them.
package models

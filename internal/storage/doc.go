// Package storage wires the SQLite repositories together. It opens and
// migrates the database, vends repositories bound to either the database or
// a transaction, seeds a fresh store and moves the whole store in and out
// of a JSON Document.
package storage

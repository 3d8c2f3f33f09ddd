// Package database provides SurrealDB connectivity for the PackList API.
//
// # Interface Design
//
// The Database interface provides three query methods:
//   - Query: one {status, result} entry per statement
//   - QueryOne: the first record of the first statement, or ErrNotFound
//   - Execute: no return value (for CREATE/UPDATE/DELETE mutations)
//
// # Transactions
//
// AtomicBatch wraps several statements in BEGIN/COMMIT TRANSACTION and runs
// them in a single round trip. Variables are namespaced per statement by
// TxBuilder so callers can reuse names like $id freely.
//
// # Schema
//
// Migrate applies the embedded migrations/*.surql files. Every statement is
// written with IF NOT EXISTS so it is safe on each start.
//
// # Error Handling
//
// SurrealDB failures are classified into ErrDuplicate, ErrConnection and
// ErrQuery; lookups that match nothing return ErrNotFound:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // Handle missing record
//	}
package database

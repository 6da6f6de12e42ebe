// Package ledger provides implementations of types.Ledger.
//
// Memory keeps records in process and is what the installers are tested
// against. File persists the same records as TOML inside the project's
// vendor directory and rewrites the file atomically after every mutation.
package ledger

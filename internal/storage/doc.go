// Package storage provides the BBolt database behind hushpass verifiers.
//
// Database structure uses two buckets:
//   - config: format version, timestamps and a random store id
//   - verifiers: one JSON record per enrolled name
//
// Records hold KDF parameters, salt and a sealed check string. They can be
// listed without a password; checking one needs the password's fold chain.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage

// Package protocol owns the AFC wire contract and parsing primitives.
//
// Ownership boundary:
// - operation, status, and file-mode code tables
// - frame split/encode/decode primitives (frame subpackage)
// - null-delimited payload primitives (payload subpackage)
package protocol

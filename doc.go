// Package accounts implements a pluggable credential authentication
// subsystem: name/password accounts with soft delete and restore, a
// storage adapter seam that keeps the persistence schema out of the
// service logic, transparent password rehashing on verify, and a signed
// cookie session carrying name/role claims.
//
// The package is storage agnostic. AccountStorage is defined in terms of
// an AccountAdapter the integrator implements for their own schema; a
// bun backed implementation with a default Account model ships in the
// box. The hashing algorithm can evolve without breaking stored
// credentials: a hash produced under older parameters verifies fine and
// is replaced on the next successful sign in.
package accounts

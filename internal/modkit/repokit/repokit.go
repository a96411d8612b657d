// Package repokit binds domain repos to the store seams without importing a driver
package repokit

import "ipvault/internal/platform/store"

type (
	// Queryer is the minimal read and write surface for SQL repos
	Queryer = store.RowQuerier

	// TxRunner can execute a function inside a transaction
	TxRunner = store.TxRunner
)

// Binder is a tiny factory that binds a domain repo to a specific Queryer
type Binder[T any] interface {
	Bind(Queryer) T
}

// MustBind panics on a nil Queryer, a programmer error at wiring time
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return b.Bind(q)
}

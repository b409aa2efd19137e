// Package middleware provides composable wrappers around a SessionStore:
// at-rest encryption of free-text answers and PII masking.
package middleware

import "github.com/uxforge/maestro/pkg/ports"

// Middleware allows wrapping a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore

// Wrap applies middlewares right-to-left, so the first one listed sees the
// session first on Save.
func Wrap(store ports.SessionStore, mws ...Middleware) ports.SessionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

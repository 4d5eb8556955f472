// Package viewstate holds the client-side copies of a user's cart and favorites that a view
// renders. Cart mutations are applied optimistically and reconciled with the realtime feed;
// favorites are reloaded after every toggle.
package viewstate

import "errors"

// ErrClosed is returned once the owning view has been torn down.
var ErrClosed = errors.New("view state closed")

// State is the reconciliation state of a CartState.
//
//	clean    local copy matches the last server answer
//	pending  optimistic changes wait for the server
//	reverted the last optimistic change failed and was rolled back; see Err
type State string

const (
	StateClean    State = "clean"
	StatePending  State = "pending"
	StateReverted State = "reverted"
)

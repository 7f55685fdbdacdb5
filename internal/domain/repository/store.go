package repository

import "context"

// Record keys of the persistent store. Each key holds one JSON document and
// is owned by exactly one service; there are no cross-key transactions.
const (
	KeyRegisteredUsers = "registered-users"       // ordered sequence of User
	KeyCurrentSession  = "current-session"        // Session or absent
	KeyCart            = "cart"                   // ordered sequence of CartItem
	KeyWishlist        = "wishlist"               // product id set
	KeyOrderHistory    = "order-history"          // sequence of Order, newest first
	KeyPasswordReset   = "password-reset-session" // PasswordReset or absent
)

// Store is the namespaced key/value durable store every service persists
// through. Absent keys are a valid initial state, not an error.
type Store interface {
	// Get unmarshals the record at key into dest and reports whether it exists.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set writes the record at key, replacing any previous value.
	Set(ctx context.Context, key string, value any) error
	// Remove deletes the record at key; removing an absent key is a no-op.
	Remove(ctx context.Context, key string) error
}

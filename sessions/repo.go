package sessions

// Store persists the single authenticated session of this client.
type Store interface {
	// Load returns the stored session or ErrNoSession
	Load() (AuthSession, error)

	// Save writes every session field, replacing what was there.
	// The active parking cache of the previous session is dropped.
	Save(session AuthSession) error

	// Clear removes the session and the active parking cache
	Clear() error

	// ActiveParking returns the cached active parking id, nil when absent
	ActiveParking() (*int64, error)

	// SetActiveParking overwrites the cached active parking id
	SetActiveParking(parkingID int64) error

	// ClearActiveParking removes the cached active parking id
	ClearActiveParking() error
}

// KeyValue is a flat string key-value area such as browser local storage or a sqlite table.
type KeyValue interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(keys ...string) error
}

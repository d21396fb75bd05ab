package shelf

import (
	"encoding/json"
	"log/slog"

	"github.com/mmcdole/brickwork/internal/domain"
)

// Durable keys for the two membership lists
const (
	KeyCollection = "collection"
	KeyWishlist   = "wishlist"
)

// List is an ordered set of set numbers persisted under one key as a JSON array.
// Reads never fail: missing or corrupt data reads as an empty list.
type List struct {
	key    string
	store  domain.Store
	logger *slog.Logger
}

// NewList creates a list bound to key in store
func NewList(store domain.Store, key string, logger *slog.Logger) *List {
	if logger == nil {
		logger = slog.Default()
	}
	return &List{key: key, store: store, logger: logger}
}

// Key returns the durable storage key
func (l *List) Key() string { return l.key }

// GetAll returns the ids in insertion order
func (l *List) GetAll() []string {
	data, ok := l.store.Get(l.key)
	if !ok {
		return []string{}
	}
	return l.decode(data)
}

// Has reports whether id is a member
func (l *List) Has(id string) bool {
	for _, v := range l.GetAll() {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle removes id if present, otherwise appends it.
// Returns the new membership state.
func (l *List) Toggle(id string) (bool, error) {
	var present bool
	err := l.store.Update(l.key, func(current []byte) ([]byte, error) {
		ids := l.decode(current)
		next, added := toggle(ids, id)
		present = added
		return json.Marshal(next)
	})
	if err != nil {
		l.logger.Error("failed to persist list", "key", l.key, "id", id, "error", err)
		return l.Has(id), err
	}
	l.logger.Debug("toggled list membership", "key", l.key, "id", id, "present", present)
	return present, nil
}

// Remove drops id when present; absent ids are a no-op
func (l *List) Remove(id string) error {
	if !l.Has(id) {
		return nil
	}
	_, err := l.Toggle(id)
	return err
}

func (l *List) decode(data []byte) []string {
	if len(data) == 0 {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		l.logger.Error("corrupt list data, reading as empty", "key", l.key, "error", err)
		return []string{}
	}
	if ids == nil {
		return []string{}
	}
	return ids
}

// toggle removes every occurrence of id or appends it.
func toggle(ids []string, id string) ([]string, bool) {
	out := make([]string, 0, len(ids)+1)
	found := false
	for _, v := range ids {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if found {
		return out, false
	}
	return append(out, id), true
}

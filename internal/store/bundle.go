// Package store provides saved-state persistence for the debate timer.
// The Bundle contract is a key-prefixed scalar store: callers namespace
// their fields under a key of their choosing, and absent fields fall
// back to caller-supplied defaults rather than erroring.
package store

// Bundle is a flat key/value store of scalar fields.  Readers must
// tolerate absent keys; every getter takes the value to return when the
// key has never been written.
type Bundle interface {
	PutInt64(key string, value int64)
	Int64(key string, def int64) int64
	PutString(key, value string)
	String(key, def string) string
}

// MemoryBundle is the in-memory Bundle used for in-process state
// hand-off (e.g. reloading an engine across a restart) and as the
// staging area for the SQLite-backed store.
type MemoryBundle struct {
	ints map[string]int64
	strs map[string]string
}

// NewMemoryBundle returns an empty MemoryBundle.
func NewMemoryBundle() *MemoryBundle {
	return &MemoryBundle{
		ints: make(map[string]int64),
		strs: make(map[string]string),
	}
}

func (b *MemoryBundle) PutInt64(key string, value int64) {
	b.ints[key] = value
}

func (b *MemoryBundle) Int64(key string, def int64) int64 {
	if v, ok := b.ints[key]; ok {
		return v
	}
	return def
}

func (b *MemoryBundle) PutString(key, value string) {
	b.strs[key] = value
}

func (b *MemoryBundle) String(key, def string) string {
	if v, ok := b.strs[key]; ok {
		return v
	}
	return def
}

// Len reports the total number of stored fields.
func (b *MemoryBundle) Len() int {
	return len(b.ints) + len(b.strs)
}

func (b *MemoryBundle) intFields() map[string]int64 {
	out := make(map[string]int64, len(b.ints))
	for k, v := range b.ints {
		out[k] = v
	}
	return out
}

func (b *MemoryBundle) stringFields() map[string]string {
	out := make(map[string]string, len(b.strs))
	for k, v := range b.strs {
		out[k] = v
	}
	return out
}

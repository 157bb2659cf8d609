package core

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/luochenghuajin/clichatroom/internal/transport/tcp"
)

type registryEntry struct {
	user User
	conn *tcp.Conn
}

// Registry is the concurrent map of active usernames to their connection
// handles. It holds non-owning references: closing a connection is always
// the owning session's job, the registry only routes to it.
//
// Invariant: at most one entry per username. Claim is the combined
// check-and-insert primitive that makes two concurrent authentications for
// the same username impossible to both succeed; CheckUnique followed by Add
// as two separate calls does not close that race.
type Registry struct {
	mu    sync.Mutex
	users map[string]registryEntry
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{users: make(map[string]registryEntry)}
}

// Claim atomically checks uniqueness and inserts. Returns false if the
// username is already taken (or empty); the caller must treat that as a
// failed authentication attempt.
func (r *Registry) Claim(user User, conn *tcp.Conn) bool {
	if user.Username == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.users[user.Username]; taken {
		return false
	}
	r.users[user.Username] = registryEntry{user: user, conn: conn}
	return true
}

// Add upserts unconditionally. Only for callers that already hold a claim
// on the username and are its sole writer.
func (r *Registry) Add(user User, conn *tcp.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Username] = registryEntry{user: user, conn: conn}
}

// Remove drops the entry for username. No-op if absent.
func (r *Registry) Remove(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, username)
}

// CheckUnique reports whether username is currently unclaimed.
func (r *Registry) CheckUnique(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, taken := r.users[username]
	return !taken
}

// Connection returns the connection handle for username, or nil.
func (r *Registry) Connection(username string) *tcp.Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.users[username]; ok {
		return entry.conn
	}
	return nil
}

// Usernames returns a sorted snapshot of all registered usernames.
func (r *Registry) Usernames() []string {
	r.mu.Lock()
	names := lo.Keys(r.users)
	r.mu.Unlock()

	sort.Strings(names)
	return names
}

// Len returns the number of registered users.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// ForEachConnection snapshots the connection handles under the lock, then
// invokes fn for each outside it, so a blocking send never stalls other
// registry operations. A connection may disconnect mid-iteration; the send
// simply fails.
func (r *Registry) ForEachConnection(fn func(conn *tcp.Conn)) {
	r.mu.Lock()
	conns := lo.Map(lo.Values(r.users), func(e registryEntry, _ int) *tcp.Conn {
		return e.conn
	})
	r.mu.Unlock()

	for _, conn := range conns {
		fn(conn)
	}
}

package fragment

import "sync"

// Tracker remembers the newest request per (client, container) so that a
// slower, older response can be recognised and dropped.
type Tracker struct {
	mu     sync.Mutex
	latest map[trackKey]uint64
	seq    uint64
}

type trackKey struct {
	client    string
	container string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{latest: make(map[trackKey]uint64)}
}

// Ticket identifies one request for a container.
type Ticket struct {
	t   *Tracker
	key trackKey
	n   uint64
}

// Begin registers a request. Requests without a client id are never stale.
func (t *Tracker) Begin(clientID, containerID string) Ticket {
	if clientID == "" {
		return Ticket{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	k := trackKey{client: clientID, container: containerID}
	t.latest[k] = t.seq
	return Ticket{t: t, key: k, n: t.seq}
}

// Current reports whether no newer request for the same container began.
func (tk Ticket) Current() bool {
	if tk.t == nil {
		return true
	}
	tk.t.mu.Lock()
	defer tk.t.mu.Unlock()
	return tk.t.latest[tk.key] == tk.n
}

// Done forgets the request if it is still the newest one.
func (tk Ticket) Done() {
	if tk.t == nil {
		return
	}
	tk.t.mu.Lock()
	defer tk.t.mu.Unlock()
	if tk.t.latest[tk.key] == tk.n {
		delete(tk.t.latest, tk.key)
	}
}

// Len is the number of tracked in-flight containers.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.latest)
}

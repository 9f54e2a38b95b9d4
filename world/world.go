// Package world implements the room graph the audio engine navigates:
// nodes joined by directional connections, optionally guarded by
// locks, each carrying an ambience configuration.
package world

import (
	"fmt"
	"sync"

	"github.com/lvlath/go/bfs"
	lvcore "github.com/lvlath/go/core"

	"github.com/lixenwraith/echomaze/audio"
)

// Room is one node in the world
type Room struct {
	ID       string
	Name     string
	Ambience *audio.AmbienceConfig
}

// World is the mutable room graph. Direction semantics live in the
// connection table; the embedded lvlath graph mirrors connectivity for
// shortest-path queries.
type World struct {
	mu sync.RWMutex

	graph *lvcore.Graph
	rooms map[string]*Room
	conns map[string]map[audio.Direction]string
	locks map[string]map[audio.Direction]string
	open  map[string]bool // Lock id -> unlocked
}

// New creates an empty world
func New() *World {
	g, _ := lvcore.NewGraph()
	return &World{
		graph: g,
		rooms: make(map[string]*Room),
		conns: make(map[string]map[audio.Direction]string),
		locks: make(map[string]map[audio.Direction]string),
		open:  make(map[string]bool),
	}
}

// AddRoom registers a room; re-adding an id replaces its metadata
func (w *World) AddRoom(r *Room) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("world: invalid room")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.graph.AddVertex(r.ID); err != nil {
		return fmt.Errorf("world: add room %q: %w", r.ID, err)
	}
	w.rooms[r.ID] = r
	return nil
}

// Rooms returns the ids of all rooms, in no particular order
func (w *World) Rooms() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ids := make([]string, 0, len(w.rooms))
	for id := range w.rooms {
		ids = append(ids, id)
	}
	return ids
}

// Room returns a room by id
func (w *World) Room(id string) (*Room, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.rooms[id]
	return r, ok
}

// Connect links a to b in dir, and b back to a in the opposite
// direction
func (w *World) Connect(a string, dir audio.Direction, b string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.rooms[a]; !ok {
		return fmt.Errorf("world: unknown room %q", a)
	}
	if _, ok := w.rooms[b]; !ok {
		return fmt.Errorf("world: unknown room %q", b)
	}

	if w.conns[a] == nil {
		w.conns[a] = make(map[audio.Direction]string)
	}
	if w.conns[b] == nil {
		w.conns[b] = make(map[audio.Direction]string)
	}
	w.conns[a][dir] = b
	w.conns[b][dir.Opposite()] = a

	if !w.graph.HasEdge(a, b) {
		if _, err := w.graph.AddEdge(a, b, 0); err != nil {
			return fmt.Errorf("world: connect %q-%q: %w", a, b, err)
		}
	}
	return nil
}

// SetLock guards the connection from node in dir (and its reverse side)
// with a lock id
func (w *World) SetLock(node string, dir audio.Direction, lockID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	other, ok := w.conns[node][dir]
	if !ok {
		return
	}

	if w.locks[node] == nil {
		w.locks[node] = make(map[audio.Direction]string)
	}
	if w.locks[other] == nil {
		w.locks[other] = make(map[audio.Direction]string)
	}
	w.locks[node][dir] = lockID
	w.locks[other][dir.Opposite()] = lockID
}

// SetUnlocked opens or closes a lock
func (w *World) SetUnlocked(lockID string, unlocked bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open[lockID] = unlocked
}

// Connection implements audio.World
func (w *World) Connection(node string, dir audio.Direction) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	to, ok := w.conns[node][dir]
	return to, ok
}

// Lock implements audio.World
func (w *World) Lock(node string, dir audio.Direction) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	id, ok := w.locks[node][dir]
	return id, ok
}

// IsUnlocked implements audio.World
func (w *World) IsUnlocked(lockID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.open[lockID]
}

// AmbienceConfig implements audio.World
func (w *World) AmbienceConfig(node string) (audio.AmbienceConfig, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	r, ok := w.rooms[node]
	if !ok || r.Ambience == nil {
		return audio.AmbienceConfig{}, false
	}
	return *r.Ambience, true
}

// RoomDistance returns the unweighted shortest-path hop count between
// two rooms, ignoring lock state. 0 for the same room, -1 when
// unreachable or unknown.
func (w *World) RoomDistance(from, to string) int {
	return w.distance(from, to, nil)
}

// RoomDistanceUnlocked is RoomDistance honoring locks: a connection
// whose lock is closed does not exist for the search. Used for audio
// occlusion, where a locked door blocks sound paths.
func (w *World) RoomDistanceUnlocked(from, to string) int {
	filter := func(curr, neighbor string) bool {
		return w.passable(curr, neighbor)
	}
	return w.distance(from, to, filter)
}

func (w *World) distance(from, to string, filter func(curr, neighbor string) bool) int {
	if from == to {
		w.mu.RLock()
		_, ok := w.rooms[from]
		w.mu.RUnlock()
		if !ok {
			return -1
		}
		return 0
	}

	opts := []bfs.Option{}
	if filter != nil {
		opts = append(opts, bfs.WithFilterNeighbor(filter))
	}

	w.mu.RLock()
	g := w.graph
	w.mu.RUnlock()

	res, err := bfs.BFS(g, from, opts...)
	if err != nil {
		return -1
	}

	depth, ok := res.Depth[to]
	if !ok {
		return -1
	}
	return depth
}

// passable reports whether the curr->neighbor connection is free of
// closed locks
func (w *World) passable(curr, neighbor string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for dir, to := range w.conns[curr] {
		if to != neighbor {
			continue
		}
		lockID, locked := w.locks[curr][dir]
		if !locked || w.open[lockID] {
			return true
		}
	}
	return false
}

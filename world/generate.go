package world

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/lixenwraith/echomaze/audio"
)

// MazeConfig controls procedural cave generation
type MazeConfig struct {
	// Width and Height in grid cells; rounded down to odd
	Width, Height int

	// Braiding: 0.0 keeps the cave a perfect tree, 1.0 loops back
	// every dead end it safely can
	Braiding float64

	// Seed of 0 picks a random one
	Seed int64
}

type cell struct{ x, y int }

// gridDirs maps cardinal directions to two-cell jumps on the grid.
// North is -y.
var gridDirs = map[audio.Direction]cell{
	audio.North: {0, -2},
	audio.East:  {2, 0},
	audio.South: {0, 2},
	audio.West:  {-2, 0},
}

// dirOrder fixes direction iteration so a seed always reproduces the
// same maze; ranging over gridDirs would not
var dirOrder = [4]audio.Direction{audio.North, audio.East, audio.South, audio.West}

// ambiencePalette orders soundscapes by depth into the cave
var ambiencePalette = []audio.AmbienceConfig{
	{
		ReverbDecay: 1.2, ReverbWet: 0.25,
		Character: audio.CharacterNatural, EQType: "open",
		Sounds: []audio.AmbienceSound{
			{ID: "wind", Type: audio.SoundWind, Volume: 0.5},
			{ID: "crickets", Type: audio.SoundCrickets, Volume: 0.3},
		},
	},
	{
		ReverbDecay: 2.8, ReverbWet: 0.5,
		Character: audio.CharacterStone, EQType: "cavern",
		Sounds: []audio.AmbienceSound{
			{ID: "wind", Type: audio.SoundWind, Volume: 0.25},
			{ID: "drips", Type: audio.SoundDrip, Volume: 0.4},
		},
	},
	{
		ReverbDecay: 3.5, ReverbWet: 0.55,
		Character: audio.CharacterStone, EQType: "cavern",
		Sounds: []audio.AmbienceSound{
			{ID: "water", Type: audio.SoundWater, Volume: 0.45},
			{ID: "rumble", Type: audio.SoundRumble, Volume: 0.3},
		},
	},
	{
		ReverbDecay: 4.5, ReverbWet: 0.65,
		Character: audio.CharacterEthereal, EQType: "crystal",
		Sounds: []audio.AmbienceSound{
			{ID: "chimes", Type: audio.SoundChimes, Volume: 0.4},
			{ID: "hum", Type: audio.SoundHum, Volume: 0.3},
		},
	},
}

// GenerateMaze carves a cave with a recursive backtracker on an odd
// grid, optionally braids loops back into it, and lifts the node cells
// into rooms. Soundscapes deepen with distance from the start, and the
// connection into the deepest room is barred by the "deep-gate" lock.
// Returns the world with its start and goal room ids.
func GenerateMaze(cfg MazeConfig) (*World, string, string, error) {
	rows := oddDown(cfg.Height)
	cols := oddDown(cfg.Width)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	wall := make([][]bool, rows)
	for y := range wall {
		wall[y] = make([]bool, cols)
		for x := range wall[y] {
			wall[y][x] = true
		}
	}

	start := cell{1, 1}
	carve(wall, start, rng)
	if cfg.Braiding > 0 {
		braid(wall, cfg.Braiding, rng)
	}

	w := New()
	for y := 1; y < rows; y += 2 {
		for x := 1; x < cols; x += 2 {
			if wall[y][x] {
				continue
			}
			if err := w.AddRoom(&Room{ID: roomID(x, y), Name: roomID(x, y)}); err != nil {
				return nil, "", "", err
			}
		}
	}

	// Connect neighbors whose shared wall cell was carved. East and
	// South cover each pair once.
	for y := 1; y < rows; y += 2 {
		for x := 1; x < cols; x += 2 {
			if wall[y][x] {
				continue
			}
			for _, dir := range []audio.Direction{audio.East, audio.South} {
				d := gridDirs[dir]
				nx, ny := x+d.x, y+d.y
				if nx <= 0 || nx >= cols || ny <= 0 || ny >= rows {
					continue
				}
				if wall[ny][nx] || wall[y+d.y/2][x+d.x/2] {
					continue
				}
				if err := w.Connect(roomID(x, y), dir, roomID(nx, ny)); err != nil {
					return nil, "", "", err
				}
			}
		}
	}

	startID := roomID(start.x, start.y)
	goalID, goalDepth := deepestRoom(w, startID)
	assignAmbience(w, startID, goalDepth)

	// Bar the way into the goal room
	if goalID != startID {
		for _, dir := range dirOrder {
			if to, ok := w.Connection(goalID, dir); ok {
				w.SetLock(to, dir.Opposite(), "deep-gate")
				break
			}
		}
	}

	return w, startID, goalID, nil
}

func roomID(x, y int) string {
	return fmt.Sprintf("r%d-%d", x, y)
}

func oddDown(n int) int {
	if n < 3 {
		return 3
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}

// carve runs the recursive backtracker over node cells, knocking out
// the wall cell between each visited pair
func carve(wall [][]bool, start cell, rng *rand.Rand) {
	rows, cols := len(wall), len(wall[0])

	stack := []cell{start}
	wall[start.y][start.x] = false

	for len(stack) > 0 {
		curr := stack[len(stack)-1]

		var next []cell
		for _, dir := range dirOrder {
			d := gridDirs[dir]
			nx, ny := curr.x+d.x, curr.y+d.y
			if nx > 0 && nx < cols-1 && ny > 0 && ny < rows-1 && wall[ny][nx] {
				next = append(next, d)
			}
		}

		if len(next) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := next[rng.Intn(len(next))]
		wall[curr.y+d.y/2][curr.x+d.x/2] = false
		wall[curr.y+d.y][curr.x+d.x] = false
		stack = append(stack, cell{curr.x + d.x, curr.y + d.y})
	}
}

// braid reopens dead ends with the given probability, turning the tree
// into a graph with cycles. Only walls whose removal links two already
// carved nodes are candidates.
func braid(wall [][]bool, probability float64, rng *rand.Rand) {
	rows, cols := len(wall), len(wall[0])

	for y := 1; y < rows-1; y += 2 {
		for x := 1; x < cols-1; x += 2 {
			if wall[y][x] || !isDeadEnd(wall, x, y) {
				continue
			}
			if rng.Float64() >= probability {
				continue
			}

			var candidates []cell
			for _, dir := range dirOrder {
				d := gridDirs[dir]
				nx, ny := x+d.x, y+d.y
				wx, wy := x+d.x/2, y+d.y/2
				if nx <= 0 || nx >= cols-1 || ny <= 0 || ny >= rows-1 {
					continue
				}
				if !wall[ny][nx] && wall[wy][wx] {
					candidates = append(candidates, cell{wx, wy})
				}
			}
			if len(candidates) > 0 {
				c := candidates[rng.Intn(len(candidates))]
				wall[c.y][c.x] = false
			}
		}
	}
}

func isDeadEnd(wall [][]bool, x, y int) bool {
	exits := 0
	for _, d := range [4]cell{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
		if !wall[y+d.y][x+d.x] {
			exits++
		}
	}
	return exits == 1
}

// deepestRoom finds the room furthest from start by hop count. Ids are
// scanned sorted so depth ties resolve the same way every run.
func deepestRoom(w *World, startID string) (string, int) {
	ids := w.Rooms()
	sort.Strings(ids)

	goalID, goalDepth := startID, 0
	for _, id := range ids {
		if d := w.RoomDistance(startID, id); d > goalDepth {
			goalID, goalDepth = id, d
		}
	}
	return goalID, goalDepth
}

// assignAmbience spreads the palette across depth rings from the start
func assignAmbience(w *World, startID string, maxDepth int) {
	if maxDepth < 1 {
		maxDepth = 1
	}
	for id, room := range w.rooms {
		d := w.RoomDistance(startID, id)
		if d < 0 {
			d = maxDepth
		}
		idx := d * len(ambiencePalette) / (maxDepth + 1)
		if idx >= len(ambiencePalette) {
			idx = len(ambiencePalette) - 1
		}
		cfg := ambiencePalette[idx]
		room.Ambience = &cfg
	}
}

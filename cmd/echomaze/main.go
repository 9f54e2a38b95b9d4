package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/echomaze/audio"
	"github.com/lixenwraith/echomaze/world"
)

var (
	mutedFlag = flag.Bool("muted", false, "Start with audio muted")
	startFlag = flag.String("start", "entrance", "Starting room id")
	mazeFlag  = flag.Bool("maze", false, "Explore a generated cave instead of the demo one")
	seedFlag  = flag.Int64("seed", 0, "Maze generation seed (0 = random)")
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if the game crashes
	var screen tcell.Screen
	defer func() {
		if r := recover(); r != nil {
			if screen != nil {
				screen.Fini()
			}
			fmt.Fprintf(os.Stderr, "\n\x1b[31mECHOMAZE CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	w := buildDemoCave()
	startRoom := *startFlag
	goalRoom := "vault"
	if *mazeFlag {
		var err error
		w, startRoom, goalRoom, err = world.GenerateMaze(world.MazeConfig{
			Width: 15, Height: 11, Braiding: 0.3, Seed: *seedFlag,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Maze generation failed: %v\n", err)
			os.Exit(1)
		}
	}

	svc := audio.NewService(w)
	if err := svc.Init(*mutedFlag, startRoom); err != nil {
		fmt.Fprintf(os.Stderr, "Audio initialization failed: %v\n", err)
		os.Exit(1)
	}
	if err := svc.Start(); err != nil {
		fmt.Printf("Audio start failed: %v (continuing silent)\n", err)
	}
	defer svc.Stop()

	var err error
	screen, err = tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.HideCursor()

	engine := svc.Engine()
	status := "listening..."

	for {
		drawStatus(screen, w, engine, status)

		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()

		case *tcell.EventKey:
			if engine == nil {
				if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
					return
				}
				continue
			}

			switch {
			case ev.Key() == tcell.KeyEscape || ev.Rune() == 'q':
				return

			case ev.Key() == tcell.KeyUp:
				status = step(w, engine, audio.North)
			case ev.Key() == tcell.KeyRight:
				status = step(w, engine, audio.East)
			case ev.Key() == tcell.KeyDown:
				status = step(w, engine, audio.South)
			case ev.Key() == tcell.KeyLeft:
				status = step(w, engine, audio.West)

			case ev.Rune() == ' ':
				engine.ActivateSonar()
				status = "sonar: " + engine.Facing().String()

			case ev.Rune() == 's':
				name := engine.CurrentNode()
				if room, ok := w.Room(name); ok {
					name = room.Name
				}
				engine.Speak("You are in the " + name + ", facing " + engine.Facing().String())
				status = "narrating"

			case ev.Rune() == 'i':
				// Audible hint: how far off is the goal?
				dist := w.RoomDistanceUnlocked(engine.CurrentNode(), goalRoom)
				if dist < 0 {
					dist = w.RoomDistance(engine.CurrentNode(), goalRoom)
				}
				engine.PlayItemSignature("key", engine.Facing(), dist)
				status = "item ping"

			case ev.Rune() == 'm':
				if engine.ToggleMute() {
					status = "unmuted"
				} else {
					status = "muted"
				}
			}
		}
	}
}

// step turns toward dir first; a second press in the same direction
// attempts the move
func step(w *world.World, e *audio.Engine, dir audio.Direction) string {
	if e.Facing() != dir {
		e.FaceDirection(dir)
		return "facing " + dir.String()
	}

	node := e.CurrentNode()
	to, ok := w.Connection(node, dir)
	if !ok {
		e.MoveBlocked()
		return "blocked: wall"
	}
	if lockID, locked := w.Lock(node, dir); locked && !w.IsUnlocked(lockID) {
		e.MoveBlocked()
		return "blocked: " + lockID
	}

	e.MoveTo(to)
	if room, ok := w.Room(to); ok {
		return "entered " + room.Name
	}
	return "entered " + to
}

func drawStatus(s tcell.Screen, w *world.World, e *audio.Engine, status string) {
	s.Clear()

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	type line struct {
		text  string
		style tcell.Style
	}
	lines := []line{
		{"echomaze - close your eyes", style},
		{"", style},
		{"arrows: face/move  space: sonar  s: speak  i: item ping  m: mute  q: quit", dim},
		{"", style},
	}

	if e != nil {
		name := e.CurrentNode()
		if room, ok := w.Room(name); ok {
			name = room.Name
		}
		lines = append(lines,
			line{"room: " + name + "  facing: " + e.Facing().String(), style},
			line{status, dim},
		)
	} else {
		lines = append(lines, line{"audio unavailable - " + status, dim})
	}

	for row, l := range lines {
		for col, r := range l.text {
			s.SetContent(col+2, row+1, r, nil, l.style)
		}
	}
	s.Show()
}

// buildDemoCave assembles the demo world:
//
//	entrance --E-- hall --E-- vault (iron-gate)
//	    |            |
//	    S            S
//	    |            |
//	 cistern ---E-- grotto
func buildDemoCave() *world.World {
	w := world.New()

	rooms := []*world.Room{
		{ID: "entrance", Name: "cave entrance", Ambience: &audio.AmbienceConfig{
			ReverbDecay: 1.2, ReverbWet: 0.25, Character: audio.CharacterNatural, EQType: "open",
			Sounds: []audio.AmbienceSound{
				{ID: "wind", Type: audio.SoundWind, Volume: 0.5},
				{ID: "crickets", Type: audio.SoundCrickets, Volume: 0.3},
			},
		}},
		{ID: "hall", Name: "great hall", Ambience: &audio.AmbienceConfig{
			ReverbDecay: 2.8, ReverbWet: 0.5, Character: audio.CharacterStone, EQType: "cavern",
			Sounds: []audio.AmbienceSound{
				{ID: "wind", Type: audio.SoundWind, Volume: 0.25},
				{ID: "drips", Type: audio.SoundDrip, Volume: 0.4},
			},
		}},
		{ID: "vault", Name: "iron vault", Ambience: &audio.AmbienceConfig{
			ReverbDecay: 2.2, ReverbWet: 0.45, Character: audio.CharacterMetallic, EQType: "metal",
			Sounds: []audio.AmbienceSound{
				{ID: "hum", Type: audio.SoundHum, Volume: 0.4},
				{ID: "heartbeat", Type: audio.SoundHeartbeat, Volume: 0.3},
			},
		}},
		{ID: "cistern", Name: "flooded cistern", Ambience: &audio.AmbienceConfig{
			ReverbDecay: 3.5, ReverbWet: 0.55, Character: audio.CharacterStone, EQType: "cavern",
			Sounds: []audio.AmbienceSound{
				{ID: "water", Type: audio.SoundWater, Volume: 0.5},
				{ID: "drips", Type: audio.SoundDrip, Volume: 0.35},
			},
		}},
		{ID: "grotto", Name: "crystal grotto", Ambience: &audio.AmbienceConfig{
			ReverbDecay: 4.5, ReverbWet: 0.65, Character: audio.CharacterEthereal, EQType: "crystal",
			Sounds: []audio.AmbienceSound{
				{ID: "chimes", Type: audio.SoundChimes, Volume: 0.4},
				{ID: "rumble", Type: audio.SoundRumble, Volume: 0.25},
			},
		}},
	}
	for _, r := range rooms {
		if err := w.AddRoom(r); err != nil {
			panic(err)
		}
	}

	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(w.Connect("entrance", audio.East, "hall"))
	must(w.Connect("hall", audio.East, "vault"))
	must(w.Connect("entrance", audio.South, "cistern"))
	must(w.Connect("hall", audio.South, "grotto"))
	must(w.Connect("cistern", audio.East, "grotto"))

	w.SetLock("hall", audio.East, "iron-gate")

	return w
}

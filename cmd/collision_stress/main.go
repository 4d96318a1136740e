// Stress test timing collider refit and character resolution as the
// obstacle count grows
package main

import (
	"fmt"
	"math/rand"
	"time"

	"walk3d/internal/config"
	"walk3d/internal/input"
	"walk3d/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const framesPerCount = 200

func main() {
	// Test various object counts
	testCounts := []int{100, 500, 1000, 2000, 5000, 10000, 20000}

	for _, count := range testCounts {
		testResolve(count, framesPerCount)
	}
}

func testResolve(count, iterations int) {
	w := world.New(config.Default())
	rng := rand.New(rand.NewSource(42)) // Consistent results

	// Spawn in a slab around the character, size scales with count to keep density reasonable
	spawnSize := float32(50.0) + float32(count)/100.0

	for i := 0; i < count; i++ {
		h := w.Graph.NewNode(fmt.Sprintf("Box_%d", i))
		n := w.Graph.Node(h)
		n.SetPosition(
			rng.Float32()*spawnSize-spawnSize/2,
			rng.Float32()*4,
			rng.Float32()*spawnSize-spawnSize/2,
		)
		n.Rotate(0, rng.Float32()*mgl32.DegToRad(90), 0)
		s := 0.5 + rng.Float32()*1.5
		w.Physics.AddBox(h, n.Name, mgl32.Vec3{}, mgl32.Vec3{s, s, s})
	}

	floor := w.Graph.NewNode("Floor")
	w.Graph.Node(floor).SetPosition(0, -0.5, 0)
	w.Physics.AddBox(floor, "Floor", mgl32.Vec3{}, mgl32.Vec3{spawnSize, 1, spawnSize})

	player := w.Graph.NewNode("Player")
	w.Graph.Node(player).SetPosition(0, 0.9, 0)
	w.Physics.AddBox(player, "Player", mgl32.Vec3{}, mgl32.Vec3{1, 1.8, 1})
	if _, err := w.SpawnCharacter(player); err != nil {
		panic(err)
	}

	// Warm up
	dt := float32(1.0 / 60)
	w.Step(dt, input.State{})

	// walk in circles so the character keeps meeting new boxes
	in := input.State{Forward: true, MouseDX: 20}
	contacts := 0
	start := time.Now()
	for i := 0; i < iterations; i++ {
		w.Step(dt, in)
		contacts += len(w.Contacts())
	}
	frameTime := time.Since(start) / time.Duration(iterations)

	fmt.Printf("%5d obstacles: %10v per frame | %6.2f contacts/frame | %s\n",
		count, frameTime.Round(time.Microsecond),
		float64(contacts)/float64(iterations), w.Character.State())
}

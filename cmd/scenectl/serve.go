package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"walk3d/internal/debugserver"
	"walk3d/internal/input"
	"walk3d/internal/watcher"
	"walk3d/internal/world"

	"github.com/spf13/cobra"
)

var (
	serveAddr     string
	serveTimeline string
	serveWatch    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scene in real time and serve frame snapshots",
	Long: `Step the scene at the configured fixed rate and publish snapshots to the debug
server (/api/snapshot, /api/nodes, /api/character, /api/colliders and the /ws
feed). A timeline, if given, loops. With --watch the scene reloads when its
file changes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVarP(&serveTimeline, "timeline", "t", "", "YAML input timeline to loop")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "reload the scene when it changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Debug.Addr = serveAddr
	}

	w, err := world.Load(cfg)
	if err != nil {
		return err
	}

	var tl *input.Timeline
	if serveTimeline != "" {
		if tl, err = input.LoadTimeline(serveTimeline); err != nil {
			return err
		}
	}

	// the watcher swaps in a freshly loaded world between frames
	var mu sync.Mutex
	var reloaded *world.World
	if serveWatch {
		fw, err := watcher.NewFileWatcher(200 * time.Millisecond)
		if err != nil {
			return err
		}
		defer fw.Close()
		err = fw.Watch([]string{cfg.Scene}, func(path string) {
			nw, err := world.Load(cfg)
			if err != nil {
				log.Printf("[serve] reload %s: %v", path, err)
				return
			}
			mu.Lock()
			reloaded = nw
			mu.Unlock()
			log.Printf("[serve] reloaded %s", path)
		})
		if err != nil {
			return err
		}
		fw.Start()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := debugserver.NewHub()
	srv := debugserver.New(hub)
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe(ctx, cfg.Debug.Addr) }()

	dt := cfg.Simulation.FixedStep
	ticker := time.NewTicker(time.Duration(float64(dt) * float64(time.Second)))
	defer ticker.Stop()

	var loopStart float32
	for {
		select {
		case <-ctx.Done():
			return <-errc
		case err := <-errc:
			return err
		case <-ticker.C:
		}

		mu.Lock()
		if reloaded != nil {
			w, reloaded = reloaded, nil
			loopStart = 0
		}
		mu.Unlock()

		var in input.State
		if tl != nil {
			t := w.Time + dt - loopStart
			if d := tl.Duration(); d > 0 && t > d {
				loopStart = w.Time
				t = dt
			}
			in = tl.At(t, dt)
		}
		w.Step(dt, in)

		if w.Frame%cfg.Debug.PublishEvery == 0 {
			if err := hub.Publish(w.Snapshot()); err != nil {
				log.Printf("[serve] publish: %v", err)
			}
		}
	}
}

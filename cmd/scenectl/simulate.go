package main

import (
	"encoding/json"
	"fmt"
	"os"

	"walk3d/internal/input"
	"walk3d/internal/world"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	simFrames int
	simStep   float32
	simEvery  int
	simOut    string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [timeline.yaml]",
	Short: "Step the scene with scripted input",
	Long: `Run the scene for a number of fixed steps. Input comes from a YAML timeline;
without one the character stands still and only gravity acts. The character
state is printed every --every frames and the last frame can be written as a
JSON snapshot.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().IntVarP(&simFrames, "frames", "n", 0, "frames to run (0: config value, or the timeline length)")
	simulateCmd.Flags().Float32Var(&simStep, "dt", 0, "fixed step in seconds (0: config value)")
	simulateCmd.Flags().IntVar(&simEvery, "every", 30, "print the character every N frames")
	simulateCmd.Flags().StringVarP(&simOut, "out", "o", "", "write the final snapshot to this file")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w, err := world.Load(cfg)
	if err != nil {
		return err
	}

	var tl *input.Timeline
	if len(args) == 1 {
		if tl, err = input.LoadTimeline(args[0]); err != nil {
			return err
		}
	}

	dt := cfg.Simulation.FixedStep
	if simStep > 0 {
		dt = simStep
	}
	frames := cfg.Simulation.Frames
	if simFrames > 0 {
		frames = simFrames
	} else if tl != nil {
		frames = int(tl.Duration()/dt) + 1
	}
	if simEvery < 1 {
		simEvery = 1
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Simulating %q: %d frames of %.4fs\n", w.Name, frames, dt)
	fmt.Fprintln(out, "frame    time  state       position                       colliding")

	for i := 0; i < frames; i++ {
		var in input.State
		if tl != nil {
			in = tl.At(w.Time+dt, dt)
		}
		w.Step(dt, in)
		if w.Frame%simEvery == 0 || i == frames-1 {
			printFrame(cmd, w)
		}
	}

	if simOut != "" {
		data, err := json.MarshalIndent(w.Snapshot(), "", "  ")
		if err != nil {
			return errors.Wrap(err, "marshal snapshot")
		}
		if err := os.WriteFile(simOut, data, 0644); err != nil {
			return errors.Wrapf(err, "write snapshot %s", simOut)
		}
	}
	return nil
}

func printFrame(cmd *cobra.Command, w *world.World) {
	out := cmd.OutOrStdout()
	c := w.Character
	if c == nil {
		fmt.Fprintf(out, "%5d %7.2f  (no character)\n", w.Frame, w.Time)
		return
	}
	p := c.Position
	fmt.Fprintf(out, "%5d %7.2f  %-10s  (%8.3f, %8.3f, %8.3f)  %v\n",
		w.Frame, w.Time, c.State(), p[0], p[1], p[2], w.Colliding())
}

package main

import (
	"fmt"
	"strings"

	"walk3d/internal/engine"
	"walk3d/internal/physics"
	"walk3d/internal/world"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

var inspectDump bool

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the scene hierarchy and collider boxes",
	Long: `Load the scene, refresh every world matrix and print the node tree with world
positions, followed by the world box of every collider.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectDump, "dump", false, "dump the full frame snapshot")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w, err := world.Load(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if inspectDump {
		dumper := spew.NewDefaultConfig()
		dumper.DisableCapacities = true
		dumper.DisablePointerAddresses = true
		fmt.Fprintln(out, dumper.Sdump(w.Snapshot()))
		return nil
	}

	fmt.Fprintf(out, "Scene %q\n", w.Name)
	fmt.Fprintln(out, strings.Repeat("=", len(w.Name)+8))
	w.Graph.Walk(func(h engine.Handle, depth int) bool {
		n := w.Graph.Node(h)
		p := n.WorldPosition()
		marker := ""
		if w.Character != nil && w.Character.Node == h {
			marker = " [character]"
		}
		fmt.Fprintf(out, "%s%s (%.3f, %.3f, %.3f)%s\n", strings.Repeat("  ", depth), n.Name, p[0], p[1], p[2], marker)
		return true
	})

	fmt.Fprintf(out, "\nColliders: %d\n", w.Physics.Len())
	for _, c := range w.Physics.Colliders() {
		kind := "solid"
		if !c.Solid {
			kind = "trigger"
		}
		fmt.Fprintf(out, "  %-20s %-7s %s\n", c.Name, kind, formatBox(c.World))
	}
	fmt.Fprintf(out, "\nLights: %d\n", len(w.Lights))
	for _, l := range w.Lights {
		fmt.Fprintf(out, "  %-20s %-11s pos (%.2f, %.2f, %.2f) dir (%.2f, %.2f, %.2f)\n",
			l.Name, l.Kind, l.Position[0], l.Position[1], l.Position[2],
			l.Direction[0], l.Direction[1], l.Direction[2])
	}
	if w.Character != nil {
		fmt.Fprintf(out, "\nCharacter box: %s\n", formatBox(w.CharacterBounds()))
		if target, ok := w.LookAt(100); ok {
			fmt.Fprintf(out, "Looking at: %s (%.2f away)\n", target.Name, target.Distance)
		}
	}
	return nil
}

func formatBox(b physics.AABB) string {
	if !b.Valid() {
		return "(empty)"
	}
	return fmt.Sprintf("min (%.3f, %.3f, %.3f) max (%.3f, %.3f, %.3f)",
		b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
}

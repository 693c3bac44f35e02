// Command hydroc is a debug entry point for the compiler core: it builds
// a small sample flow, optionally loads a topology file to seed cluster
// membership on the in-process backend, renders the graph, and
// (with -compile) runs it through network.Compile and lower.Emit to
// report the resulting flat program's shape.
//
// It is not a product CLI — render/, lower/, and network/ are the
// library surface; this binary exists so a developer can eyeball a
// rendered graph without writing a throwaway test. Per SPEC_FULL.md
// §7's scope, there is no scheduler here to actually drive the emitted
// program — that is deliberately out of scope for the compiler core.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hydroflow-go/hydro/config"
	"github.com/hydroflow-go/hydro/deploy/inprocess"
	"github.com/hydroflow-go/hydro/flow"
	"github.com/hydroflow-go/hydro/location"
	"github.com/hydroflow-go/hydro/lower"
	"github.com/hydroflow-go/hydro/network"
	"github.com/hydroflow-go/hydro/render"
)

func main() {
	var (
		topologyPath = flag.String("topology", "", "path to a topology YAML file (optional)")
		format       = flag.String("format", "mermaid", "render format: mermaid, dot, or json")
		compile      = flag.Bool("compile", false, "also run network.Compile + lower.Emit over deploy/inprocess and report the flat program")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	backend := inprocess.New()
	if *topologyPath != "" {
		topo, err := config.Load(*topologyPath)
		if err != nil {
			logger.Error("loading topology", "error", err)
			os.Exit(1)
		}
		for _, c := range topo.Clusters {
			members := make([]location.ID, len(c.Members))
			for i, id := range c.Members {
				members[i] = location.Process(id)
			}
			backend.SetClusterMembers(location.Cluster(c.ID), members)
			logger.Info("seeded cluster membership", "cluster", c.Name, "members", len(members))
		}
	}

	f := sampleFlow()

	if err := renderFlow(f, *format, os.Stdout); err != nil {
		logger.Error("rendering flow", "error", err)
		os.Exit(1)
	}

	if !*compile {
		return
	}

	if err := network.Compile(f.State(), backend); err != nil {
		logger.Error("compiling network", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	program := lower.Emit(ctx, f.State())
	logger.Info("emitted program", "statements", len(program.Statements), "roots", len(program.Roots))
}

// sampleFlow builds a minimal Process -> map -> ForEach pipeline so
// -format and -compile have something concrete to show, grounded on the
// same builder-call shapes flow/stream_test.go exercises.
func sampleFlow() *flow.Flow {
	f := flow.New()
	proc := flow.NewProcess(f, 1)

	src := flow.IterSource[int](proc.ID(), f, "hydroc_sample", []int{1, 2, 3, 4, 5})
	doubled := flow.Map(src, "double", func(x int) int { return x * 2 })
	doubled.ForEach("emit", func(int) {})

	return f
}

func renderFlow(f *flow.Flow, format string, w interface{ Write([]byte) (int, error) }) error {
	roots := f.State().AllRoots()
	switch format {
	case "mermaid":
		_, err := w.Write([]byte(render.Mermaid(roots)))
		return err
	case "dot":
		_, err := w.Write([]byte(render.DOT(roots)))
		return err
	case "json":
		bytez, err := render.JSON(roots)
		if err != nil {
			return err
		}
		_, err = w.Write(bytez)
		return err
	default:
		return fmt.Errorf("unknown format %q (want mermaid, dot, or json)", format)
	}
}

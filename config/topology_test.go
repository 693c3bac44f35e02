package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleTopology = `
processes:
  - name: ingest
    id: 1
clusters:
  - name: workers
    id: 2
    members: [10, 11, 12]
externals:
  - name: events
    id: 3
    connector: kafka
    settings:
      topic: events
      brokers: ["localhost:9092"]
`

func writeTopology(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "topology.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadDecodesTopology(t *testing.T) {
	path := writeTopology(t, sampleTopology)

	topo, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	proc, ok := topo.Process("ingest")
	if !ok || proc.ID != 1 {
		t.Fatalf("unexpected process: %+v, ok=%v", proc, ok)
	}

	cluster, ok := topo.Cluster("workers")
	if !ok || len(cluster.Members) != 3 {
		t.Fatalf("unexpected cluster: %+v, ok=%v", cluster, ok)
	}

	ext, ok := topo.External("events")
	if !ok || ext.Connector != "kafka" || ext.Settings["topic"] != "events" {
		t.Fatalf("unexpected external: %+v, ok=%v", ext, ok)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLookupMiss(t *testing.T) {
	path := writeTopology(t, sampleTopology)
	topo, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := topo.Process("nope"); ok {
		t.Fatal("expected miss for unknown process name")
	}
}

// Package config loads the declarative deployment topology — which
// processes, clusters, and externals exist, and which connector backs
// each external — the one piece of a flow the spec keeps data-driven
// rather than code-first (spec §6.1 deployment backends). The dataflow
// graph itself stays code-first via the flow builder API.
package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ProcessSpec names a single process location.
type ProcessSpec struct {
	Name string `yaml:"name" mapstructure:"name"`
	ID   uint64 `yaml:"id" mapstructure:"id"`
}

// ClusterSpec names a cluster location and its static member process ids.
type ClusterSpec struct {
	Name    string   `yaml:"name" mapstructure:"name"`
	ID      uint64   `yaml:"id" mapstructure:"id"`
	Members []uint64 `yaml:"members" mapstructure:"members"`
}

// ExternalSpec names an external endpoint and which connector backend
// (e.g. "kafka", "redis", "http") serves its ExternalInput/SendExternal
// boundary, plus that connector's own settings (handed to viper at
// runtime by whichever deploy/* package's Source/Sink is selected).
type ExternalSpec struct {
	Name      string                 `yaml:"name" mapstructure:"name"`
	ID        uint64                 `yaml:"id" mapstructure:"id"`
	Connector string                 `yaml:"connector" mapstructure:"connector"`
	Settings  map[string]interface{} `yaml:"settings" mapstructure:"settings"`
}

// Topology is the decoded shape of a topology file.
type Topology struct {
	Processes []ProcessSpec  `yaml:"processes" mapstructure:"processes"`
	Clusters  []ClusterSpec  `yaml:"clusters" mapstructure:"clusters"`
	Externals []ExternalSpec `yaml:"externals" mapstructure:"externals"`
}

// Load reads and decodes a YAML topology file. The raw YAML is first
// unmarshalled into a generic map and then decoded through mapstructure
// so field names are matched case-insensitively, the same two-step
// decode the teacher's declarative vertex loader used.
func Load(path string) (*Topology, error) {
	bytez, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(bytez, &raw); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	t := &Topology{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           t,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("config: build decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	return t, nil
}

// Process looks up a process spec by name.
func (t *Topology) Process(name string) (ProcessSpec, bool) {
	for _, p := range t.Processes {
		if p.Name == name {
			return p, true
		}
	}
	return ProcessSpec{}, false
}

// Cluster looks up a cluster spec by name.
func (t *Topology) Cluster(name string) (ClusterSpec, bool) {
	for _, c := range t.Clusters {
		if c.Name == name {
			return c, true
		}
	}
	return ClusterSpec{}, false
}

// External looks up an external spec by name.
func (t *Topology) External(name string) (ExternalSpec, bool) {
	for _, e := range t.Externals {
		if e.Name == name {
			return e, true
		}
	}
	return ExternalSpec{}, false
}

// Package inject loads hand-written overrides that are spliced into generated
// output, per artifact and per node.
//
// An injection file maps artifact name to node name to the override:
//
//	serialize:
//	  GroupShape:
//	    content: |
//	      if (depth !== undefined && depth <= 0) {
//	        return { typeId: "group-shape" } as any;
//	      }
//
// before and after are emitted around the node's declaration. content replaces
// the body: the function body in export.ts, the class body in classes.ts, and
// the whole declaration in types.ts. Files ending in .toml are read as TOML,
// everything else as YAML.
package inject

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/ir"
)

// Injection is the override for one node in one artifact
type Injection struct {
	Before  string `yaml:"before" toml:"before"`
	After   string `yaml:"after" toml:"after"`
	Content string `yaml:"content" toml:"content"`
}

// IsZero reports whether the injection carries no text
func (i Injection) IsZero() bool {
	return i.Before == "" && i.After == "" && i.Content == ""
}

// Set holds every injection, keyed by artifact then node name.
// A nil *Set is valid and empty.
type Set struct {
	entries map[string]map[string]Injection
}

// Artifacts lists the artifact names an injection file may use
var Artifacts = []string{"types", "classes", "serialize"}

// Load reads an injection file. An empty path returns an empty set.
func Load(path string) (*Set, error) {
	if path == "" {
		return &Set{}, nil
	}

	entries := make(map[string]map[string]Injection)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &entries); err != nil {
			return nil, errors.Wrapf(err, "failed to parse injection file %s", path)
		}
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read injection file %s", path)
		}
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, errors.Wrapf(err, "failed to parse injection file %s", path)
		}
	}

	s := &Set{entries: entries}
	if err := s.checkArtifacts(); err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return s, nil
}

// New builds a set from a literal map, mainly for tests
func New(entries map[string]map[string]Injection) *Set {
	return &Set{entries: entries}
}

func (s *Set) checkArtifacts() error {
	for artifact := range s.entries {
		known := false
		for _, a := range Artifacts {
			if a == artifact {
				known = true
				break
			}
		}
		if !known {
			return errors.WithHintf(
				errors.ConfigErrorf("unknown artifact %q in injection file", artifact),
				"valid artifacts are: %s", strings.Join(Artifacts, ", "),
			)
		}
	}
	return nil
}

// Get returns the injection for node in artifact, or the zero Injection.
func (s *Set) Get(artifact, node string) Injection {
	if s == nil {
		return Injection{}
	}
	return s.entries[artifact][node]
}

// Len returns the number of injected nodes across all artifacts
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, nodes := range s.entries {
		n += len(nodes)
	}
	return n
}

// Check reports injections that name nodes missing from the graph, which would
// otherwise be silently ignored.
func (s *Set) Check(g *ir.Graph) error {
	if s == nil {
		return nil
	}
	var unknown []string
	for artifact, nodes := range s.entries {
		for name := range nodes {
			if _, ok := g.Node(name); !ok {
				unknown = append(unknown, artifact+"."+name)
			}
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return errors.UnresolvedReff("injections reference unknown nodes: %s", strings.Join(unknown, ", "))
}

package manifest

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	yaml "gopkg.in/yaml.v2"
)

const name string = "github.com/psytestlab/results-api/internal/manifest"

var tracer = otel.Tracer(name)

// Manifest maps a project name to the exact set of parameter names a
// submission for that project must carry.
type Manifest map[string][]string

func Parse(data []byte) (Manifest, error) {
	var m Manifest

	err := yaml.Unmarshal(data, &m)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if len(m) == 0 {
		return nil, fmt.Errorf("manifest declares no projects")
	}

	for project, params := range m {
		if project == "" {
			return nil, fmt.Errorf("manifest contains an empty project name")
		}
		if len(params) == 0 {
			return nil, fmt.Errorf("project %q declares no parameters", project)
		}
	}

	return m, nil
}

// Projects lists the declared project names in lexicographic order.
func (m Manifest) Projects() []string {
	projects := make([]string, 0, len(m))
	for project := range m {
		projects = append(projects, project)
	}
	sort.Strings(projects)

	return projects
}

func (m Manifest) Has(project string) bool {
	_, ok := m[project]
	return ok
}

func (m Manifest) Required(project string) ([]string, bool) {
	params, ok := m[project]
	return params, ok
}

// Matches reports whether names is exactly the declared set for project.
// Missing, extraneous and duplicated names all fail.
func (m Manifest) Matches(project string, names []string) bool {
	required, ok := m[project]
	if !ok {
		return false
	}

	set := make(map[string]bool, len(required))
	for _, n := range required {
		set[n] = true
	}

	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !set[n] || seen[n] {
			return false
		}
		seen[n] = true
	}

	return len(seen) == len(set)
}

// Store holds the current manifest snapshot. Reload replaces the snapshot
// wholesale, readers racing a reload see either the old or the new manifest,
// never a mix.
type Store struct {
	path    string
	current atomic.Pointer[Manifest]
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Current() Manifest {
	m := s.current.Load()
	if m == nil {
		return Manifest{}
	}

	return *m
}

// Reload reads the manifest file and swaps the snapshot in. On failure the
// previous snapshot stays in place.
func (s *Store) Reload(ctx context.Context) error {
	_, span := tracer.Start(ctx, "Reload")
	defer span.End()

	span.SetAttributes(attribute.String("manifest.path", s.path))

	data, err := os.ReadFile(s.path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read manifest file")
		return fmt.Errorf("failed to read manifest file: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse manifest file")
		return err
	}

	s.current.Store(&m)

	span.SetAttributes(attribute.Int("manifest.projects", len(m)))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "reloaded manifest")
	return nil
}

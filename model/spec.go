package model

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Spec describes a batch of counting runs sharing one engine configuration.
type Spec struct {
	Engine EngineSpec         `toml:"engine"`
	Runs   map[string]RunSpec `toml:"runs,omitempty"`
}

type EngineSpec struct {
	Workers        int  `toml:"workers,omitempty"`
	SingleThread   bool `toml:"single_thread,omitempty"`
	MaxDepth       int  `toml:"max_depth,omitempty"`
	StrictOverflow bool `toml:"strict_overflow,omitempty"`
}

type RunSpec struct {
	A     int  `toml:"a"`
	B     int  `toml:"b"`
	C     int  `toml:"c"`
	N     int  `toml:"n"`
	Merge bool `toml:"merge,omitempty"`
}

func parseSpec(f io.Reader) (*Spec, error) {
	var out Spec
	_, err := toml.NewDecoder(f).Decode(&out)
	return &out, err
}

// parseStarlarkSpec evaluates a Starlark file whose engine() and run()
// builtins fill in the spec.
func parseStarlarkSpec(filename string, src io.Reader) (*Spec, error) {
	out := &Spec{Runs: make(map[string]RunSpec)}

	engine := func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		e := out.Engine
		err := starlark.UnpackArgs(b.Name(), args, kwargs,
			"workers?", &e.Workers,
			"single_thread?", &e.SingleThread,
			"max_depth?", &e.MaxDepth,
			"strict_overflow?", &e.StrictOverflow)
		if err != nil {
			return nil, err
		}
		out.Engine = e
		return starlark.None, nil
	}

	run := func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		var r RunSpec
		err := starlark.UnpackArgs(b.Name(), args, kwargs,
			"name", &name,
			"a?", &r.A,
			"b?", &r.B,
			"c?", &r.C,
			"n?", &r.N,
			"merge?", &r.Merge)
		if err != nil {
			return nil, err
		}
		if _, ok := out.Runs[name]; ok {
			return nil, fmt.Errorf("%s: duplicate run %q", b.Name(), name)
		}
		out.Runs[name] = r
		return starlark.None, nil
	}

	predeclared := starlark.StringDict{
		"engine": starlark.NewBuiltin("engine", engine),
		"run":    starlark.NewBuiltin("run", run),
	}
	thread := &starlark.Thread{Name: filename}
	_, err := starlark.ExecFileOptions(&syntax.FileOptions{TopLevelControl: true}, thread, filename, src, predeclared)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoadSpecFromFile reads a run spec. Files ending in .star are evaluated as
// Starlark, anything else is parsed as TOML.
func LoadSpecFromFile(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var s *Spec
	if filepath.Ext(path) == ".star" {
		s, err = parseStarlarkSpec(path, f)
	} else {
		s, err = parseSpec(f)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if len(s.Runs) == 0 {
		return nil, fmt.Errorf("loading %s: no runs defined", path)
	}
	return s, nil
}

// RunNames returns the run names in sorted order.
func (s *Spec) RunNames() []string {
	names := make([]string, 0, len(s.Runs))
	for k := range s.Runs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// BuildExecutors returns one uninitialized Executor per run, in name order.
func (s *Spec) BuildExecutors() []*Executor {
	var out []*Executor
	for _, name := range s.RunNames() {
		r := s.Runs[name]
		out = append(out, &Executor{
			Name:           name,
			A:              r.A,
			B:              r.B,
			C:              r.C,
			N:              r.N,
			Merge:          r.Merge,
			Workers:        s.Engine.Workers,
			SingleThread:   s.Engine.SingleThread,
			MaxDepth:       s.Engine.MaxDepth,
			StrictOverflow: s.Engine.StrictOverflow,
		})
	}
	return out
}

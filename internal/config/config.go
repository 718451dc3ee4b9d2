// Package config loads bundle configuration files and compiles their
// sources into discovery rules.
//
// Two formats are accepted, chosen by file extension:
//
//	.hcl   source "scripts" { base_path = "scripts" ... } blocks
//	.json  {"root": ..., "sources": [{"name": ..., "base_path": ...}]}
//
// JSON documents may carry sources anywhere; a JSONPath selector picks the
// source objects out (DefaultSelector when empty).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/cassette/api"
	"github.com/agentic-research/cassette/internal/bundle"
	"github.com/agentic-research/cassette/internal/source"
	"github.com/agentic-research/cassette/internal/vfs"
)

// DefaultSelector selects the sources array of a JSON configuration.
const DefaultSelector = "$.sources[*]"

// Load reads the configuration at path. A relative or empty Root is resolved
// against the directory containing the file.
func Load(path, selector string) (*api.Bundle, error) {
	var (
		b   *api.Bundle
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		b, err = loadHCL(path)
	case ".json":
		b, err = loadJSON(path, selector)
	default:
		return nil, fmt.Errorf("load config %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	switch {
	case b.Root == "":
		b.Root = dir
	case !filepath.IsAbs(b.Root):
		b.Root = filepath.Join(dir, b.Root)
	}
	return b, nil
}

func loadHCL(path string) (*api.Bundle, error) {
	var b api.Bundle
	if err := hclsimple.DecodeFile(path, nil, &b); err != nil {
		return nil, fmt.Errorf("decode hcl %s: %w", path, err)
	}
	return &b, nil
}

func loadJSON(path, selector string) (*api.Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	doc, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse json %s: %w", path, err)
	}
	return decodeJSON(doc, selector)
}

func decodeJSON(doc any, selector string) (*api.Bundle, error) {
	if selector == "" {
		selector = DefaultSelector
	}
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}

	b := &api.Bundle{}
	if top, ok := doc.(map[string]any); ok {
		if b.Version, err = stringField(top, "version"); err != nil {
			return nil, err
		}
		if b.Root, err = stringField(top, "root"); err != nil {
			return nil, err
		}
	}

	for i, match := range x.Get(doc) {
		obj, ok := match.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("selector %s: match %d is %T, want object", selector, i, match)
		}
		src, err := decodeSource(obj)
		if err != nil {
			return nil, fmt.Errorf("selector %s: match %d: %w", selector, i, err)
		}
		b.Sources = append(b.Sources, src)
	}
	return b, nil
}

func decodeSource(obj map[string]any) (api.Source, error) {
	var (
		src api.Source
		err error
	)
	fields := []struct {
		key string
		dst *string
	}{
		{"name", &src.Name},
		{"kind", &src.Kind},
		{"base_path", &src.BasePath},
		{"file_pattern", &src.FilePattern},
		{"exclude", &src.Exclude},
		{"search", &src.Search},
	}
	for _, f := range fields {
		if *f.dst, err = stringField(obj, f.key); err != nil {
			return api.Source{}, err
		}
	}
	if _, ok := obj["base_path"]; !ok {
		return api.Source{}, fmt.Errorf("base_path is required")
	}
	if src.Name == "" {
		src.Name = src.BasePath
	}
	return src, nil
}

func stringField(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %s is %T, want string", key, v)
	}
	return s, nil
}

// Compiled is a source ready to run.
type Compiled struct {
	Name    string
	Kind    bundle.Kind
	Source  *source.PerFileSource
	Factory bundle.Factory
}

// Compile validates src and builds its discovery rule. logger may be nil.
func Compile(src api.Source, logger *log.Logger) (*Compiled, error) {
	kind, err := bundle.ParseKind(src.Kind)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", src.Name, err)
	}
	search, err := ParseSearchOption(src.Search)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", src.Name, err)
	}

	opts := []source.Option{
		source.WithSearchOption(search),
		source.WithFilePattern(src.FilePattern),
	}
	if src.Exclude != "" {
		re, err := regexp.Compile(src.Exclude)
		if err != nil {
			return nil, fmt.Errorf("source %s: compile exclude: %w", src.Name, err)
		}
		opts = append(opts, source.WithExclude(re))
	}
	if logger != nil {
		opts = append(opts, source.WithLogger(logger.With("source", src.Name)))
	}

	return &Compiled{
		Name:    src.Name,
		Kind:    kind,
		Source:  source.NewPerFileSource(src.BasePath, opts...),
		Factory: bundle.NewFactory(kind),
	}, nil
}

// CompileAll compiles every source of b in order.
func CompileAll(b *api.Bundle, logger *log.Logger) ([]*Compiled, error) {
	compiled := make([]*Compiled, 0, len(b.Sources))
	for _, src := range b.Sources {
		c, err := Compile(src, logger)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, c)
	}
	return compiled, nil
}

// ParseSearchOption maps "all" (or "") and "top" to a vfs.SearchOption.
func ParseSearchOption(s string) (vfs.SearchOption, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return vfs.AllDirectories, nil
	case "top":
		return vfs.TopDirectoryOnly, nil
	default:
		return 0, fmt.Errorf("unknown search option %q (want all or top)", s)
	}
}

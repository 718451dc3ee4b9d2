// Package app ties a root directory to a bundle configuration and runs
// discovery for every configured source.
package app

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/agentic-research/cassette/api"
	"github.com/agentic-research/cassette/internal/bundle"
	"github.com/agentic-research/cassette/internal/config"
	"github.com/agentic-research/cassette/internal/vfs"
)

// Application owns the root directory that "~" refers to.
type Application struct {
	root   vfs.Directory
	logger *log.Logger
}

// New creates an Application. logger may be nil.
func New(root vfs.Directory, logger *log.Logger) *Application {
	return &Application{root: root, logger: logger}
}

// Load reads the configuration at configPath and opens its root directory on
// disk. A non-empty root overrides the configured one.
func Load(configPath, root, selector string, logger *log.Logger) (*Application, *api.Bundle, error) {
	b, err := config.Load(configPath, selector)
	if err != nil {
		return nil, nil, err
	}
	if root != "" {
		b.Root = root
	}
	info, err := os.Stat(b.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("root %s is not a directory", b.Root)
	}
	if logger != nil {
		logger.Debug("loaded config", "path", configPath, "root", b.Root, "sources", len(b.Sources))
	}
	return New(vfs.NewOSDirectory(b.Root), logger), b, nil
}

// RootDirectory implements source.Application.
func (a *Application) RootDirectory() vfs.Directory {
	return a.root
}

// Discovered is one module together with the source that produced it.
type Discovered struct {
	Source string
	Kind   bundle.Kind
	Module *bundle.Module
}

// Discover runs every source of b in configuration order. Any failure aborts
// the whole run.
func (a *Application) Discover(b *api.Bundle) ([]Discovered, error) {
	compiled, err := config.CompileAll(b, a.logger)
	if err != nil {
		return nil, err
	}

	var out []Discovered
	for _, c := range compiled {
		modules, err := c.Source.GetModules(c.Factory, a)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", c.Name, err)
		}
		if a.logger != nil {
			a.logger.Info("source discovered", "source", c.Name, "base", c.Source.BasePath(), "modules", len(modules))
		}
		for _, m := range modules {
			out = append(out, Discovered{Source: c.Name, Kind: c.Kind, Module: m})
		}
	}
	return out, nil
}

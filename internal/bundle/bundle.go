// Package bundle holds the content units produced by discovery: modules and
// the assets attached to them.
package bundle

import (
	"fmt"

	"github.com/agentic-research/cassette/internal/vfs"
)

// Kind classifies what a module's assets contain.
type Kind string

const (
	KindGeneric      Kind = "generic"
	KindScript       Kind = "script"
	KindStylesheet   Kind = "stylesheet"
	KindHTMLTemplate Kind = "htmltemplate"
)

// ParseKind maps a configuration value onto a Kind. The empty string is
// KindGeneric.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case "":
		return KindGeneric, nil
	case KindGeneric, KindScript, KindStylesheet, KindHTMLTemplate:
		return k, nil
	default:
		return "", fmt.Errorf("unknown module kind %q", s)
	}
}

// Module is a named group of assets.
type Module struct {
	path   string
	kind   Kind
	assets []*Asset
	final  bool
}

// NewModule creates an empty module.
func NewModule(path string, kind Kind) *Module {
	return &Module{path: path, kind: kind}
}

func (m *Module) Path() string { return m.path }
func (m *Module) Kind() Kind   { return m.kind }

// Assets returns the module's assets in order.
func (m *Module) Assets() []*Asset {
	return m.assets
}

// SetAssets replaces the module's assets. The list is taken to be complete
// and already in final order.
func (m *Module) SetAssets(assets []*Asset) {
	m.assets = append([]*Asset(nil), assets...)
	m.final = true
}

// Final reports whether the asset list was supplied through SetAssets.
func (m *Module) Final() bool {
	return m.final
}

func (m *Module) String() string {
	return fmt.Sprintf("%s(%s, %d assets)", m.kind, m.path, len(m.assets))
}

// Asset pairs a virtual path with the file backing it.
type Asset struct {
	path   string
	module *Module
	file   vfs.File
}

// NewAsset creates an asset owned by module. The file handle is referenced,
// not owned.
func NewAsset(path string, module *Module, file vfs.File) *Asset {
	return &Asset{path: path, module: module, file: file}
}

func (a *Asset) Path() string    { return a.path }
func (a *Asset) Module() *Module { return a.module }
func (a *Asset) File() vfs.File  { return a.file }

// Factory creates empty modules.
type Factory interface {
	CreateModule(path string) *Module
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(path string) *Module

func (f FactoryFunc) CreateModule(path string) *Module { return f(path) }

// NewFactory returns a Factory producing modules of the given kind.
func NewFactory(kind Kind) Factory {
	return FactoryFunc(func(path string) *Module {
		return NewModule(path, kind)
	})
}

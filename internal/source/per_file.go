// Package source discovers modules in an application's asset directory.
package source

import (
	"iter"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/agentic-research/cassette/internal/bundle"
	"github.com/agentic-research/cassette/internal/vfs"
	"github.com/agentic-research/cassette/internal/vpath"
)

// Application supplies the root directory that base paths resolve against.
type Application interface {
	RootDirectory() vfs.Directory
}

// ModuleSource produces modules for the bundling pipeline.
type ModuleSource interface {
	Modules(factory bundle.Factory, app Application) iter.Seq2[*bundle.Module, error]
}

// PerFileSource creates one module per file found under a base path.
// It is immutable once constructed.
type PerFileSource struct {
	basePath    string
	filePattern string
	exclude     *regexp.Regexp
	search      vfs.SearchOption
	logger      *log.Logger
}

// Option configures a PerFileSource at construction.
type Option func(*PerFileSource)

// WithFilePattern restricts discovery to files matching any of the globs in
// pattern, separated by ';' or ','.
func WithFilePattern(pattern string) Option {
	return func(s *PerFileSource) { s.filePattern = pattern }
}

// WithExclude drops every file whose relative path contains a match for re.
func WithExclude(re *regexp.Regexp) Option {
	return func(s *PerFileSource) { s.exclude = re }
}

// WithSearchOption sets the recursion mode. The default is vfs.AllDirectories.
func WithSearchOption(o vfs.SearchOption) Option {
	return func(s *PerFileSource) { s.search = o }
}

// WithLogger logs each discovered module at debug level.
func WithLogger(l *log.Logger) Option {
	return func(s *PerFileSource) { s.logger = l }
}

// NewPerFileSource creates a source rooted at basePath, which may be
// "~"-relative, absolute, or bare relative (see vpath.Normalize).
func NewPerFileSource(basePath string, opts ...Option) *PerFileSource {
	s := &PerFileSource{
		basePath: vpath.Normalize(basePath),
		search:   vfs.AllDirectories,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PerFileSource) BasePath() string               { return s.basePath }
func (s *PerFileSource) FilePattern() string            { return s.filePattern }
func (s *PerFileSource) Exclude() *regexp.Regexp        { return s.exclude }
func (s *PerFileSource) SearchOption() vfs.SearchOption { return s.search }

// Modules returns the discovered modules as a lazy sequence. Each traversal
// queries the filesystem afresh. Enumeration completes before the first
// module is yielded; a failure is yielded once and ends the sequence.
// Filesystem errors are passed through unchanged.
func (s *PerFileSource) Modules(factory bundle.Factory, app Application) iter.Seq2[*bundle.Module, error] {
	return func(yield func(*bundle.Module, error) bool) {
		dir, err := s.directory(app)
		if err != nil {
			yield(nil, err)
			return
		}

		filenames, err := s.filenames(dir)
		if err != nil {
			yield(nil, err)
			return
		}

		for _, filename := range filenames {
			m, err := s.createModule(filename, factory, dir)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(m, nil) {
				return
			}
		}
	}
}

// GetModules collects Modules into a slice. No partial result is returned
// on failure.
func (s *PerFileSource) GetModules(factory bundle.Factory, app Application) ([]*bundle.Module, error) {
	var modules []*bundle.Module
	for m, err := range s.Modules(factory, app) {
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}

func (s *PerFileSource) directory(app Application) (vfs.Directory, error) {
	root := app.RootDirectory()
	if vpath.IsRoot(s.basePath) {
		return root, nil
	}
	return root.GetDirectory(vpath.Relative(s.basePath), false)
}

// filenames lists candidate paths relative to dir. Patterns are queried
// independently, so a file matching two patterns is listed twice.
func (s *PerFileSource) filenames(dir vfs.Directory) ([]string, error) {
	var filenames []string
	if s.filePattern == "" {
		paths, err := dir.GetFilePaths("", s.search, "*")
		if err != nil {
			return nil, err
		}
		filenames = paths
	} else {
		for _, pattern := range splitPatterns(s.filePattern) {
			paths, err := dir.GetFilePaths("", s.search, pattern)
			if err != nil {
				return nil, err
			}
			filenames = append(filenames, paths...)
		}
	}

	if s.exclude == nil {
		return filenames, nil
	}
	kept := make([]string, 0, len(filenames))
	for _, f := range filenames {
		if !s.exclude.MatchString(f) {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

func (s *PerFileSource) createModule(filename string, factory bundle.Factory, dir vfs.Directory) (*bundle.Module, error) {
	file, err := dir.GetFile(filename)
	if err != nil {
		return nil, err
	}

	module := factory.CreateModule(vpath.Combine(s.basePath, vpath.StripExtension(filename)))
	asset := bundle.NewAsset(vpath.Combine(s.basePath, filename), module, file)
	module.SetAssets([]*bundle.Asset{asset})

	if s.logger != nil {
		s.logger.Debug("discovered module", "module", module.Path(), "asset", asset.Path())
	}
	return module, nil
}

// splitPatterns splits on ';' and ','. Blank entries are skipped.
func splitPatterns(list string) []string {
	parts := strings.FieldsFunc(list, func(r rune) bool { return r == ';' || r == ',' })
	patterns := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

var _ ModuleSource = (*PerFileSource)(nil)

package api

// Bundle is the root configuration: where the asset directory lives and
// which sources discover modules inside it.
type Bundle struct {
	// Version of the configuration format.
	Version string `json:"version,omitempty" hcl:"version,optional"`
	// Root is the physical directory mapped to the virtual root "~".
	// Relative roots resolve against the configuration file's directory.
	Root string `json:"root,omitempty" hcl:"root,optional"`
	// Sources are evaluated in order.
	Sources []Source `json:"sources,omitempty" hcl:"source,block"`
}

// Source declares one per-file discovery rule.
type Source struct {
	// Name identifies the source in logs and manifests.
	Name string `json:"name" hcl:"name,label"`
	// Kind of module produced: script, stylesheet, htmltemplate or generic.
	Kind string `json:"kind,omitempty" hcl:"kind,optional"`
	// BasePath is "~"-relative, absolute (collapses to "~") or bare relative.
	BasePath string `json:"base_path" hcl:"base_path"`
	// FilePattern is a ';' or ',' separated list of globs. Empty matches all files.
	FilePattern string `json:"file_pattern,omitempty" hcl:"file_pattern,optional"`
	// Exclude is a regular expression; matching relative paths are dropped.
	Exclude string `json:"exclude,omitempty" hcl:"exclude,optional"`
	// Search is "all" (default) to descend into sub-directories or "top".
	Search string `json:"search,omitempty" hcl:"search,optional"`
}

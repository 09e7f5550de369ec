package loader

import (
	"go/ast"
	"go/token"
	"sort"

	"golang.org/x/tools/go/packages"
)

// ParseFlag determines what to parse
type ParseFlag int

const (
	// ParseNone parse nothing
	ParseNone ParseFlag = 0x00
	// ParseModels parse models
	ParseModels ParseFlag = 0x01
	// ParseOperations parse services and their endpoints
	ParseOperations ParseFlag = 0x02
	// ParseAll parse operations and models
	ParseAll = ParseOperations | ParseModels
)

// Has reports whether every bit of other is set.
func (f ParseFlag) Has(other ParseFlag) bool {
	return f&other == other
}

// Service finds the Go sources the endpoint compiler reads: the search
// directories, and optionally the packages they import.
type Service struct {
	vendor       bool
	internal     bool
	excludes     map[string]struct{}
	prefixes     []string
	extension    string
	goPackages   bool
	dependencies ParseFlag
	debug        Debugger
}

// Debugger receives loader diagnostics.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// Option configures a Service.
type Option func(*Service)

// NewService returns a loader reading ".go" files of the search
// directories only.
func NewService(options ...Option) *Service {
	s := &Service{
		excludes:  make(map[string]struct{}),
		extension: ".go",
		debug:     discard{},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// WithParseVendor walks vendor directories too.
func WithParseVendor(parse bool) Option {
	return func(s *Service) { s.vendor = parse }
}

// WithParseInternal follows internal packages when loading dependencies.
func WithParseInternal(parse bool) Option {
	return func(s *Service) { s.internal = parse }
}

// WithExcludes skips the given absolute, cleaned directories.
func WithExcludes(excludes map[string]struct{}) Option {
	return func(s *Service) {
		if excludes != nil {
			s.excludes = excludes
		}
	}
}

// WithPackagePrefix keeps only packages under one of the import path prefixes.
func WithPackagePrefix(prefixes []string) Option {
	return func(s *Service) { s.prefixes = prefixes }
}

// WithParseExtension reads files with ext instead of ".go".
func WithParseExtension(ext string) Option {
	return func(s *Service) {
		if ext != "" {
			s.extension = ext
		}
	}
}

// WithGoPackages loads through go/packages instead of walking directories.
func WithGoPackages(use bool) Option {
	return func(s *Service) { s.goPackages = use }
}

// WithParseDependency sets what is read from imported packages. ParseNone
// leaves them alone.
func WithParseDependency(flag ParseFlag) Option {
	return func(s *Service) { s.dependencies = flag }
}

// WithDebugger routes diagnostics to debugger.
func WithDebugger(debugger Debugger) Option {
	return func(s *Service) {
		if debugger != nil {
			s.debug = debugger
		}
	}
}

// LoadResult contains the results of loading packages
type LoadResult struct {
	Files    map[*ast.File]*AstFileInfo
	Packages []*packages.Package
}

func newLoadResult() *LoadResult {
	return &LoadResult{Files: make(map[*ast.File]*AstFileInfo)}
}

// Merge adds the files of other that are not loaded yet, keyed by path.
func (r *LoadResult) Merge(other *LoadResult) {
	if other == nil {
		return
	}
	seen := make(map[string]struct{}, len(r.Files))
	for _, info := range r.Files {
		seen[info.Path] = struct{}{}
	}
	for file, info := range other.Files {
		if _, ok := seen[info.Path]; ok {
			continue
		}
		r.Files[file] = info
	}
	r.Packages = append(r.Packages, other.Packages...)
}

// Sorted returns the loaded files ordered by path, so that every consumer
// sees the same declaration order.
func (r *LoadResult) Sorted() []*AstFileInfo {
	files := make([]*AstFileInfo, 0, len(r.Files))
	for _, info := range r.Files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files
}

// AstFileInfo contains information about a parsed AST file
type AstFileInfo struct {
	File        *ast.File
	Path        string
	PackagePath string
	ParseFlag   ParseFlag
	FileSet     *token.FileSet
}

type discard struct{}

func (discard) Printf(string, ...interface{}) {}

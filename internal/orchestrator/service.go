// Package orchestrator coordinates loading, descriptor extraction and endpoint
// compilation for one generation run.
package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-openapi/spec"

	"github.com/griffnb/core-endpoints/internal/document"
	"github.com/griffnb/core-endpoints/internal/loader"
	"github.com/griffnb/core-endpoints/internal/parser/base"
	"github.com/griffnb/core-endpoints/internal/parser/field"
	"github.com/griffnb/core-endpoints/internal/provider"
	"github.com/griffnb/core-endpoints/internal/render/client"
	"github.com/griffnb/core-endpoints/internal/render/openapi"
	"github.com/griffnb/core-endpoints/internal/render/server"
)

// Service coordinates all services of a generation run.
type Service struct {
	loader     *loader.Service
	baseParser *base.Service
	server     *server.Gin
	operations *openapi.Builder
	clients    []client.Renderer
	doc        *document.Document
	config     *Config
}

// Config holds orchestrator configuration options.
type Config struct {
	ParseVendor        bool
	ParseInternal      bool
	ParseDependency    loader.ParseFlag
	PropNamingStrategy string
	Strict             bool
	MarkdownFileDir    string
	Excludes           map[string]struct{}
	PackagePrefix      []string
	ParseExtension     string
	ParseGoPackages    bool
	// Info overrides the general API information found in the sources.
	Info document.Info
	// Clients are the client targets to render.
	Clients []string
	Debug   Debugger
}

// Debugger is the interface for debug logging.
type Debugger interface {
	Printf(format string, v ...interface{})
}

type noOpDebugger struct{}

func (noOpDebugger) Printf(string, ...interface{}) {}

// New creates a new orchestrator service with the given configuration.
func New(config *Config) (*Service, error) {
	if config == nil {
		config = &Config{}
	}

	if config.PropNamingStrategy == "" {
		config.PropNamingStrategy = field.CamelCase
	}
	if config.Excludes == nil {
		config.Excludes = make(map[string]struct{})
	}
	if config.PackagePrefix == nil {
		config.PackagePrefix = []string{}
	}
	if config.ParseExtension == "" {
		config.ParseExtension = ".go"
	}
	if config.Debug == nil {
		config.Debug = noOpDebugger{}
	}

	clients := make([]client.Renderer, 0, len(config.Clients))
	seen := make(map[string]struct{})
	for _, target := range config.Clients {
		r, err := client.New(target)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[r.Target()]; dup {
			continue
		}
		seen[r.Target()] = struct{}{}
		clients = append(clients, r)
	}

	loaderService := loader.NewService(
		loader.WithParseVendor(config.ParseVendor),
		loader.WithParseInternal(config.ParseInternal),
		loader.WithParseDependency(config.ParseDependency),
		loader.WithExcludes(config.Excludes),
		loader.WithPackagePrefix(config.PackagePrefix),
		loader.WithParseExtension(config.ParseExtension),
		loader.WithGoPackages(config.ParseGoPackages),
		loader.WithDebugger(config.Debug),
	)

	baseParser := base.NewService()
	if config.MarkdownFileDir != "" {
		baseParser.SetMarkdownFileDir(config.MarkdownFileDir)
	}
	baseParser.SetDebugger(config.Debug)

	return &Service{
		loader:     loaderService,
		baseParser: baseParser,
		server:     server.NewGin(),
		operations: openapi.NewBuilder(),
		clients:    clients,
		doc:        document.New(config.Info),
		config:     config,
	}, nil
}

// Document returns the schema document of the run.
func (s *Service) Document() *document.Document {
	return s.doc
}

// Clients returns the client renderers of the run.
func (s *Service) Clients() []client.Renderer {
	return s.clients
}

// Parse loads the search directories and compiles every service method found
// in them. This is the main entry point that coordinates all services.
func (s *Service) Parse(searchDirs []string, mainAPIFile string, parseDepth int) (*Output, error) {
	debug := s.config.Debug
	debug.Printf("Orchestrator: Starting parse with %d search dirs", len(searchDirs))

	// Step 1: Load packages and files
	mainFilePath := resolveMainFile(searchDirs, mainAPIFile)
	absMain := ""
	if mainFilePath != "" {
		var err error
		if absMain, err = filepath.Abs(mainFilePath); err != nil {
			return nil, err
		}
	}
	loadResult, err := s.loader.Load(searchDirs, absMain, parseDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to load search directories: %w", err)
	}
	files := loadResult.Sorted()
	debug.Printf("Orchestrator: Loaded %d files", len(files))

	// Step 2: General API info from the main file
	s.doc.Reset()
	s.baseParser.Reset()
	if mainFilePath != "" {
		if _, statErr := os.Stat(mainFilePath); statErr == nil {
			if err := s.baseParser.ParseGeneralAPIInfo(mainFilePath); err != nil {
				return nil, fmt.Errorf("failed to parse general API info: %w", err)
			}
			s.baseParser.Info().Apply(s.doc)
		} else {
			debug.Printf("Orchestrator: main API file %s not found, using configured info", mainFilePath)
		}
	}
	s.doc.ApplyInfo(s.config.Info)

	// Step 3: Index services and models
	source := provider.NewSource(s.config.PropNamingStrategy, debug)
	if err := source.Index(files); err != nil {
		return nil, fmt.Errorf("failed to index sources: %w", err)
	}
	debug.Printf("Orchestrator: Indexed %d services and %d models", len(source.Services()), source.Store().Len())

	// Step 4: Extract descriptors (parallel)
	units, failures, err := s.extractParallel(source, files)
	if err != nil {
		return nil, err
	}

	// Step 5: Compile sequentially, in source order
	out, err := s.compile(units, source.Store())
	if err != nil {
		return nil, err
	}
	out.Failures = append(failures, out.Failures...)
	out.Store = source.Store()

	debug.Printf("Orchestrator: Parse complete, %d endpoints", out.Compiled)
	return out, nil
}

// CompileManifest compiles the descriptors of a manifest into one package.
func (s *Service) CompileManifest(m *provider.Manifest, dir, pkg string) (*Output, error) {
	s.doc.Reset()
	s.doc.ApplyInfo(s.config.Info)

	units := make([]unit, 0, len(m.Methods))
	for _, method := range m.Methods {
		units = append(units, unit{method: method, dir: dir, pkg: pkg})
	}
	store := m.Store()
	out, err := s.compile(units, store)
	if err != nil {
		return nil, err
	}
	out.Store = store
	return out, nil
}

// GetSwagger returns the swagger document of the last run.
func (s *Service) GetSwagger() *spec.Swagger {
	return s.doc.Swagger()
}

// resolveMainFile finds the main API file relative to the first search dir
// when it is given as a bare file name.
func resolveMainFile(searchDirs []string, mainAPIFile string) string {
	if mainAPIFile == "" || filepath.IsAbs(mainAPIFile) {
		return mainAPIFile
	}
	if filepath.Base(mainAPIFile) == mainAPIFile || filepath.Dir(mainAPIFile) == "." {
		if len(searchDirs) > 0 {
			return filepath.Join(searchDirs[0], mainAPIFile)
		}
	}
	return mainAPIFile
}

// strictFailure reports whether failures abort the run.
func (s *Service) strictFailure(failures []error) error {
	if !s.config.Strict || len(failures) == 0 {
		return nil
	}
	return fmt.Errorf("%d methods failed, first: %w", len(failures), failures[0])
}

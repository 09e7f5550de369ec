// Package gen writes the generated route handlers, client stubs and API
// documents of a run.
package gen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/go-openapi/spec"
	"sigs.k8s.io/yaml"

	"github.com/griffnb/core-endpoints/internal/console"
	"github.com/griffnb/core-endpoints/internal/document"
	"github.com/griffnb/core-endpoints/internal/loader"
	"github.com/griffnb/core-endpoints/internal/orchestrator"
	"github.com/griffnb/core-endpoints/internal/provider"
	"github.com/griffnb/core-endpoints/internal/render"
	"github.com/griffnb/core-endpoints/internal/render/client"
	"github.com/griffnb/core-endpoints/internal/render/server"
)

// Version of the generator.
const Version = "v0.3.0"

// RoutesFile is the generated server file written next to each service.
const RoutesFile = "routes_gen.go"

type genTypeWriter func(*Config, *spec.Swagger) error

// Gen presents a generate tool for endpoints.
type Gen struct {
	json          func(data interface{}) ([]byte, error)
	jsonIndent    func(data interface{}) ([]byte, error)
	jsonToYAML    func(data []byte) ([]byte, error)
	outputTypeMap map[string]genTypeWriter
	debug         Debugger
}

// Debugger is the interface that wraps the basic Printf method.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// New creates a new Gen.
func New() *Gen {
	gen := Gen{
		json: json.Marshal,
		jsonIndent: func(data interface{}) ([]byte, error) {
			return json.MarshalIndent(data, "", "    ")
		},
		jsonToYAML: yaml.JSONToYAML,
		debug:      console.Logger.Debugger(),
	}

	gen.outputTypeMap = map[string]genTypeWriter{
		"go":   gen.writeDocSwagger,
		"json": gen.writeJSONSwagger,
		"yaml": gen.writeYAMLSwagger,
		"yml":  gen.writeYAMLSwagger,
	}

	return &gen
}

// Config presents Gen configurations.
type Config struct {
	Debugger Debugger

	// SearchDir the sources would be parsed from, comma separated if multiple
	SearchDir string

	// excludes dirs and files in SearchDir, comma separated
	Excludes string

	// outputs only specific extension
	ParseExtension string

	// OutputDir represents the output directory of the documents and the
	// TypeScript client
	OutputDir string

	// OutputTypes define types of documents which should be generated
	OutputTypes []string

	// MainAPIFile the Go file path in which the general API info is written
	MainAPIFile string

	// PropNamingStrategy represents property naming strategy like snake case, camel case, pascal case
	PropNamingStrategy string

	// MarkdownFilesDir used to find markdown files, which can be used for tag descriptions
	MarkdownFilesDir string

	// ParseDepth dependency parse depth
	ParseDepth int

	// ParseVendor whether vendor folders are parsed
	ParseVendor bool

	// ParseDependency whether models of dependencies are parsed: 0 none, 1 models, 2 operations, 3 all
	ParseDependency int

	// ParseInternal whether internal packages of dependencies are parsed
	ParseInternal bool

	// Strict fails the run on the first method that cannot be compiled
	Strict bool

	// ParseGoPackages whether golang.org/x/tools/go/packages is used to load sources
	ParseGoPackages bool

	// Parse only packages whose import path match the given prefix, comma separated
	PackagePrefix string

	// PackageName of the generated docs.go, and of the generated code when
	// compiling a manifest
	PackageName string

	// Info overrides the general API info of the sources
	Info document.Info

	// Clients lists the client targets to generate
	Clients []string

	// ManifestFile, when set, is compiled instead of the sources
	ManifestFile string
}

// Build generates every output for the given configuration.
func (g *Gen) Build(config *Config) error {
	if config.Debugger != nil {
		g.debug = config.Debugger
	}

	orc, err := g.orchestrator(config)
	if err != nil {
		return err
	}

	console.Logger.Debug("Generate endpoints....")

	var out *orchestrator.Output
	if config.ManifestFile != "" {
		manifest, err := provider.LoadManifest(config.ManifestFile)
		if err != nil {
			return err
		}
		out, err = orc.CompileManifest(manifest, config.OutputDir, config.packageName())
		if err != nil {
			return err
		}
	} else {
		if out, err = g.parse(orc, config); err != nil {
			return err
		}
	}

	for _, failure := range out.Failures {
		console.Logger.Warn("skipped %v", failure)
	}
	console.Logger.Info("compiled %d endpoints, %d not generated, %d failed", out.Compiled, out.Skipped, len(out.Failures))

	if err := os.MkdirAll(config.OutputDir, os.ModePerm); err != nil {
		return err
	}

	swagger := orc.GetSwagger()
	if err := g.writeSources(config, orc.Clients(), out, swagger.Definitions); err != nil {
		return err
	}

	for _, outputType := range config.OutputTypes {
		outputType = strings.ToLower(strings.TrimSpace(outputType))
		if typeWriter, ok := g.outputTypeMap[outputType]; ok {
			if err := typeWriter(config, swagger); err != nil {
				return err
			}
		} else {
			console.Logger.Warn("output type '%s' not supported", outputType)
		}
	}

	return nil
}

// Descriptors parses the sources and writes their descriptor manifest to path.
func (g *Gen) Descriptors(config *Config, path string) error {
	if config.Debugger != nil {
		g.debug = config.Debugger
	}

	orc, err := g.orchestrator(config)
	if err != nil {
		return err
	}
	out, err := g.parse(orc, config)
	if err != nil {
		return err
	}
	for _, failure := range out.Failures {
		console.Logger.Warn("skipped %v", failure)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}
	if err := provider.WriteManifest(path, provider.NewManifest(out.Methods, out.Store)); err != nil {
		return err
	}
	console.Logger.Info("wrote %d descriptors to %s", len(out.Methods), path)
	return nil
}

func (g *Gen) orchestrator(config *Config) (*orchestrator.Service, error) {
	return orchestrator.New(&orchestrator.Config{
		ParseVendor:        config.ParseVendor,
		ParseInternal:      config.ParseInternal,
		ParseDependency:    loader.ParseFlag(config.ParseDependency),
		PropNamingStrategy: config.PropNamingStrategy,
		Strict:             config.Strict,
		MarkdownFileDir:    config.MarkdownFilesDir,
		Excludes:           parseExcludes(config.Excludes),
		PackagePrefix:      parsePackagePrefix(config.PackagePrefix),
		ParseExtension:     config.ParseExtension,
		ParseGoPackages:    config.ParseGoPackages,
		Info:               config.Info,
		Clients:            config.Clients,
		Debug:              g.debug,
	})
}

func (g *Gen) parse(orc *orchestrator.Service, config *Config) (*orchestrator.Output, error) {
	searchDirs := strings.Split(config.SearchDir, ",")
	if !config.ParseGoPackages { // packages.Load support pattern like ./...
		for _, searchDir := range searchDirs {
			if _, err := os.Stat(searchDir); os.IsNotExist(err) {
				return nil, fmt.Errorf("dir: %s does not exist", searchDir)
			}
		}
	}
	return orc.Parse(searchDirs, config.MainAPIFile, config.ParseDepth)
}

// writeSources writes the routes and Go clients next to each service
// package, and the TypeScript client into the output directory.
func (g *Gen) writeSources(config *Config, clients []client.Renderer, out *orchestrator.Output, defs spec.Definitions) error {
	for _, pkg := range out.Packages {
		src, err := server.File(pkg.Name, pkg.Routes)
		if err != nil {
			return fmt.Errorf("%s: %w", pkg.Dir, err)
		}
		if err := g.writeGenerated(filepath.Join(pkg.Dir, RoutesFile), src); err != nil {
			return err
		}
	}

	for _, r := range clients {
		if r.Target() == client.TargetGo {
			for _, pkg := range out.Packages {
				services := pkg.Clients[r.Target()]
				if len(services) == 0 {
					continue
				}
				src, err := r.File(pkg.Name, services, defs)
				if err != nil {
					return fmt.Errorf("%s: %w", pkg.Dir, err)
				}
				if err := g.writeGenerated(filepath.Join(pkg.Dir, r.FileName()), src); err != nil {
					return err
				}
			}
			continue
		}

		var services []client.ServiceMethods
		for _, pkg := range out.Packages {
			services = append(services, pkg.Clients[r.Target()]...)
		}
		if len(services) == 0 {
			continue
		}
		src, err := r.File(config.packageName(), services, defs)
		if err != nil {
			return err
		}
		if err := g.writeGenerated(filepath.Join(config.OutputDir, r.FileName()), src); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gen) writeGenerated(file string, src []byte) error {
	if err := g.writeFile(src, file); err != nil {
		return err
	}
	console.Logger.Debug("create %s", file)
	return nil
}

func (g *Gen) writeDocSwagger(config *Config, swagger *spec.Swagger) error {
	docFileName := filepath.Join(config.OutputDir, "docs.go")

	docs, err := g.goDoc(config.packageName(), swagger)
	if err != nil {
		return err
	}
	if err := g.writeFile(docs, docFileName); err != nil {
		return err
	}

	console.Logger.Debug("create docs.go at %+v", docFileName)

	return nil
}

func (g *Gen) writeJSONSwagger(config *Config, swagger *spec.Swagger) error {
	jsonFileName := filepath.Join(config.OutputDir, "swagger.json")

	b, err := g.jsonIndent(swagger)
	if err != nil {
		return err
	}

	err = g.writeFile(b, jsonFileName)
	if err != nil {
		return err
	}

	console.Logger.Debug("create swagger.json at %+v", jsonFileName)

	return nil
}

func (g *Gen) writeYAMLSwagger(config *Config, swagger *spec.Swagger) error {
	yamlFileName := filepath.Join(config.OutputDir, "swagger.yaml")

	b, err := g.json(swagger)
	if err != nil {
		return err
	}

	y, err := g.jsonToYAML(b)
	if err != nil {
		return fmt.Errorf("cannot covert json to yaml error: %s", err)
	}

	err = g.writeFile(y, yamlFileName)
	if err != nil {
		return err
	}

	console.Logger.Debug("create swagger.yaml at %+v", yamlFileName)

	return nil
}

func (g *Gen) writeFile(b []byte, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(b)
	return err
}

func (g *Gen) formatSource(src []byte) []byte {
	code, err := format.Source(src)
	if err != nil {
		code = src // Formatter failed, return original code.
	}
	return code
}

// goDoc renders docs.go, which embeds the JSON document.
func (g *Gen) goDoc(packageName string, swagger *spec.Swagger) ([]byte, error) {
	generator, err := template.New("swagger_info").Funcs(template.FuncMap{
		"printDoc": func(v string) string {
			// Sanitize backticks
			return strings.ReplaceAll(v, "`", "`+\"`\"+`")
		},
	}).Parse(packageTemplate)
	if err != nil {
		return nil, err
	}

	buf, err := g.jsonIndent(swagger)
	if err != nil {
		return nil, err
	}

	buffer := &bytes.Buffer{}
	err = generator.Execute(buffer, struct {
		Header      string
		Doc         string
		PackageName string
		BasePath    string
		Title       string
		Version     string
	}{
		Header:      render.GeneratedHeader,
		Doc:         string(buf),
		PackageName: packageName,
		BasePath:    swagger.BasePath,
		Title:       swagger.Info.Title,
		Version:     swagger.Info.Version,
	})
	if err != nil {
		return nil, err
	}

	return g.formatSource(buffer.Bytes()), nil
}

// packageName is the configured package name, else the output directory name.
func (c *Config) packageName() string {
	if c.PackageName != "" {
		return c.PackageName
	}
	abs, err := filepath.Abs(c.OutputDir)
	if err != nil {
		abs = c.OutputDir
	}
	return strings.ReplaceAll(filepath.Base(abs), "-", "_")
}

const packageTemplate = `// {{ .Header }}

// Package {{ .PackageName }} embeds the generated API document.
package {{ .PackageName }}

// SwaggerInfo holds the general information of the document.
var SwaggerInfo = struct {
	Title    string
	Version  string
	BasePath string
}{
	Title:    {{ printf "%q" .Title }},
	Version:  {{ printf "%q" .Version }},
	BasePath: {{ printf "%q" .BasePath }},
}

// SwaggerJSON is the OpenAPI 2.0 document.
const SwaggerJSON = ` + "`{{ printDoc .Doc }}`" + `
`

// parseExcludes converts comma-separated exclude string to a set of absolute
// paths, matching the paths seen while walking the search dirs.
func parseExcludes(excludes string) map[string]struct{} {
	result := make(map[string]struct{})
	if excludes == "" {
		return result
	}

	for _, exclude := range strings.Split(excludes, ",") {
		exclude = strings.TrimSpace(exclude)
		if exclude == "" {
			continue
		}
		if abs, err := filepath.Abs(exclude); err == nil {
			exclude = abs
		}
		result[filepath.Clean(exclude)] = struct{}{}
	}
	return result
}

// parsePackagePrefix converts comma-separated prefix string to slice.
func parsePackagePrefix(packagePrefix string) []string {
	if packagePrefix == "" {
		return []string{}
	}

	result := []string{}
	for _, prefix := range strings.Split(packagePrefix, ",") {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" {
			result = append(result, prefix)
		}
	}
	return result
}

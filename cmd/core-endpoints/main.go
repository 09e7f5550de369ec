package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/griffnb/core-endpoints/internal/console"
	"github.com/griffnb/core-endpoints/internal/document"
	"github.com/griffnb/core-endpoints/internal/gen"
	"github.com/griffnb/core-endpoints/internal/parser/field"
)

const (
	searchDirFlag            = "dir"
	excludeFlag              = "exclude"
	generalInfoFlag          = "generalInfo"
	propertyStrategyFlag     = "propertyStrategy"
	outputFlag               = "output"
	outputTypesFlag          = "outputTypes"
	parseVendorFlag          = "parseVendor"
	parseDependencyFlag      = "parseDependency"
	parseDependencyLevelFlag = "parseDependencyLevel"
	markdownFilesFlag        = "markdownFiles"
	parseInternalFlag        = "parseInternal"
	parseDepthFlag           = "parseDepth"
	quietFlag                = "quiet"
	parseExtensionFlag       = "parseExtension"
	packagePrefixFlag        = "packagePrefix"
	parseGoPackagesFlag      = "parseGoPackages"
	debugFlag                = "debug"
	basePathFlag             = "basePath"
	titleFlag                = "title"
	versionFlag              = "apiVersion"
	clientFlag               = "client"
	strictFlag               = "strict"
	manifestFlag             = "manifest"
	packageFlag              = "package"
	fileFlag                 = "file"
)

var sourceFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    quietFlag,
		Aliases: []string{"q"},
		Usage:   "Make the logger quiet.",
	},
	&cli.BoolFlag{
		Name:  debugFlag,
		Usage: "Enable debug mode, disabled by default",
	},
	&cli.StringFlag{
		Name:    generalInfoFlag,
		Aliases: []string{"g"},
		Value:   "main.go",
		Usage:   "Go file path in which the general API info is written",
	},
	&cli.StringFlag{
		Name:    searchDirFlag,
		Aliases: []string{"d"},
		Value:   "./",
		Usage:   "Directories you want to parse,comma separated and general-info file must be in the first one",
	},
	&cli.StringFlag{
		Name:  excludeFlag,
		Usage: "Exclude directories and files when searching, comma separated",
	},
	&cli.StringFlag{
		Name:    propertyStrategyFlag,
		Aliases: []string{"p"},
		Value:   field.CamelCase,
		Usage:   "Property Naming Strategy like " + field.SnakeCase + "," + field.CamelCase + "," + field.PascalCase,
	},
	&cli.BoolFlag{
		Name:  parseVendorFlag,
		Usage: "Parse go files in 'vendor' folder, disabled by default",
	},
	&cli.IntFlag{
		Name:    parseDependencyLevelFlag,
		Aliases: []string{"pdl"},
		Usage:   "Parse go files inside dependency folder, 0 disabled, 1 only parse models, 2 only parse operations, 3 parse all",
	},
	&cli.BoolFlag{
		Name:    parseDependencyFlag,
		Aliases: []string{"pd"},
		Usage:   "Parse go files inside dependency folder, disabled by default",
	},
	&cli.StringFlag{
		Name:    markdownFilesFlag,
		Aliases: []string{"md"},
		Value:   "",
		Usage:   "Parse folder containing markdown files to use as description, disabled by default",
	},
	&cli.BoolFlag{
		Name:  parseInternalFlag,
		Usage: "Parse go files in internal packages, disabled by default",
	},
	&cli.IntFlag{
		Name:  parseDepthFlag,
		Value: 100,
		Usage: "Dependency parse depth",
	},
	&cli.StringFlag{
		Name:  parseExtensionFlag,
		Value: "",
		Usage: "Parse only files with the given extension",
	},
	&cli.StringFlag{
		Name:  packagePrefixFlag,
		Value: "",
		Usage: "Parse only packages whose import path match the given prefix, comma separated",
	},
	&cli.BoolFlag{
		Name:  parseGoPackagesFlag,
		Usage: "Parse Go sources by golang.org/x/tools/go/packages, disabled by default",
	},
}

var initFlags = append([]cli.Flag{
	&cli.StringFlag{
		Name:    outputFlag,
		Aliases: []string{"o"},
		Value:   "./docs",
		Usage:   "Output directory for the documents and the TypeScript client",
	},
	&cli.StringFlag{
		Name:    outputTypesFlag,
		Aliases: []string{"ot"},
		Value:   "json,yaml",
		Usage:   "Output types of generated documents (docs.go, swagger.json, swagger.yaml) like go,json,yaml",
	},
	&cli.StringFlag{
		Name:  basePathFlag,
		Usage: "Base path of every route, overrides @basePath",
	},
	&cli.StringFlag{
		Name:  titleFlag,
		Usage: "API title, overrides @title",
	},
	&cli.StringFlag{
		Name:  versionFlag,
		Usage: "API version, overrides @version",
	},
	&cli.StringSliceFlag{
		Name:    clientFlag,
		Aliases: []string{"c"},
		Value:   cli.NewStringSlice("typescript"),
		Usage:   "Client stubs to generate (typescript, go), repeatable",
	},
	&cli.BoolFlag{
		Name:  strictFlag,
		Usage: "Fail on the first method that cannot be compiled",
	},
	&cli.StringFlag{
		Name:    manifestFlag,
		Aliases: []string{"m"},
		Usage:   "Compile a descriptor manifest (json or yaml) instead of Go sources",
	},
	&cli.StringFlag{
		Name:  packageFlag,
		Usage: "Package name of the generated docs.go and of the code compiled from a manifest, defaults to the output directory name",
	},
}, sourceFlags...)

var descriptorFlags = append([]cli.Flag{
	&cli.StringFlag{
		Name:    fileFlag,
		Aliases: []string{"f"},
		Value:   "descriptors.yaml",
		Usage:   "Manifest file to write, json unless the extension is .yaml or .yml",
	},
}, sourceFlags...)

func sourceConfig(ctx *cli.Context) (*gen.Config, error) {
	strategy := ctx.String(propertyStrategyFlag)

	switch strategy {
	case field.CamelCase, field.SnakeCase, field.PascalCase:
	default:
		return nil, fmt.Errorf("not supported %s propertyStrategy", strategy)
	}

	if ctx.IsSet(debugFlag) {
		console.Logger.DebugLevel = 1
	}
	var logger gen.Debugger = console.Logger.Debugger()
	if ctx.Bool(quietFlag) {
		console.Logger.SetOutput(io.Discard)
		logger = log.New(io.Discard, "", log.LstdFlags)
	}

	pdv := ctx.Int(parseDependencyLevelFlag)
	if pdv == 0 {
		if ctx.Bool(parseDependencyFlag) {
			pdv = 1
		}
	}
	return &gen.Config{
		Debugger:           logger,
		SearchDir:          ctx.String(searchDirFlag),
		Excludes:           ctx.String(excludeFlag),
		ParseExtension:     ctx.String(parseExtensionFlag),
		MainAPIFile:        ctx.String(generalInfoFlag),
		PropNamingStrategy: strategy,
		ParseVendor:        ctx.Bool(parseVendorFlag),
		ParseDependency:    pdv,
		MarkdownFilesDir:   ctx.String(markdownFilesFlag),
		ParseInternal:      ctx.Bool(parseInternalFlag),
		ParseDepth:         ctx.Int(parseDepthFlag),
		PackagePrefix:      ctx.String(packagePrefixFlag),
		ParseGoPackages:    ctx.Bool(parseGoPackagesFlag),
	}, nil
}

func initAction(ctx *cli.Context) error {
	config, err := sourceConfig(ctx)
	if err != nil {
		return err
	}

	outputTypes := strings.Split(ctx.String(outputTypesFlag), ",")
	if len(outputTypes) == 0 {
		return fmt.Errorf("no output types specified")
	}

	config.OutputDir = ctx.String(outputFlag)
	config.OutputTypes = outputTypes
	config.Clients = ctx.StringSlice(clientFlag)
	config.Strict = ctx.Bool(strictFlag)
	config.ManifestFile = ctx.String(manifestFlag)
	config.PackageName = ctx.String(packageFlag)
	config.Info = document.Info{
		BasePath: ctx.String(basePathFlag),
		Title:    ctx.String(titleFlag),
		Version:  ctx.String(versionFlag),
	}
	return gen.New().Build(config)
}

func descriptorsAction(ctx *cli.Context) error {
	config, err := sourceConfig(ctx)
	if err != nil {
		return err
	}
	return gen.New().Descriptors(config, ctx.String(fileFlag))
}

func main() {
	app := cli.NewApp()
	app.Version = gen.Version
	app.Usage = "Generate gin routes, typed clients and Swagger 2.0 documents from annotated Go services."
	app.Commands = []*cli.Command{
		{
			Name:    "init",
			Aliases: []string{"i"},
			Usage:   "Generate routes, clients and documents",
			Action:  initAction,
			Flags:   initFlags,
		},
		{
			Name:    "descriptors",
			Aliases: []string{"d"},
			Usage:   "Write the method descriptors of the sources to a manifest",
			Action:  descriptorsAction,
			Flags:   descriptorFlags,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

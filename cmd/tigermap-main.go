package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/httpextra"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/goutil/userextra"
	"github.com/jamesrr39/tigermap/presets"
	"github.com/jamesrr39/tigermap/tigermapdal"
	"github.com/jamesrr39/tigermap/tigermapexport"
	"github.com/jamesrr39/tigermap/tigermapjob"
	"github.com/jamesrr39/tigermap/webservices"
	"github.com/pkg/profile"
	"gopkg.in/alecthomas/kingpin.v2"
)

const DEFAULT_PORT = 9000

var (
	logger    *logpkg.Logger
	pathsRoot = kingpin.Flag("paths-root", "root directory for shapefiles, presets and output").
			Default("~/.local/share/github.com/jamesrr39/tigermap/").String()
)

func main() {
	verbose := kingpin.Flag("v", "verbose logging").Bool()

	logLevel := logpkg.LogLevelInfo
	if *verbose {
		logLevel = logpkg.LogLevelDebug
	}
	logger = logpkg.NewLogger(os.Stderr, logLevel)

	setupRender()
	setupPreview()
	setupListPresets()

	kingpin.Parse()
}

func ensureDefaultPathsConfig() (*tigermapdal.PathsConfig, errorsx.Error) {
	rootDir, err := userextra.ExpandUser(*pathsRoot)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	pathsConfig := &tigermapdal.PathsConfig{
		ShapefilesDir: filepath.Join(rootDir, "shapefiles"),
		POIDir:        filepath.Join(rootDir, "poi"),
		PresetsDir:    filepath.Join(rootDir, "presets"),
		OutputDir:     filepath.Join(rootDir, "output"),
		TraceDir:      filepath.Join(rootDir, "trace"),
	}

	err = pathsConfig.EnsurePaths()
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return pathsConfig, nil
}

func createTracer(pathsConfig *tigermapdal.PathsConfig) (*tracing.Tracer, errorsx.Error) {
	traceFilePath := filepath.Join(pathsConfig.TraceDir, fmt.Sprintf("trace_%s.pbf", time.Now().Format("2006-01-02__03_04_05")))
	logger.Info("tracing at %q", traceFilePath)

	traceFile, err := os.Create(traceFilePath)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return tracing.NewTracer(traceFile), nil
}

func loadPresets(fs gofs.Fs, pathsConfig *tigermapdal.PathsConfig) (map[string]*presets.Preset, errorsx.Error) {
	return presets.LoadDir(fs, pathsConfig.PresetsDir)
}

func setupRender() {
	cmd := kingpin.Command("render", "render one preset and export the artifacts")
	presetName := cmd.Arg("preset", "name of the preset to render").Default("socal").String()
	title := cmd.Flag("title", "override the preset's map title").String()
	outName := cmd.Flag("out-name", "artifact file name, without extension. Defaults to the preset name").String()
	formatsStr := cmd.Flag("formats", "comma separated list of output formats (png, pdf, svg), overriding the preset").String()
	poiCSVPath := cmd.Flag("poi-csv", "CSV file with name,latitude,longitude columns to use as the POI source").String()
	poiPostgres := cmd.Flag("poi-postgres", "postgresql connection string to load POIs from").String()
	poiTable := cmd.Flag("poi-table", "table name for the postgresql POI source").Default("pois").String()
	shouldProfile := cmd.Flag("profile", "write a CPU profile of the run").Bool()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		run := func() errorsx.Error {
			if *shouldProfile {
				defer profile.Start(profile.CPUProfile).Stop()
			}

			fs := gofs.NewOsFs()

			pathsConfig, err := ensureDefaultPathsConfig()
			if err != nil {
				return err
			}

			presetsByName, err := loadPresets(fs, pathsConfig)
			if err != nil {
				return err
			}

			preset, ok := presetsByName[*presetName]
			if !ok {
				return errorsx.Errorf("unknown preset %q", *presetName)
			}

			tracer, err := createTracer(pathsConfig)
			if err != nil {
				return err
			}

			options := tigermapjob.Options{
				BaseName:   *outName,
				Title:      *title,
				POICSVPath: *poiCSVPath,
			}
			if *poiPostgres != "" {
				options.POIPostgres = &tigermapjob.PostgresPOISource{
					ConnString: *poiPostgres,
					TableName:  *poiTable,
				}
			}

			options.Formats, err = parseFormatsFlag(*formatsStr)
			if err != nil {
				return err
			}

			job := tigermapjob.NewJob(logger, fs, pathsConfig, tracer, preset, options)

			artifacts, err := job.Run(context.Background())
			if err != nil {
				return err
			}

			for _, artifact := range artifacts {
				logger.Info("%s: %.2f MB", artifact.Path, artifact.SizeMB)
			}

			return nil
		}

		err := run()
		if err != nil {
			return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
		}
		return nil
	})
}

var addrHelp = fmt.Sprintf(
	`address to serve on. Ex: ':%d' listen on port %d to traffic from anywhere. 'localhost:%d' listen on port %d to traffic from localhost`,
	DEFAULT_PORT, DEFAULT_PORT, DEFAULT_PORT, DEFAULT_PORT,
)

func setupPreview() {
	cmd := kingpin.Command("preview", "serve the exported artifacts over HTTP")
	addr := cmd.Flag("addr", addrHelp).Default(fmt.Sprintf("localhost:%d", DEFAULT_PORT)).String()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		run := func() errorsx.Error {
			fs := gofs.NewOsFs()

			pathsConfig, err := ensureDefaultPathsConfig()
			if err != nil {
				return err
			}

			presetsByName, err := loadPresets(fs, pathsConfig)
			if err != nil {
				return err
			}

			tracer, err := createTracer(pathsConfig)
			if err != nil {
				return err
			}

			renderPreset := func(preset *presets.Preset) ([]*tigermapexport.ArtifactInfo, errorsx.Error) {
				job := tigermapjob.NewJob(logger, fs, pathsConfig, tracer, preset, tigermapjob.Options{})
				return job.Run(context.Background())
			}

			router := chi.NewRouter()
			router.Use(middleware.DefaultLogger)
			router.Route("/api/", func(r chi.Router) {
				r.Mount("/artifacts/", webservices.NewArtifactsService(logger, fs, pathsConfig.OutputDir, presetsByName, renderPreset))
			})

			server := httpextra.NewServerWithTimeouts()
			server.Addr = *addr
			server.Handler = router

			logger.Info("about to start serving on %q", *addr)

			listenErr := server.ListenAndServe()
			if listenErr != nil {
				return errorsx.Wrap(listenErr)
			}
			return nil
		}

		err := run()
		if err != nil {
			return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
		}
		return nil
	})
}

func setupListPresets() {
	cmd := kingpin.Command("presets", "list the available presets")
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		run := func() errorsx.Error {
			fs := gofs.NewOsFs()

			pathsConfig, err := ensureDefaultPathsConfig()
			if err != nil {
				return err
			}

			presetsByName, err := loadPresets(fs, pathsConfig)
			if err != nil {
				return err
			}

			var names []string
			for name := range presetsByName {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				preset := presetsByName[name]
				fmt.Printf("%s\t%q\t%.0fx%.0fin @ %d DPI\n", name, preset.Title, preset.WidthInches, preset.HeightInches, preset.DPI)
			}

			return nil
		}

		err := run()
		if err != nil {
			return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
		}
		return nil
	})
}

func parseFormatsFlag(formatsStr string) ([]tigermapexport.Format, errorsx.Error) {
	var formats []tigermapexport.Format
	for _, name := range strings.Split(formatsStr, ",") {
		if name == "" {
			continue
		}

		format, err := tigermapexport.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		formats = append(formats, format)
	}
	return formats, nil
}

package webservices

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/semaphore"
	"github.com/jamesrr39/tigermap/presets"
	"github.com/jamesrr39/tigermap/tigermapexport"
)

// RenderPresetFunc runs one preset end to end and returns the written
// artifacts. The command wires this to a pipeline job run.
type RenderPresetFunc func(preset *presets.Preset) ([]*tigermapexport.ArtifactInfo, errorsx.Error)

// ArtifactsService lists previously exported map files, serves them, and
// triggers new renders. Renders are heavyweight (a country-scale canvas
// can take minutes), so concurrent render requests are capped.
type ArtifactsService struct {
	logger        *logpkg.Logger
	fs            gofs.Fs
	outputDir     string
	presetsByName map[string]*presets.Preset
	renderPreset  RenderPresetFunc
	sema          *semaphore.Semaphore
	chi.Router
}

func NewArtifactsService(logger *logpkg.Logger, fs gofs.Fs, outputDir string, presetsByName map[string]*presets.Preset, renderPreset RenderPresetFunc) *ArtifactsService {
	ws := &ArtifactsService{logger, fs, outputDir, presetsByName, renderPreset, semaphore.NewSemaphore(1), chi.NewRouter()}

	ws.Get("/", ws.handleGetArtifacts)
	ws.Get("/presets", ws.handleGetPresets)
	ws.Get("/files/{fileName}", ws.handleGetFile)
	ws.Post("/render/{presetName}", ws.handlePostRender)

	return ws
}

type artifactsResponseType struct {
	Artifacts []*tigermapexport.ArtifactInfo `json:"artifacts"`
}

func (ws *ArtifactsService) handleGetArtifacts(w http.ResponseWriter, r *http.Request) {
	artifacts := []*tigermapexport.ArtifactInfo{}

	entries, err := ws.fs.ReadDir(ws.outputDir)
	if err != nil && !os.IsNotExist(err) {
		errorsx.HTTPError(w, ws.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		format, parseErr := tigermapexport.ParseFormat(filepath.Ext(entry.Name()))
		if parseErr != nil {
			continue
		}

		artifacts = append(artifacts, &tigermapexport.ArtifactInfo{
			Path:      filepath.Join(ws.outputDir, entry.Name()),
			Name:      entry.Name(),
			Format:    format,
			SizeBytes: entry.Size(),
			SizeMB:    tigermapexport.SizeMBOf(entry.Size()),
		})
	}

	render.JSON(w, r, artifactsResponseType{artifacts})
}

type presetInfoType struct {
	Name    string                  `json:"name"`
	Title   string                  `json:"title"`
	Formats []tigermapexport.Format `json:"formats"`
}

func (ws *ArtifactsService) handleGetPresets(w http.ResponseWriter, r *http.Request) {
	infos := []presetInfoType{}
	for _, preset := range ws.presetsByName {
		infos = append(infos, presetInfoType{preset.Name, preset.Title, preset.Formats})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})

	render.JSON(w, r, infos)
}

func (ws *ArtifactsService) handleGetFile(w http.ResponseWriter, r *http.Request) {
	fileName := chi.URLParam(r, "fileName")

	// the file name is user input; never let it escape the output dir
	if fileName != filepath.Base(fileName) || strings.HasPrefix(fileName, ".") {
		errorsx.HTTPError(w, ws.logger, errorsx.Errorf("bad file name %q", fileName), http.StatusBadRequest)
		return
	}

	filePath := filepath.Join(ws.outputDir, fileName)

	file, err := ws.fs.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			errorsx.HTTPError(w, ws.logger, errorsx.Wrap(err), http.StatusNotFound)
			return
		}
		errorsx.HTTPError(w, ws.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		return
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		errorsx.HTTPError(w, ws.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		return
	}

	http.ServeContent(w, r, fileName, fileInfo.ModTime(), file)
}

func (ws *ArtifactsService) handlePostRender(w http.ResponseWriter, r *http.Request) {
	presetName := chi.URLParam(r, "presetName")

	preset, ok := ws.presetsByName[presetName]
	if !ok {
		errorsx.HTTPError(w, ws.logger, errorsx.Errorf("unknown preset %q", presetName), http.StatusNotFound)
		return
	}

	ws.sema.Add()
	defer ws.sema.Done()

	artifacts, err := ws.renderPreset(preset)
	if err != nil {
		errorsx.HTTPError(w, ws.logger, err, http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, artifactsResponseType{artifacts})
}

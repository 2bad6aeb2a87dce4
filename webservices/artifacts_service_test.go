package webservices

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/tigermap/presets"
	"github.com/jamesrr39/tigermap/tigermapexport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArtifactsService(t *testing.T, renderPreset RenderPresetFunc) (*ArtifactsService, string) {
	logger := logpkg.NewLogger(ioutil.Discard, logpkg.LogLevelError)
	outputDir := t.TempDir()

	if renderPreset == nil {
		renderPreset = func(preset *presets.Preset) ([]*tigermapexport.ArtifactInfo, errorsx.Error) {
			return []*tigermapexport.ArtifactInfo{}, nil
		}
	}

	return NewArtifactsService(logger, gofs.NewOsFs(), outputDir, presets.Builtin(), renderPreset), outputDir
}

func Test_ArtifactsService_handleGetArtifacts(t *testing.T) {
	ws, outputDir := newTestArtifactsService(t, nil)

	// 1293943 bytes is 1.2339... MB, so the reported size must be rounded
	pngContents := bytes.Repeat([]byte("x"), 1293943)

	fs := gofs.NewOsFs()
	require.NoError(t, fs.WriteFile(filepath.Join(outputDir, "socal.png"), pngContents, 0644))
	require.NoError(t, fs.WriteFile(filepath.Join(outputDir, "notes.txt"), []byte("ignored"), 0644))

	w := httptest.NewRecorder()
	ws.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var response artifactsResponseType
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.Len(t, response.Artifacts, 1, "files without a known format extension are skipped")
	assert.Equal(t, "socal.png", response.Artifacts[0].Name)
	assert.Equal(t, tigermapexport.FormatPNG, response.Artifacts[0].Format)
	assert.Equal(t, int64(len(pngContents)), response.Artifacts[0].SizeBytes)
	assert.Equal(t, 1.23, response.Artifacts[0].SizeMB)
}

func Test_ArtifactsService_handleGetPresets(t *testing.T) {
	ws, _ := newTestArtifactsService(t, nil)

	w := httptest.NewRecorder()
	ws.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/presets", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var infos []presetInfoType
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &infos))

	require.Len(t, infos, 2)
	assert.Equal(t, "continental-us", infos[0].Name)
	assert.Equal(t, "socal", infos[1].Name)
}

func Test_ArtifactsService_handleGetFile(t *testing.T) {
	ws, outputDir := newTestArtifactsService(t, nil)

	fs := gofs.NewOsFs()
	require.NoError(t, fs.WriteFile(filepath.Join(outputDir, "socal.png"), []byte("file contents"), 0644))

	w := httptest.NewRecorder()
	ws.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/socal.png", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "file contents", w.Body.String())

	w = httptest.NewRecorder()
	ws.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func Test_ArtifactsService_handlePostRender(t *testing.T) {
	var renderedPreset string
	renderPreset := func(preset *presets.Preset) ([]*tigermapexport.ArtifactInfo, errorsx.Error) {
		renderedPreset = preset.Name
		return []*tigermapexport.ArtifactInfo{
			{Name: "socal.png", Format: tigermapexport.FormatPNG},
		}, nil
	}

	ws, _ := newTestArtifactsService(t, renderPreset)

	w := httptest.NewRecorder()
	ws.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/render/socal", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "socal", renderedPreset)

	var response artifactsResponseType
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Artifacts, 1)

	w = httptest.NewRecorder()
	ws.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/render/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

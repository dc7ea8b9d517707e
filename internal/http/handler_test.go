package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "go.ngs.io/surface3d/docs"
	"go.ngs.io/surface3d/internal/adapter/raster"
	gridcsv "go.ngs.io/surface3d/internal/adapter/store/csv"
	"go.ngs.io/surface3d/internal/adapter/store/memory"
	"go.ngs.io/surface3d/internal/render"
	"go.ngs.io/surface3d/internal/usecase"
)

const smallSurface = `{
	"name": "small",
	"properties": {
		"n_lat": 2, "n_lon": 2,
		"lons": [0, 1, 0, 1],
		"lats": [0, 0, 1, 1],
		"values": [1, 2, null, 4]
	}
}`

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	uc := usecase.NewSurfaceUseCase(memory.New(), render.DefaultRegistry(render.Options{}), usecase.Sources{
		RasterDir: filepath.Join(dir, "rasters"),
		Raster:    &raster.NativeReader{},
		Grids:     gridcsv.NewGridStore(dir),
	})
	return SetupRouter(uc, nil), dir
}

func do(t *testing.T, router *gin.Engine, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createSmall(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := do(t, router, http.MethodPost, "/v1/surfaces", "application/json", smallSurface)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["id"].(string)
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)
	w := do(t, router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestCreateSurface(t *testing.T) {
	router, _ := newTestRouter(t)
	w := do(t, router, http.MethodPost, "/v1/surfaces", "application/json", smallSurface)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "small", body["name"])
	assert.Equal(t, 1.0, body["version"])
	props := body["properties"].(map[string]any)
	assert.Equal(t, []any{1.0, 2.0, nil, 4.0}, props["values"])
	// Omitted fields keep their defaults.
	assert.Equal(t, "Turbo256", props["palette"])
	assert.Equal(t, 45.0, props["azimuth"])
	assert.Equal(t, true, props["show_colorbar"])
}

func TestCreateSurface_ShapeMismatch(t *testing.T) {
	router, _ := newTestRouter(t)
	body := `{"properties": {"n_lat": 2, "n_lon": 3, "lons": [0,1,2,0,1,2], "lats": [0,0,0,1,1,1], "values": [1,2,3,4,5]}}`
	w := do(t, router, http.MethodPost, "/v1/surfaces", "application/json", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	got := decode(t, w)
	assert.Equal(t, "values", got["field"])
	assert.Equal(t, 6.0, got["expected"])
	assert.Equal(t, 5.0, got["actual"])

	w = do(t, router, http.MethodGet, "/v1/surfaces", "", "")
	assert.Equal(t, 0.0, decode(t, w)["count"])
}

func TestCreateSurface_DimensionOverflow(t *testing.T) {
	router, _ := newTestRouter(t)
	body := `{"properties": {"n_lat": 4294967296, "n_lon": 4294967296, "lons": [], "lats": [], "values": []}}`
	w := do(t, router, http.MethodPost, "/v1/surfaces", "application/json", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Equal(t, "n_lat", decode(t, w)["field"])

	w = do(t, router, http.MethodGet, "/v1/surfaces", "", "")
	assert.Equal(t, 0.0, decode(t, w)["count"])
}

func TestUpdateView_OversizedLayout(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createSmall(t, router)

	w := do(t, router, http.MethodPatch, "/v1/surfaces/"+id, "application/json", `{"width": 200000, "height": 200000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/v1/surfaces/"+id+"/render?format=png", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateSurface_BadBody(t *testing.T) {
	router, _ := newTestRouter(t)
	w := do(t, router, http.MethodPost, "/v1/surfaces", "application/json", `{"properties": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSurfaceLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createSmall(t, router)

	w := do(t, router, http.MethodGet, "/v1/surfaces/"+id, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode(t, w)["id"])

	w = do(t, router, http.MethodPatch, "/v1/surfaces/"+id, "application/json",
		`{"palette": "viridis", "elevation": 60, "vmax": 10}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode(t, w)
	assert.Equal(t, 2.0, got["version"])
	props := got["properties"].(map[string]any)
	assert.Equal(t, "viridis", props["palette"])
	assert.Equal(t, 60.0, props["elevation"])
	assert.Equal(t, 10.0, props["vmax"])

	w = do(t, router, http.MethodPut, "/v1/surfaces/"+id+"/grid", "application/json",
		`{"n_lat": 1, "n_lon": 3, "lons": [0, 1, 2], "lats": [0, 0, 0], "values": [5, null, 7]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 3.0, decode(t, w)["version"])

	w = do(t, router, http.MethodGet, "/v1/surfaces", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	assert.Equal(t, 1.0, list["count"])
	summary := list["surfaces"].([]any)[0].(map[string]any)
	assert.Equal(t, 3.0, summary["n_lon"])

	w = do(t, router, http.MethodDelete, "/v1/surfaces/"+id, "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, router, http.MethodGet, "/v1/surfaces/"+id, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, router, http.MethodDelete, "/v1/surfaces/"+id, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateView_Rejects(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createSmall(t, router)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"grid field", `{"values": [1, 2, 3, 4]}`, http.StatusBadRequest},
		{"unknown field", `{"colour": "red"}`, http.StatusBadRequest},
		{"empty name", `{"name": ""}`, http.StatusBadRequest},
		{"negative height", `{"height": -5}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPatch, "/v1/surfaces/"+id, "application/json", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	w := do(t, router, http.MethodPatch, "/v1/surfaces/missing", "application/json", `{"zoom": 2}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReplaceGrid_CSV(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createSmall(t, router)

	csvBody := "lon,lat,value\n0,0,1\n1,0,2\n2,0,3\n0,1,4\n1,1,5\n2,1,\n"
	w := do(t, router, http.MethodPut, "/v1/surfaces/"+id+"/grid", "text/csv; charset=utf-8", csvBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	props := decode(t, w)["properties"].(map[string]any)
	assert.Equal(t, 2.0, props["n_lat"])
	assert.Equal(t, 3.0, props["n_lon"])
	assert.Equal(t, []any{1.0, 2.0, 3.0, 4.0, 5.0, nil}, props["values"])

	w = do(t, router, http.MethodPut, "/v1/surfaces/"+id+"/grid", "text/csv", "x,y,z\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplaceGrid_ShapeMismatchKeepsGrid(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createSmall(t, router)

	w := do(t, router, http.MethodPut, "/v1/surfaces/"+id+"/grid", "application/json",
		`{"lons": [0, 1, 0], "lats": [0, 0, 1], "values": [1, 2, 3]}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "lons", decode(t, w)["field"])

	w = do(t, router, http.MethodGet, "/v1/surfaces/"+id, "", "")
	got := decode(t, w)
	assert.Equal(t, 1.0, got["version"])
	assert.Len(t, got["properties"].(map[string]any)["values"], 4)
}

func TestRenderSurface(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createSmall(t, router)

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"", "text/html; charset=utf-8", ""},
		{"html", "text/html; charset=utf-8", ""},
		{"png", "image/png", "\x89PNG"},
		{"colorbar", "image/png", "\x89PNG"},
		{"json", "application/json", "{"},
		{"csv", "text/csv", "lon,lat,value"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := "/v1/surfaces/" + id + "/render"
			if tt.format != "" {
				path += "?format=" + tt.format
			}
			w := do(t, router, http.MethodGet, path, "", "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			assert.Equal(t, "1", w.Header().Get(VersionHeader))
			assert.True(t, strings.HasPrefix(w.Body.String(), tt.prefix))
		})
	}

	w := do(t, router, http.MethodGet, "/v1/surfaces/"+id+"/render?format=svg", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPatch, "/v1/surfaces/"+id, "application/json", `{"show_colorbar": false}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, router, http.MethodGet, "/v1/surfaces/"+id+"/render?format=colorbar", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateFromPreset(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/v1/surfaces/presets/saddle?n_lat=5&n_lon=7", "", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	props := decode(t, w)["properties"].(map[string]any)
	assert.Equal(t, 5.0, props["n_lat"])
	assert.Equal(t, 7.0, props["n_lon"])
	assert.Len(t, props["values"], 35)

	tests := []struct {
		path string
		want int
	}{
		{"/v1/surfaces/presets/nope", http.StatusNotFound},
		{"/v1/surfaces/presets/saddle?n_lat=1", http.StatusBadRequest},
		{"/v1/surfaces/presets/saddle?n_lat=abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := do(t, router, http.MethodPost, tt.path, "", "")
		assert.Equal(t, tt.want, w.Code, tt.path)
	}
}

func TestCreateFromRaster_Errors(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		path string
		want int
	}{
		{"/v1/surfaces/rasters/absent", http.StatusNotFound},
		{"/v1/surfaces/rasters/.hidden", http.StatusBadRequest},
		{"/v1/surfaces/rasters/dem?coarsen=x", http.StatusBadRequest},
		{"/v1/surfaces/rasters/dem?scale=x", http.StatusBadRequest},
		{"/v1/surfaces/rasters/dem?bbox=1,2,3", http.StatusBadRequest},
		{"/v1/surfaces/rasters/dem?normalize=log", http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := do(t, router, http.MethodPost, tt.path, "", "")
		assert.Equal(t, tt.want, w.Code, tt.path)
	}
}

func TestCreateFromGrid(t *testing.T) {
	router, dir := newTestRouter(t)
	csvData := "lon,lat,value\n0,0,1\n1,0,2\n0,1,3\n1,1,4\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.csv"), []byte(csvData), 0o644))

	w := do(t, router, http.MethodGet, "/v1/grids", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"tiny"}, decode(t, w)["grids"])

	w = do(t, router, http.MethodPost, "/v1/surfaces/grids/tiny", "", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "tiny", decode(t, w)["name"])

	w = do(t, router, http.MethodPost, "/v1/surfaces/grids/absent", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogs(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/v1/presets", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Positive(t, decode(t, w)["count"])

	w = do(t, router, http.MethodGet, "/v1/palettes", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	palettes := decode(t, w)
	assert.Contains(t, palettes["palettes"], "viridis")
	assert.Equal(t, render.FallbackPalette, palettes["fallback"])

	w = do(t, router, http.MethodGet, "/v1/formats", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"colorbar", "csv", "html", "json", "png"}, decode(t, w)["formats"])

	w = do(t, router, http.MethodGet, "/v1/rasters", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, decode(t, w)["count"])
}

func TestSwagger(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/swagger/", "", "")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/swagger/index.html", w.Header().Get("Location"))

	w = do(t, router, http.MethodGet, "/swagger/doc.json", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	doc := decode(t, w)
	assert.Equal(t, "2.0", doc["swagger"])
	paths := doc["paths"].(map[string]any)
	assert.Contains(t, paths, "/v1/surfaces/{id}/render")
	assert.Contains(t, paths, "/v1/surfaces/{id}/grid")
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	uc := usecase.NewSurfaceUseCase(memory.New(), render.DefaultRegistry(render.Options{}), usecase.Sources{})
	router := SetupRouter(uc, []string{"https://allowed.example"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://allowed.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "https://allowed.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://other.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestParseBBox(t *testing.T) {
	b, err := parseBBox("130, 30, 140.5, 40")
	require.NoError(t, err)
	assert.Equal(t, 130.0, b.MinLon)
	assert.Equal(t, 30.0, b.MinLat)
	assert.Equal(t, 140.5, b.MaxLon)
	assert.Equal(t, 40.0, b.MaxLat)

	for _, s := range []string{"1,2,3", "a,b,c,d", "140,30,130,40"} {
		_, err := parseBBox(s)
		assert.Error(t, err, s)
	}
}

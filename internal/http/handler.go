package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"go.ngs.io/surface3d/internal/adapter/raster"
	"go.ngs.io/surface3d/internal/adapter/store"
	gridcsv "go.ngs.io/surface3d/internal/adapter/store/csv"
	"go.ngs.io/surface3d/internal/domain"
	"go.ngs.io/surface3d/internal/render"
	"go.ngs.io/surface3d/internal/surfaces"
	"go.ngs.io/surface3d/internal/usecase"
)

// VersionHeader carries the surface version a rendering was made from.
const VersionHeader = "X-Surface-Version"

// Handler handles HTTP requests for surface models.
type Handler struct {
	surfaceUC *usecase.SurfaceUseCase
}

// NewHandler creates a new HTTP handler.
func NewHandler(surfaceUC *usecase.SurfaceUseCase) *Handler {
	return &Handler{
		surfaceUC: surfaceUC,
	}
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error" example:"surface not found"`
}

// ShapeMismatchResponse reports which grid field has the wrong length.
type ShapeMismatchResponse struct {
	Error    string `json:"error"`
	Field    string `json:"field" example:"values"`
	NLat     int    `json:"n_lat" example:"30"`
	NLon     int    `json:"n_lon" example:"60"`
	Expected int    `json:"expected" example:"1800"`
	Actual   int    `json:"actual" example:"1799"`
}

// CreateRequest is the body of POST /v1/surfaces. Omitted properties take
// their documented defaults.
type CreateRequest struct {
	Name       string            `json:"name"`
	Properties domain.Properties `json:"properties"`
}

// GridRequest is the JSON body of PUT /v1/surfaces/:id/grid. Zero
// dimensions keep the current ones.
type GridRequest struct {
	Lons   domain.FloatList `json:"lons"`
	Lats   domain.FloatList `json:"lats"`
	Values domain.FloatList `json:"values"`
	NLat   int              `json:"n_lat"`
	NLon   int              `json:"n_lon"`
}

// CreateSurface godoc
// @Summary Create a surface from properties
// @Tags surfaces
// @Accept json
// @Produce json
// @Param request body CreateRequest true "Surface name and properties"
// @Success 201 {object} usecase.Surface
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ShapeMismatchResponse
// @Router /v1/surfaces [post]
func (h *Handler) CreateSurface(c *gin.Context) {
	req := CreateRequest{Properties: domain.DefaultProperties()}
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	s, err := h.surfaceUC.Create(c.Request.Context(), req.Name, req.Properties)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// CreateFromPreset godoc
// @Summary Create a preset surface
// @Tags surfaces
// @Produce json
// @Param name path string true "Preset name"
// @Param n_lat query int false "Grid rows"
// @Param n_lon query int false "Grid columns"
// @Success 201 {object} usecase.Surface
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /v1/surfaces/presets/{name} [post]
func (h *Handler) CreateFromPreset(c *gin.Context) {
	nLat, err := queryInt(c, "n_lat")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	nLon, err := queryInt(c, "n_lon")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.surfaceUC.CreateFromPreset(c.Request.Context(), c.Param("name"), nLat, nLon)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// CreateFromRaster godoc
// @Summary Create a surface from a raster
// @Tags surfaces
// @Produce json
// @Param name path string true "Raster name without the .nc suffix"
// @Param var query string false "Data variable"
// @Param coarsen query int false "Block size for block-mean downsampling"
// @Param normalize query string false "none, minmax or zscore"
// @Param scale query number false "Upper bound of minmax normalization"
// @Param n_lat query int false "Resampled rows"
// @Param n_lon query int false "Resampled columns"
// @Param bbox query string false "min_lon,min_lat,max_lon,max_lat"
// @Success 201 {object} usecase.Surface
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /v1/surfaces/rasters/{name} [post]
func (h *Handler) CreateFromRaster(c *gin.Context) {
	req := usecase.RasterRequest{
		Name:      c.Param("name"),
		Variable:  c.Query("var"),
		Normalize: raster.Normalization(c.Query("normalize")),
	}

	var err error
	if req.Coarsen, err = queryInt(c, "coarsen"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.NLat, err = queryInt(c, "n_lat"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.NLon, err = queryInt(c, "n_lon"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if s := c.Query("scale"); s != "" {
		if req.Scale, err = strconv.ParseFloat(s, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid scale: %v", err)})
			return
		}
	}
	if s := c.Query("bbox"); s != "" {
		if req.BBox, err = parseBBox(s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	s, err := h.surfaceUC.CreateFromRaster(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// CreateFromGrid godoc
// @Summary Create a surface from a CSV grid
// @Tags surfaces
// @Produce json
// @Param name path string true "Grid name without the .csv suffix"
// @Success 201 {object} usecase.Surface
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ShapeMismatchResponse
// @Router /v1/surfaces/grids/{name} [post]
func (h *Handler) CreateFromGrid(c *gin.Context) {
	s, err := h.surfaceUC.CreateFromGrid(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// ListSurfaces godoc
// @Summary List surfaces
// @Tags surfaces
// @Produce json
// @Success 200
// @Router /v1/surfaces [get]
func (h *Handler) ListSurfaces(c *gin.Context) {
	list, err := h.surfaceUC.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"surfaces": list,
		"count":    len(list),
	})
}

// GetSurface godoc
// @Summary Get a surface
// @Tags surfaces
// @Produce json
// @Param id path string true "Surface ID"
// @Success 200 {object} usecase.Surface
// @Failure 404 {object} ErrorResponse
// @Router /v1/surfaces/{id} [get]
func (h *Handler) GetSurface(c *gin.Context) {
	s, err := h.surfaceUC.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// UpdateView godoc
// @Summary Update view properties
// @Description Grid fields are not accepted here; use PUT /v1/surfaces/{id}/grid.
// @Tags surfaces
// @Accept json
// @Produce json
// @Param id path string true "Surface ID"
// @Param patch body usecase.ViewPatch true "Fields to change"
// @Success 200 {object} usecase.Surface
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /v1/surfaces/{id} [patch]
func (h *Handler) UpdateView(c *gin.Context) {
	var patch usecase.ViewPatch
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid patch: %v", err)})
		return
	}

	s, err := h.surfaceUC.UpdateView(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ReplaceGrid godoc
// @Summary Replace the grid
// @Description The body is a GridRequest or, with Content-Type text/csv, lon,lat,value rows.
// @Tags surfaces
// @Accept json,text/csv
// @Produce json
// @Param id path string true "Surface ID"
// @Param grid body GridRequest true "New grid"
// @Success 200 {object} usecase.Surface
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ShapeMismatchResponse
// @Router /v1/surfaces/{id}/grid [put]
func (h *Handler) ReplaceGrid(c *gin.Context) {
	var g domain.Grid
	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if mediaType == "text/csv" {
		parsed, err := gridcsv.ReadGrid(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		g = parsed
	} else {
		var req GridRequest
		if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid grid: %v", err)})
			return
		}
		g = domain.Grid{Lons: req.Lons, Lats: req.Lats, Values: req.Values, NLat: req.NLat, NLon: req.NLon}
	}

	s, err := h.surfaceUC.ReplaceGrid(c.Request.Context(), c.Param("id"), g)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// DeleteSurface godoc
// @Summary Delete a surface
// @Tags surfaces
// @Param id path string true "Surface ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /v1/surfaces/{id} [delete]
func (h *Handler) DeleteSurface(c *gin.Context) {
	if err := h.surfaceUC.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RenderSurface godoc
// @Summary Render a surface
// @Tags surfaces
// @Produce html,png,json,text/csv
// @Param id path string true "Surface ID"
// @Param format query string false "html, png, colorbar, json or csv" default(html)
// @Success 200 {file} file
// @Header 200 {integer} X-Surface-Version "Surface version the output was made from"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ShapeMismatchResponse
// @Router /v1/surfaces/{id}/render [get]
func (h *Handler) RenderSurface(c *gin.Context) {
	format := c.DefaultQuery("format", render.FormatHTML)

	out, err := h.surfaceUC.Render(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header(VersionHeader, strconv.FormatUint(out.Version, 10))
	c.Data(http.StatusOK, out.ContentType, out.Body)
}

// GetPresets handles GET /v1/presets.
func (h *Handler) GetPresets(c *gin.Context) {
	presets := surfaces.List()
	c.JSON(http.StatusOK, gin.H{
		"presets": presets,
		"count":   len(presets),
	})
}

// GetPalettes handles GET /v1/palettes.
func (h *Handler) GetPalettes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"palettes":  render.PaletteNames(),
		"suggested": surfaces.Palettes,
		"fallback":  render.FallbackPalette,
	})
}

// GetFormats handles GET /v1/formats.
func (h *Handler) GetFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats": h.surfaceUC.Formats(),
	})
}

// GetRasters handles GET /v1/rasters.
func (h *Handler) GetRasters(c *gin.Context) {
	names, err := h.surfaceUC.ListRasters()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rasters": names,
		"count":   len(names),
	})
}

// GetGrids handles GET /v1/grids.
func (h *Handler) GetGrids(c *gin.Context) {
	names, err := h.surfaceUC.ListGrids()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"grids": names,
		"count": len(names),
	})
}

// HealthCheck godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200
// @Router /health [get]
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// writeError maps use case errors to status codes.
func writeError(c *gin.Context, err error) {
	var mismatch *domain.ShapeMismatchError
	switch {
	case errors.As(err, &mismatch):
		c.JSON(http.StatusUnprocessableEntity, ShapeMismatchResponse{
			Error:    err.Error(),
			Field:    mismatch.Field,
			NLat:     mismatch.NLat,
			NLon:     mismatch.NLon,
			Expected: mismatch.Expected,
			Actual:   mismatch.Actual,
		})
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, surfaces.ErrUnknownPreset),
		errors.Is(err, gridcsv.ErrNotFound),
		errors.Is(err, os.ErrNotExist),
		errors.Is(err, render.ErrNothingToRender):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrInvalidRequest),
		errors.Is(err, surfaces.ErrInvalidSize),
		errors.Is(err, render.ErrUnknownFormat),
		errors.Is(err, raster.ErrEmptyWindow):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func queryInt(c *gin.Context, name string) (int, error) {
	s := c.Query(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return v, nil
}

// parseBBox parses "min_lon,min_lat,max_lon,max_lat".
func parseBBox(s string) (*raster.BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid bbox %q: want min_lon,min_lat,max_lon,max_lat", s)
	}
	var v [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bbox %q: %v", s, err)
		}
		v[i] = f
	}
	if v[0] >= v[2] || v[1] >= v[3] {
		return nil, fmt.Errorf("invalid bbox %q: minimums must be below maximums", s)
	}
	return &raster.BBox{MinLon: v[0], MinLat: v[1], MaxLon: v[2], MaxLat: v[3]}, nil
}

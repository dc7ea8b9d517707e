// Package docs holds the OpenAPI description of the surface3d HTTP API.
// Regenerate with go generate ./cmd/server after changing handler
// annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/presets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List preset surfaces",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/palettes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List palette names",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/formats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List render formats",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/rasters": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List rasters in the raster directory",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/grids": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List CSV grids in the grid directory",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/surfaces": {
            "get": {
                "produces": ["application/json"],
                "tags": ["surfaces"],
                "summary": "List surfaces",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["surfaces"],
                "summary": "Create a surface from properties",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/http.CreateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/usecase.Surface"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "422": {"description": "Shape mismatch", "schema": {"$ref": "#/definitions/http.ShapeMismatchResponse"}}
                }
            }
        },
        "/v1/surfaces/presets/{name}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["surfaces"],
                "summary": "Create a preset surface",
                "parameters": [
                    {"type": "string", "name": "name", "in": "path", "required": true},
                    {"type": "integer", "name": "n_lat", "in": "query"},
                    {"type": "integer", "name": "n_lon", "in": "query"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/usecase.Surface"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Unknown preset", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/surfaces/rasters/{name}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["surfaces"],
                "summary": "Create a surface from a raster",
                "parameters": [
                    {"type": "string", "name": "name", "in": "path", "required": true},
                    {"type": "string", "name": "var", "in": "query"},
                    {"type": "integer", "name": "coarsen", "in": "query"},
                    {"type": "string", "enum": ["none", "minmax", "zscore"], "name": "normalize", "in": "query"},
                    {"type": "number", "name": "scale", "in": "query"},
                    {"type": "integer", "name": "n_lat", "in": "query"},
                    {"type": "integer", "name": "n_lon", "in": "query"},
                    {"type": "string", "description": "min_lon,min_lat,max_lon,max_lat", "name": "bbox", "in": "query"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/usecase.Surface"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Raster not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/surfaces/grids/{name}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["surfaces"],
                "summary": "Create a surface from a CSV grid",
                "parameters": [
                    {"type": "string", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/usecase.Surface"}},
                    "404": {"description": "Grid not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "422": {"description": "Shape mismatch", "schema": {"$ref": "#/definitions/http.ShapeMismatchResponse"}}
                }
            }
        },
        "/v1/surfaces/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["surfaces"],
                "summary": "Get a surface",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/usecase.Surface"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["surfaces"],
                "summary": "Update view properties",
                "description": "Changes non-grid fields. vmin and vmax accept null to return to the computed range.",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "patch", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/usecase.Surface"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["surfaces"],
                "summary": "Delete a surface",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/surfaces/{id}/grid": {
            "put": {
                "consumes": ["application/json", "text/csv"],
                "produces": ["application/json"],
                "tags": ["surfaces"],
                "summary": "Replace the grid",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "grid", "required": true, "schema": {"$ref": "#/definitions/http.GridRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/usecase.Surface"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "422": {"description": "Shape mismatch", "schema": {"$ref": "#/definitions/http.ShapeMismatchResponse"}}
                }
            }
        },
        "/v1/surfaces/{id}/render": {
            "get": {
                "produces": ["text/html", "image/png", "application/json", "text/csv"],
                "tags": ["surfaces"],
                "summary": "Render a surface",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "enum": ["html", "png", "colorbar", "json", "csv"], "default": "html", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "headers": {"X-Surface-Version": {"type": "integer"}}},
                    "400": {"description": "Unknown format", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found or nothing to render", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "422": {"description": "Shape mismatch", "schema": {"$ref": "#/definitions/http.ShapeMismatchResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "http.ShapeMismatchResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "field": {"type": "string"},
                "n_lat": {"type": "integer"},
                "n_lon": {"type": "integer"},
                "expected": {"type": "integer"},
                "actual": {"type": "integer"}
            }
        },
        "http.GridRequest": {
            "type": "object",
            "properties": {
                "lons": {"type": "array", "items": {"type": "number"}},
                "lats": {"type": "array", "items": {"type": "number"}},
                "values": {"type": "array", "items": {"type": "number", "x-nullable": true}},
                "n_lat": {"type": "integer"},
                "n_lon": {"type": "integer"}
            }
        },
        "http.CreateRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "properties": {"$ref": "#/definitions/domain.Properties"}
            }
        },
        "usecase.Surface": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "version": {"type": "integer"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"},
                "properties": {"$ref": "#/definitions/domain.Properties"}
            }
        },
        "domain.Properties": {
            "type": "object",
            "properties": {
                "lons": {"type": "array", "items": {"type": "number"}},
                "lats": {"type": "array", "items": {"type": "number"}},
                "values": {"type": "array", "items": {"type": "number", "x-nullable": true}},
                "n_lat": {"type": "integer", "example": 30},
                "n_lon": {"type": "integer", "example": 60},
                "palette": {"type": "string", "example": "Turbo256"},
                "vmin": {"type": "number", "x-nullable": true},
                "vmax": {"type": "number", "x-nullable": true},
                "nan_color": {"type": "string", "example": "#808080"},
                "azimuth": {"type": "number", "example": 45},
                "elevation": {"type": "number", "example": -30},
                "zoom": {"type": "number", "example": 1},
                "autorotate": {"type": "boolean"},
                "rotation_speed": {"type": "number", "example": 1},
                "enable_hover": {"type": "boolean", "example": true},
                "show_colorbar": {"type": "boolean", "example": true},
                "colorbar_title": {"type": "string", "example": "Value"},
                "background_color": {"type": "string", "example": "#0a0a0a"},
                "colorbar_text_color": {"type": "string", "example": "#ffffff"},
                "width": {"type": "integer", "example": 800},
                "height": {"type": "integer", "example": 800}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "surface3d API",
	Description:      "Stores 3D surface grid models and renders them as interactive pages, PNG previews, colorbars, JSON or CSV.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

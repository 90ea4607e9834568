// Package docs holds the OpenAPI document served at /swagger/ when stylerd
// is built with -tags=swagger. Regenerate with `swag init -g cmd/stylerd/docs.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "stylerd maintainers"
        },
        "license": {
            "name": "BSD-3-Clause",
            "url": "https://opensource.org/licenses/BSD-3-Clause"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/model/predict": {
            "post": {
                "description": "Upload an image as multipart field \"image\" and pick a style with \"model\".",
                "consumes": ["multipart/form-data"],
                "produces": ["image/jpeg"],
                "tags": ["model"],
                "summary": "Apply a style to an image",
                "parameters": [
                    {"type": "file", "description": "JPEG, PNG or TIFF image", "name": "image", "in": "formData", "required": true},
                    {"type": "string", "default": "mosaic", "description": "Style (mosaic, candy, rain_princess, udnie)", "name": "model", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/model/metadata": {
            "get": {
                "produces": ["application/json"],
                "tags": ["model"],
                "summary": "Model metadata",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Metadata"}}}
            }
        },
        "/models": {
            "get": {
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "List loaded style variants",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ModelsResponse"}}}
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "Service status and counters",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}}
            }
        }
    },
    "definitions": {
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "error": {"type": "string", "example": "unknown model \"not_a_real_model\"; valid models: mosaic, candy, rain_princess, udnie"}
            }
        },
        "types.Metadata": {
            "type": "object",
            "properties": {
                "default_model": {"type": "string", "example": "mosaic"},
                "description": {"type": "string", "example": "Pytorch Neural Style Transfer model trained on COCO 2014"},
                "id": {"type": "string", "example": "max-fast-neural-style-transfer"},
                "input_size": {"type": "array", "items": {"type": "integer"}, "example": [256, 256]},
                "license": {"type": "string", "example": "BSD-3-Clause"},
                "models": {"type": "array", "items": {"type": "string"}},
                "name": {"type": "string", "example": "MAX Fast Neural Style Transfer"},
                "source": {"type": "string"},
                "type": {"type": "string", "example": "Image-To-Image Translation"}
            }
        },
        "types.Model": {
            "type": "object",
            "properties": {
                "default": {"type": "boolean", "example": true},
                "id": {"type": "string", "example": "mosaic"},
                "name": {"type": "string", "example": "Mosaic"},
                "path": {"type": "string", "example": "/srv/stylerd/assets/mosaic.onnx"},
                "size_bytes": {"type": "integer", "example": 6728531}
            }
        },
        "types.ModelStatus": {
            "type": "object",
            "properties": {
                "failures": {"type": "integer", "example": 1},
                "last_used_unix": {"type": "integer", "example": 1700000000},
                "model_id": {"type": "string", "example": "candy"},
                "requests": {"type": "integer", "example": 42}
            }
        },
        "types.ModelsResponse": {
            "type": "object",
            "properties": {
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.Model"}}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "default_model": {"type": "string", "example": "mosaic"},
                "failures_total": {"type": "integer", "example": 3},
                "inflight": {"type": "integer", "example": 1},
                "max_concurrent": {"type": "integer", "example": 4},
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.ModelStatus"}},
                "rejected_total": {"type": "integer", "example": 0},
                "requests_total": {"type": "integer", "example": 120},
                "server_time_unix": {"type": "integer", "example": 1700000000},
                "state": {"type": "string", "example": "ready"},
                "uptime_seconds": {"type": "integer", "example": 3600}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "stylerd API",
	Description:      "HTTP API for fast neural style transfer (mosaic, candy, rain_princess, udnie).",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

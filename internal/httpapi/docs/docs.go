// Package docs registers the mock API's OpenAPI document with swag.
// Regenerate with `swag init -g cmd/llmbench/docs.go -o internal/httpapi/docs`
// after changing the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "llmbench maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/generate": {
            "post": {
                "description": "Streams NDJSON GenerateChunk records followed by one summary record. With stream=false a single aggregated record is returned.",
                "consumes": ["application/json"],
                "produces": ["application/x-ndjson", "application/json"],
                "tags": ["generate"],
                "summary": "Generate a completion",
                "parameters": [
                    {
                        "description": "Generation request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.GenerateRequest"}
                    },
                    {
                        "type": "string",
                        "description": "Per-request log level: off|error|info|debug",
                        "name": "log",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.GenerateChunk"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/tags": {
            "get": {
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "List served models",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.TagsResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "ok", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "error": {"type": "string"}
            }
        },
        "types.GenerateChunk": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "done": {"type": "boolean"},
                "done_reason": {"type": "string"},
                "error": {"type": "string"},
                "eval_count": {"type": "integer"},
                "eval_duration": {"type": "integer"},
                "load_duration": {"type": "integer"},
                "model": {"type": "string"},
                "prompt_eval_count": {"type": "integer"},
                "prompt_eval_duration": {"type": "integer"},
                "response": {"type": "string"},
                "total_duration": {"type": "integer"}
            }
        },
        "types.GenerateOptions": {
            "type": "object",
            "properties": {
                "num_predict": {"type": "integer"},
                "seed": {"type": "integer"},
                "temperature": {"type": "number"}
            }
        },
        "types.GenerateRequest": {
            "type": "object",
            "properties": {
                "model": {"type": "string"},
                "options": {"$ref": "#/definitions/types.GenerateOptions"},
                "prompt": {"type": "string"},
                "stream": {"type": "boolean"}
            }
        },
        "types.Model": {
            "type": "object",
            "properties": {
                "family": {"type": "string"},
                "name": {"type": "string"},
                "size": {"type": "integer"}
            }
        },
        "types.TagsResponse": {
            "type": "object",
            "properties": {
                "models": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/types.Model"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "llmbench mock API",
	Description:      "Ollama-compatible mock generation endpoint used to benchmark without a real LLM server.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

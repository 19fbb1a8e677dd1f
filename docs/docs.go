// Package docs holds the OpenAPI description served at /swagger.
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
        "/process-image": {
            "post": {
                "description": "Describes or translates the image with the configured vision provider.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vision"],
                "summary": "Process image",
                "parameters": [
                    {
                        "description": "Image request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.ProcessImageRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/dto.ProcessImageResponse"}
                    },
                    "400": {
                        "description": "No image data provided",
                        "schema": {"$ref": "#/definitions/shared.APIError"}
                    },
                    "502": {
                        "description": "API request failed",
                        "schema": {"$ref": "#/definitions/shared.APIError"}
                    }
                }
            }
        },
        "/text-to-speech": {
            "post": {
                "description": "Speaks the text with the given voice through the configured TTS upstream.",
                "consumes": ["application/json"],
                "produces": ["audio/mpeg"],
                "tags": ["audio"],
                "summary": "Text to speech",
                "parameters": [
                    {
                        "description": "Speech request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.SpeechRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Audio data",
                        "schema": {"type": "file"}
                    },
                    "400": {
                        "description": "Invalid request (missing text, text too long)",
                        "schema": {"$ref": "#/definitions/shared.APIError"}
                    },
                    "502": {
                        "description": "Synthesis failed",
                        "schema": {"$ref": "#/definitions/shared.APIError"}
                    }
                }
            }
        }
    },
    "definitions": {
        "dto.ProcessImageRequest": {
            "type": "object",
            "properties": {
                "context": {"type": "string", "example": "describe"},
                "image": {"type": "string", "example": "data:image/jpeg;base64,/9j/4AAQ..."},
                "language": {"type": "string", "example": "French"}
            }
        },
        "dto.ProcessImageResponse": {
            "type": "object",
            "properties": {
                "result": {"type": "object"},
                "success": {"type": "boolean"}
            }
        },
        "dto.SpeechRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string", "example": "Bonjour"},
                "voice": {"type": "string", "example": "ff_siwis"}
            }
        },
        "shared.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object"},
                "error": {"type": "string"},
                "success": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Lingualens API",
	Description:      "Vision and speech proxy for the lingualens client",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

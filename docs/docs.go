// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/web/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Pareto Fellowship",
            "email": "team@paretofellowship.org"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/applications": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["intake"],
                "summary": "Submit a fellowship application",
                "parameters": [
                    {"type": "string", "name": "payload", "in": "formData", "required": true},
                    {"type": "file", "name": "resume", "in": "formData", "required": true},
                    {"type": "file", "name": "deck", "in": "formData"},
                    {"type": "file", "name": "memo", "in": "formData"}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            },
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["applications"],
                "summary": "List applications with filters",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/applications/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "tags": ["applications"],
                "summary": "Export the filtered applications as CSV",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/applications/{id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["applications"],
                "summary": "Change an application status",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/auth/magic-link": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Email a one-time login link",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "429": {"description": "Too Many Requests"}}
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Password login",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/fellows": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["portal"],
                "summary": "Search the fellow directory",
                "parameters": [{"type": "string", "name": "q", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/onboarding": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data", "application/json"],
                "produces": ["application/json"],
                "tags": ["portal"],
                "summary": "Complete onboarding",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Pareto Fellowship API",
	Description:      "Applications, admin review and the fellow portal.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

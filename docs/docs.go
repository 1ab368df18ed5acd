// Package docs registers the OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Auth"], "summary": "Register admin",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "admin", "required": true, "schema": {"$ref": "#/definitions/api.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Registered", "schema": {"$ref": "#/definitions/api.AuthResponse"}},
                    "400": {"description": "All fields are required", "schema": {"$ref": "#/definitions/types.Response"}},
                    "409": {"description": "Email already exists", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"], "summary": "Log in",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/api.LoginRequest"}}],
                "responses": {
                    "200": {"description": "Logged in", "schema": {"$ref": "#/definitions/api.AuthResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/types.Response"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/records/{model}": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["Records"], "summary": "List records",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "model", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Active records", "schema": {"$ref": "#/definitions/types.Response"}},
                    "400": {"description": "Unknown model", "schema": {"$ref": "#/definitions/types.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}], "tags": ["Records"], "summary": "Create record",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "model", "type": "string", "required": true},
                    {"in": "body", "name": "record", "required": true, "schema": {"$ref": "#/definitions/types.UserInput"}}
                ],
                "responses": {
                    "201": {"description": "Created record", "schema": {"$ref": "#/definitions/types.Response"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/types.Response"}},
                    "409": {"description": "Email already exists", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/records/{model}/{id}": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["Records"], "summary": "Get record",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "model", "type": "string", "required": true},
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Record", "schema": {"$ref": "#/definitions/types.Response"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}], "tags": ["Records"], "summary": "Replace record",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "model", "type": "string", "required": true},
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "record", "required": true, "schema": {"$ref": "#/definitions/types.UserInput"}}
                ],
                "responses": {
                    "200": {"description": "Updated record", "schema": {"$ref": "#/definitions/types.Response"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/types.Response"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/types.Response"}},
                    "409": {"description": "Email already exists", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}], "tags": ["Records"], "summary": "Soft-delete record",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "model", "type": "string", "required": true},
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/api.RemoveResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/syslogs": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["System Logs"], "summary": "List system logs",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "model", "type": "string"},
                    {"in": "query", "name": "recordId", "type": "string"},
                    {"in": "query", "name": "limit", "type": "integer"},
                    {"in": "query", "name": "offset", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Audit entries", "schema": {"$ref": "#/definitions/types.Response"}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}], "tags": ["System Logs"], "summary": "Clear system logs",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Logs cleared", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        }
    },
    "definitions": {
        "api.LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string", "example": "admin@example.com"}, "password": {"type": "string", "example": "password123"}}
        },
        "api.RegisterRequest": {
            "type": "object",
            "properties": {"name": {"type": "string", "example": "Renz"}, "email": {"type": "string", "example": "admin@example.com"}, "password": {"type": "string", "example": "password123"}}
        },
        "api.AuthResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "user": {"$ref": "#/definitions/types.Admin"}, "accessToken": {"type": "string"}}
        },
        "api.RemoveResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "id": {"type": "string"}}
        },
        "types.Admin": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}, "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}}
        },
        "types.UserInput": {
            "type": "object",
            "required": ["name", "email", "address", "birthday", "contactNumber"],
            "properties": {
                "name": {"type": "string", "example": "Jane Doe"},
                "email": {"type": "string", "example": "jane@example.com"},
                "address": {"type": "string", "example": "12 Main St"},
                "birthday": {"type": "string", "example": "1990-05-01"},
                "contactNumber": {"type": "string", "example": "09171234567"}
            }
        },
        "types.Response": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "error": {"type": "string"}, "result": {}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "User Admin API",
	Description:      "Audited user management for the admin panel.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler annotations.
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
    "securityDefinitions": {
        "AccountID": {
            "type": "apiKey",
            "name": "X-Account-ID",
            "in": "header"
        }
    },
    "security": [{"AccountID": []}],
    "paths": {
        "/accounts": {
            "post": {
                "tags": ["accounts"],
                "summary": "Create an account",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/account.CreateAccountRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/accounts/me": {
            "get": {
                "tags": ["accounts"],
                "summary": "Current account",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/suites": {
            "get": {
                "tags": ["suites"],
                "summary": "List my suites",
                "parameters": [
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "per_page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["suites"],
                "summary": "Create a suite",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/suite.CreateSuiteRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/suites/{id}": {
            "get": {
                "tags": ["suites"],
                "summary": "Get a suite with its members",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/suites/{id}/invitations": {
            "post": {
                "tags": ["invitations"],
                "summary": "Create an invitation link",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "schema": {"$ref": "#/definitions/invitation.CreateInvitationRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}
            }
        },
        "/invitations/{token}": {
            "get": {
                "tags": ["invitations"],
                "summary": "Preview an invitation",
                "parameters": [{"type": "string", "name": "token", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/invitations/{token}/join": {
            "post": {
                "tags": ["invitations"],
                "summary": "Redeem an invitation",
                "parameters": [{"type": "string", "name": "token", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "410": {"description": "Gone"}}
            }
        },
        "/notifications": {
            "get": {
                "tags": ["notifications"],
                "summary": "List my notifications",
                "parameters": [{"type": "boolean", "name": "unread_only", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "account.CreateAccountRequest": {
            "type": "object",
            "properties": {
                "display_name": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "suite.CreateSuiteRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "invitation.CreateInvitationRequest": {
            "type": "object",
            "properties": {
                "role": {"type": "string", "enum": ["OWNER", "MEMBER"]},
                "ttl": {"type": "string", "example": "72h"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "SuiteKeep Membership API",
	Description:      "Suites, members and invitation links for SuiteKeep.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

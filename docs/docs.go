// Package docs holds the Swagger document served at /swagger-doc.json.
// It is a hand-maintained summary of the handler annotations; keep the two
// in step when routes change.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/plans": {
            "get": {
                "produces": ["application/json"],
                "tags": ["plans"],
                "summary": "List plans with derived metrics",
                "parameters": [
                    {"type": "string", "name": "sort", "in": "query", "description": "Sort key: startDate, progress, daysLeft, actions"},
                    {"type": "string", "name": "dir", "in": "query", "description": "Direction: asc or desc"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["plans"],
                "summary": "Create a plan",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/plans/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["plans"],
                "summary": "Completed-action history across all plans",
                "parameters": [
                    {"type": "string", "name": "sort", "in": "query", "description": "Sort key: actualDate or actualDays"},
                    {"type": "string", "name": "dir", "in": "query", "description": "Direction: asc or desc"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/plans/subscribe": {
            "get": {
                "produces": ["text/event-stream"],
                "tags": ["plans"],
                "summary": "Live plan feed (SSE)",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/plans/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["plans"],
                "summary": "Get a plan by ID",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["plans"],
                "summary": "Replace a plan document",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "tags": ["plans"],
                "summary": "Delete a plan",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/plans/{id}/actions/{index}/cycle": {
            "post": {
                "produces": ["application/json"],
                "tags": ["plans"],
                "summary": "Advance an action through the status cycle",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "index", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
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
	Title:            "Stratum Planner API",
	Description:      "Goal planning API: plans with actions, status cycling, progress metrics, completed-action history and a live SSE feed.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

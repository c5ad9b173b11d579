package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable API",
        "description": "Weekly timetable allocation and change-request workflow",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Timetable", "description": "Generation and published timetable reads"},
        {"name": "Teacher", "description": "Teacher self-service"},
        {"name": "Admin", "description": "Change-request resolution, pinning and overview"},
        {"name": "Catalog", "description": "Reference data lookups"}
    ],
    "paths": {
        "/timetable/generate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Regenerate the weekly timetable",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Run summary", "schema": {"$ref": "#/definitions/GenerateEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Generation already running", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Storage failure, run rolled back", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List scheduled classes ordered by day then slot",
                "parameters": [
                    {"$ref": "#/parameters/branch"},
                    {"$ref": "#/parameters/semester"},
                    {"$ref": "#/parameters/year"},
                    {"$ref": "#/parameters/teacher"},
                    {"$ref": "#/parameters/batch"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/timetable/grid": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Timetable grouped by day name and slot index",
                "parameters": [
                    {"$ref": "#/parameters/branch"},
                    {"$ref": "#/parameters/semester"},
                    {"$ref": "#/parameters/year"},
                    {"$ref": "#/parameters/teacher"},
                    {"$ref": "#/parameters/batch"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/timetable/export": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Download the timetable as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"$ref": "#/parameters/branch"},
                    {"$ref": "#/parameters/semester"},
                    {"$ref": "#/parameters/year"},
                    {"$ref": "#/parameters/teacher"},
                    {"$ref": "#/parameters/batch"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher/timetable": {
            "get": {
                "tags": ["Teacher"],
                "summary": "Caller's own timetable",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "No teacher profile", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher/change-request": {
            "post": {
                "tags": ["Teacher"],
                "summary": "File a change request for one of the caller's classes",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FileChangeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Blank reason or class not owned", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Scheduled class not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher/change-requests": {
            "get": {
                "tags": ["Teacher"],
                "summary": "List the caller's change requests, newest first",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/change-requests": {
            "get": {
                "tags": ["Admin"],
                "summary": "List change requests, newest first",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["pending", "approved", "rejected"]},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/change-requests/{id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Get a change request",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Admin"],
                "summary": "Approve or reject a pending change request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResolveChangeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Already resolved or invalid status", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/placements/{id}/lock": {
            "put": {
                "tags": ["Admin"],
                "summary": "Pin or unpin a scheduled class",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LockPlacementRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/timetable": {
            "get": {
                "tags": ["Admin"],
                "summary": "Full timetable for administrators",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/branch"},
                    {"$ref": "#/parameters/semester"},
                    {"$ref": "#/parameters/year"},
                    {"$ref": "#/parameters/teacher"},
                    {"$ref": "#/parameters/batch"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/dashboard": {
            "get": {
                "tags": ["Admin"],
                "summary": "Catalog counters and runtime metrics",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/catalog/branches": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List branches",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/catalog/teachers": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List teachers",
                "parameters": [{"name": "search", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "parameters": {
        "branch": {"name": "branch", "in": "query", "type": "integer"},
        "semester": {"name": "semester", "in": "query", "type": "integer"},
        "year": {"name": "year", "in": "query", "type": "integer"},
        "teacher": {"name": "teacher", "in": "query", "type": "integer"},
        "batch": {"name": "batch", "in": "query", "type": "integer"}
    },
    "definitions": {
        "Conflict": {
            "type": "object",
            "properties": {
                "assignment": {"type": "integer"},
                "kind": {"type": "string", "enum": ["NO_SUITABLE_ROOM", "PARTIAL"]},
                "reason": {"type": "string"},
                "course_id": {"type": "integer"},
                "batch_id": {"type": "integer"},
                "teacher_id": {"type": "integer"},
                "scheduled": {"type": "integer"},
                "required": {"type": "integer"}
            }
        },
        "GenerateTimetableResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "run_id": {"type": "string"},
                "scheduled": {"type": "integer"},
                "placed": {"type": "integer"},
                "cleared": {"type": "integer"},
                "took_ms": {"type": "integer"},
                "conflicts": {"type": "array", "items": {"$ref": "#/definitions/Conflict"}}
            }
        },
        "GenerateEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/GenerateTimetableResponse"}
            }
        },
        "FileChangeRequest": {
            "type": "object",
            "required": ["scheduled_class_id", "reason"],
            "properties": {
                "scheduled_class_id": {"type": "integer"},
                "reason": {"type": "string"}
            }
        },
        "ResolveChangeRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["approved", "rejected"]},
                "admin_notes": {"type": "string"}
            }
        },
        "LockPlacementRequest": {
            "type": "object",
            "required": ["locked"],
            "properties": {
                "locked": {"type": "boolean"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

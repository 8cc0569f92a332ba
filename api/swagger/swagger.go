package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Registration API",
        "description": "Student registration intake backed by a spreadsheet",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Registrations", "description": "Form submission and sheet setup"},
        {"name": "Operations", "description": "Probes and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Operations"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Operations"],
                "summary": "Readiness check",
                "description": "Fails while the sheet store cannot be built, e.g. missing credentials.",
                "responses": {
                    "200": {"description": "Ready", "schema": {"$ref": "#/definitions/ReadinessResponse"}},
                    "503": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/ReadinessResponse"}}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Operations"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/submit": {
            "post": {
                "tags": ["Registrations"],
                "summary": "Submit a student registration",
                "description": "Appends one row per chosen subject. A submission without subjects yields a single placeholder row.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegistrationPayload"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SubmitResponse"}},
                    "400": {"description": "Missing name or phone", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "405": {"description": "Method not allowed", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Configuration or store failure", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/setup-sheet": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Provision the registration sheet",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SetupSheetResponse"}},
                    "400": {"description": "Spreadsheet has no sheets", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Configuration or store failure", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "post": {
                "tags": ["Registrations"],
                "summary": "Provision the registration sheet",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SetupSheetResponse"}},
                    "400": {"description": "Spreadsheet has no sheets", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Configuration or store failure", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "SubjectChoice": {
            "type": "object",
            "properties": {
                "subject": {"type": "string"},
                "teacher": {"type": "string"},
                "group": {"type": "string"},
                "schedule": {"type": "string"},
                "whatsapp": {"type": "string"}
            }
        },
        "RegistrationPayload": {
            "type": "object",
            "required": ["full_name", "phone"],
            "properties": {
                "full_name": {"type": "string"},
                "phone": {"type": "string"},
                "whatsapp": {"type": "string"},
                "guardian_phone": {"type": "string"},
                "level": {"type": "string"},
                "year": {"type": "string"},
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/SubjectChoice"}}
            }
        },
        "SubmitResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "student_id": {"type": "string"},
                "rows_appended": {"type": "integer"}
            }
        },
        "SetupSheetResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "ReadinessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
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

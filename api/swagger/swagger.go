package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "NeuroAthlete API",
        "description": "Session analytics and progression engine for cognitive training",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "PIN exchange for access tokens"},
        {"name": "Tests", "description": "Cognitive test catalog and difficulty rules"},
        {"name": "Sessions", "description": "Session log and analytics pipeline"},
        {"name": "Profile", "description": "Neuro profile and achievements"},
        {"name": "Programs", "description": "Training programs"},
        {"name": "Fatigue", "description": "Cognitive fatigue assessments"},
        {"name": "Reports", "description": "Session history exports"}
    ],
    "paths": {
        "/auth/token": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Exchange athlete PIN for an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid PIN", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tests": {
            "get": {
                "tags": ["Tests"],
                "summary": "List cognitive tests",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tests/{id}/parameters": {
            "get": {
                "tags": ["Tests"],
                "summary": "Game parameters for a test",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "difficulty", "in": "query", "type": "string", "enum": ["beginner", "intermediate", "advanced", "elite"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown test", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/difficulty/next": {
            "post": {
                "tags": ["Tests"],
                "summary": "Recommend the next difficulty for a result",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/NextDifficultyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List recorded sessions, newest first",
                "parameters": [
                    {"name": "test_id", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sessions"],
                "summary": "Record a completed test session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/profile": {
            "get": {
                "tags": ["Profile"],
                "summary": "Neuro profile summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/achievements": {
            "get": {
                "tags": ["Profile"],
                "summary": "Achievement board with progress",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programs": {
            "get": {
                "tags": ["Programs"],
                "summary": "List training programs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programs/{id}/activate": {
            "post": {
                "tags": ["Programs"],
                "summary": "Activate a training program",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown program", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programs/{id}/deactivate": {
            "post": {
                "tags": ["Programs"],
                "summary": "Deactivate a training program",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown program", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/fatigue/assessments": {
            "get": {
                "tags": ["Fatigue"],
                "summary": "Fatigue assessment history",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Fatigue"],
                "summary": "Run a cognitive fatigue assessment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FatigueAssessmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a session history export",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown job", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/download": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a finished export via signed token",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/system": {
            "get": {
                "summary": "Aggregated runtime metrics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "TokenRequest": {
            "type": "object",
            "properties": {
                "pin": {"type": "string"}
            },
            "required": ["pin"]
        },
        "SessionResults": {
            "type": "object",
            "properties": {
                "reaction_time_ms": {"type": "number"},
                "accuracy": {"type": "number"},
                "correct_responses": {"type": "integer"},
                "incorrect_responses": {"type": "integer"},
                "missed_responses": {"type": "integer"},
                "average_processing_time_ms": {"type": "number"}
            }
        },
        "SessionConditions": {
            "type": "object",
            "properties": {
                "time_of_day": {"type": "string", "enum": ["morning", "afternoon", "evening", "night"]},
                "fatigue_level": {"type": "integer"},
                "pre_workout": {"type": "boolean"},
                "post_workout": {"type": "boolean"},
                "hours_since_sleep": {"type": "integer"}
            }
        },
        "RecordSessionRequest": {
            "type": "object",
            "properties": {
                "test_id": {"type": "string"},
                "difficulty": {"type": "string", "enum": ["beginner", "intermediate", "advanced", "elite"]},
                "start_time": {"type": "string", "format": "date-time"},
                "end_time": {"type": "string", "format": "date-time"},
                "results": {"$ref": "#/definitions/SessionResults"},
                "reaction_samples": {"type": "array", "items": {"type": "number"}},
                "conditions": {"$ref": "#/definitions/SessionConditions"},
                "notes": {"type": "string"}
            },
            "required": ["test_id", "start_time", "end_time"]
        },
        "NextDifficultyRequest": {
            "type": "object",
            "properties": {
                "current": {"type": "string", "enum": ["beginner", "intermediate", "advanced", "elite"]},
                "results": {"$ref": "#/definitions/SessionResults"}
            },
            "required": ["current"]
        },
        "FatigueAssessmentRequest": {
            "type": "object",
            "properties": {
                "subjective_score": {"type": "integer"}
            }
        },
        "ReportRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "test_id": {"type": "string"}
            },
            "required": ["format"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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

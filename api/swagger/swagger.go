package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "PA EWS API",
        "description": "Academic early-warning dashboard backend",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Roster upload and listing"},
        {"name": "Scores", "description": "Score upload and merged view"},
        {"name": "Thresholds", "description": "Detector configuration"},
        {"name": "Risk", "description": "Risk detectors"},
        {"name": "Dashboard", "description": "Aggregate chart views"},
        {"name": "Feedback", "description": "Narrative note log"},
        {"name": "Exports", "description": "CSV/PDF downloads"}
    ],
    "paths": {
        "/students/upload": {
            "post": {
                "tags": ["Students"],
                "summary": "Upload roster CSV",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "200": {"description": "Upload summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "program", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get one student with derived labels",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/programs": {
            "get": {
                "tags": ["Students"],
                "summary": "List distinct programs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scores/upload": {
            "post": {
                "tags": ["Scores"],
                "summary": "Upload one or more score CSVs",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "files", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "200": {"description": "Upload summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scores": {
            "get": {
                "tags": ["Scores"],
                "summary": "Filtered merged score view",
                "parameters": [
                    {"name": "program", "in": "query", "type": "string"},
                    {"name": "subject", "in": "query", "type": "string"},
                    {"name": "week", "in": "query", "type": "integer"},
                    {"name": "band", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No score data uploaded yet"}
                }
            }
        },
        "/thresholds": {
            "get": {
                "tags": ["Thresholds"],
                "summary": "Active threshold configuration",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Thresholds"],
                "summary": "Replace the threshold configuration",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ThresholdConfig"}}
                ],
                "responses": {
                    "200": {"description": "Saved configuration", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/risk/consecutive": {
            "get": {
                "tags": ["Risk"],
                "summary": "Students with sustained red/yellow weekly streaks",
                "parameters": [
                    {"name": "redRun", "in": "query", "type": "integer"},
                    {"name": "yellowRun", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No score data uploaded yet"}
                }
            }
        },
        "/risk/windows": {
            "get": {
                "tags": ["Risk"],
                "summary": "AND-rule sliding window triggers",
                "parameters": [
                    {"name": "minRed", "in": "query", "type": "integer"},
                    {"name": "minTotal", "in": "query", "type": "integer"},
                    {"name": "windowLength", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No score data uploaded yet"}
                }
            }
        },
        "/risk/divergence": {
            "get": {
                "tags": ["Risk"],
                "summary": "Weekly-versus-exam and cross-subject divergence flags",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No score data uploaded yet"}
                }
            }
        },
        "/dashboard/weekly": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Week-indexed band counts",
                "parameters": [
                    {"name": "program", "in": "query", "type": "string"},
                    {"name": "subject", "in": "query", "type": "string"},
                    {"name": "week", "in": "query", "type": "integer"},
                    {"name": "band", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/scatter": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Per-student midterm/final mean pairs",
                "parameters": [
                    {"name": "program", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/pivot": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Per-subject weekly score pivot",
                "parameters": [
                    {"name": "subject", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/feedbacks": {
            "post": {
                "tags": ["Feedback"],
                "summary": "Record a feedback note",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateFeedbackRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/feedbacks/{studentId}": {
            "get": {
                "tags": ["Feedback"],
                "summary": "List one student's feedback notes",
                "parameters": [
                    {"name": "studentId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/scores.csv": {
            "get": {
                "tags": ["Exports"],
                "summary": "Merged score table as CSV",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV payload"}
                }
            }
        },
        "/exports/anonymized.csv": {
            "get": {
                "tags": ["Exports"],
                "summary": "Anonymized merged table as CSV",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV payload"}
                }
            }
        },
        "/exports/risk.pdf": {
            "get": {
                "tags": ["Exports"],
                "summary": "Combined risk report as PDF",
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "PDF payload"}
                }
            }
        }
    },
    "definitions": {
        "ThresholdPair": {
            "type": "object",
            "properties": {
                "red_max": {"type": "number"},
                "yellow_max": {"type": "number"}
            }
        },
        "ThresholdConfig": {
            "type": "object",
            "properties": {
                "global": {"$ref": "#/definitions/ThresholdPair"},
                "by_program": {"type": "object"},
                "advanced": {
                    "type": "object",
                    "properties": {
                        "mid_low": {"type": "number"},
                        "final_low": {"type": "number"},
                        "cross_gap": {"type": "number"}
                    }
                },
                "window": {
                    "type": "object",
                    "properties": {
                        "min_red_count": {"type": "integer"},
                        "min_total_count": {"type": "integer"},
                        "window_length": {"type": "integer"}
                    }
                }
            }
        },
        "CreateFeedbackRequest": {
            "type": "object",
            "required": ["student_id", "assessment_key", "note"],
            "properties": {
                "student_id": {"type": "string"},
                "assessment_key": {"type": "string", "example": "09-BIOCHEM-MIDTERM"},
                "note": {"type": "string"},
                "author": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"}
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

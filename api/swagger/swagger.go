package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Law Firm Back Office API",
        "description": "Multi-tenant back office: approval workflow, consultation board, usage counters",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, token refresh, password"},
        {"name": "Approvals", "description": "Approval request workflow"},
        {"name": "Posts", "description": "Consultation board records"},
        {"name": "Users", "description": "Account management"},
        {"name": "Cases", "description": "Debt and bankruptcy matters"},
        {"name": "Leave", "description": "Leave requests"},
        {"name": "Expenses", "description": "Company expense ledger"},
        {"name": "Billing", "description": "Firm revenue ledger and stats"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "responses": {
                    "200": {"description": "Tokens issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api/approvals": {
            "get": {
                "tags": ["Approvals"],
                "summary": "List approval requests",
                "responses": {
                    "200": {"description": "Requests", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Approvals"],
                "summary": "Submit approval request",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/api/approvals/{id}/approve": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Approve a pending request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Approved"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Already resolved"}
                }
            }
        },
        "/api/approvals/{id}/reject": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Reject a pending request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Rejected"},
                    "409": {"description": "Already resolved"}
                }
            }
        },
        "/api/approvals/bulk-approve": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Bulk approve requests",
                "responses": {
                    "200": {"description": "All approved"},
                    "207": {"description": "Partial failure"}
                }
            }
        },
        "/api/posts": {
            "get": {
                "tags": ["Posts"],
                "summary": "List board records",
                "responses": {
                    "200": {"description": "Records", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Posts"],
                "summary": "Create board record",
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden category"}
                }
            }
        },
        "/api/billing/stats": {
            "get": {
                "tags": ["Billing"],
                "summary": "Monthly revenue stats",
                "responses": {
                    "200": {"description": "Stats", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
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

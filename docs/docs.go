// Package docs holds the OpenAPI description served under /swagger/ when the
// binary is built with -tags=swagger. Regenerate with `swag init -g
// cmd/propadvisor/docs.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {"name": "propadvisor maintainers"},
        "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/analyze": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["advisory"],
                "summary": "Analyze property risk",
                "parameters": [
                    {"type": "integer", "name": "propertyId", "in": "formData", "required": true},
                    {"type": "string", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "name": "address", "in": "formData", "required": true},
                    {"type": "string", "name": "propertyType", "in": "formData", "required": true},
                    {"type": "integer", "name": "floor", "in": "formData", "required": true},
                    {"type": "integer", "name": "builtYear", "in": "formData", "required": true},
                    {"type": "integer", "name": "area", "in": "formData", "required": true},
                    {"type": "number", "name": "marketPrice", "in": "formData"},
                    {"type": "number", "name": "deposit", "in": "formData"},
                    {"type": "number", "name": "monthlyRent", "in": "formData"},
                    {"type": "file", "name": "files", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.AnalyzeResult"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/checklist": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["advisory"],
                "summary": "Pre-contract checklist",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.ChecklistRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ChecklistResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/loan": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["advisory"],
                "summary": "Loan guide",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.LoanGuideRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.LoanGuide"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/solution": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["advisory"],
                "summary": "Mitigation plan",
                "parameters": [
                    {"type": "integer", "name": "propertyId", "in": "formData", "required": true},
                    {"type": "string", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "name": "address", "in": "formData", "required": true},
                    {"type": "string", "name": "propertyType", "in": "formData", "required": true},
                    {"type": "integer", "name": "floor", "in": "formData", "required": true},
                    {"type": "integer", "name": "builtYear", "in": "formData", "required": true},
                    {"type": "integer", "name": "area", "in": "formData", "required": true},
                    {"type": "number", "name": "totalRisk", "in": "formData", "required": true},
                    {"type": "string", "name": "summary", "in": "formData", "required": true},
                    {"type": "string", "name": "details", "in": "formData", "required": true},
                    {"type": "file", "name": "files", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SolutionPlan"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Backend status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}}
            }
        }
    },
    "definitions": {
        "types.RiskDetail": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "severity": {"type": "string", "enum": ["low", "medium", "high"]}
            }
        },
        "types.AnalyzeResult": {
            "type": "object",
            "properties": {
                "totalRisk": {"type": "integer", "example": 72},
                "summary": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/types.RiskDetail"}}
            }
        },
        "types.ChecklistRequest": {
            "type": "object",
            "properties": {
                "propertyId": {"type": "integer"},
                "name": {"type": "string"},
                "address": {"type": "string"},
                "propertyType": {"type": "string"},
                "floor": {"type": "integer"},
                "buildYear": {"type": "integer"},
                "area": {"type": "string"},
                "availableDate": {"type": "string"}
            }
        },
        "types.ChecklistResponse": {
            "type": "object",
            "properties": {"contents": {"type": "array", "items": {"type": "string"}}}
        },
        "types.GuideItem": {
            "type": "object",
            "properties": {"title": {"type": "string"}, "content": {"type": "string"}}
        },
        "types.LoanGuideRequest": {
            "type": "object",
            "properties": {
                "age": {"type": "integer"},
                "isHouseholder": {"type": "boolean"},
                "familyType": {"type": "string"},
                "annualSalary": {"type": "number"},
                "monthlySalary": {"type": "number"},
                "incomeType": {"type": "string"},
                "incomeCategory": {"type": "string"},
                "rentalArea": {"type": "string"},
                "houseType": {"type": "string"},
                "rentalType": {"type": "string"},
                "deposit": {"type": "number"},
                "managementFee": {"type": "number"},
                "availableLoan": {"type": "boolean"},
                "creditRating": {"type": "string"},
                "loanType": {"type": "string"},
                "overdueRecord": {"type": "boolean"},
                "hasLeaseAgreement": {"type": "boolean"},
                "confirmed": {"type": "boolean"},
                "guideKeyword": {"type": "string"},
                "guideUrls": {"type": "array", "items": {"type": "string"}}
            }
        },
        "types.LoanGuide": {
            "type": "object",
            "properties": {
                "loanAmount": {"type": "number"},
                "interestRate": {"type": "number"},
                "ownCapital": {"type": "number"},
                "monthlyInterest": {"type": "number"},
                "managementFee": {"type": "number"},
                "totalMonthlyCost": {"type": "number"},
                "loans": {"type": "array", "items": {"$ref": "#/definitions/types.GuideItem"}},
                "procedures": {"type": "array", "items": {"$ref": "#/definitions/types.GuideItem"}},
                "channels": {"type": "array", "items": {"$ref": "#/definitions/types.GuideItem"}},
                "advance": {"type": "array", "items": {"$ref": "#/definitions/types.GuideItem"}},
                "sources": {"type": "array", "items": {"type": "string"}}
            }
        },
        "types.CopingStrategy": {
            "type": "object",
            "properties": {"title": {"type": "string"}, "actions": {"type": "array", "items": {"type": "string"}}}
        },
        "types.SolutionPlan": {
            "type": "object",
            "properties": {
                "coping": {"type": "array", "items": {"$ref": "#/definitions/types.CopingStrategy"}},
                "checklist": {"type": "array", "items": {"type": "string"}}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "model server call failed: connection refused"},
                "code": {"type": "integer", "example": 502},
                "fields": {"type": "array", "items": {"type": "string"}}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "backend": {"type": "string"},
                "model": {"type": "string"},
                "state": {"type": "string"},
                "queue_len": {"type": "integer"},
                "inflight": {"type": "integer"},
                "max_queue_depth": {"type": "integer"},
                "max_inflight": {"type": "integer"},
                "calls_total": {"type": "integer"},
                "failures_total": {"type": "integer"},
                "cache_enabled": {"type": "boolean"},
                "last_error": {"type": "string"},
                "uptime_seconds": {"type": "integer"},
                "server_time_unix": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "propadvisor API",
	Description:      "LLM-backed real-estate risk, checklist, loan and mitigation advice.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

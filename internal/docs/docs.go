// Package docs registers the OpenAPI document served under /swagger
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
        "CompanyToken": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "SessionToken": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/api/company/register": {
            "post": {
                "tags": ["company"],
                "summary": "Register a company",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "string", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "name": "password", "in": "formData", "required": true},
                    {"type": "file", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/docs.AuthResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/company/login": {
            "post": {
                "tags": ["company"],
                "summary": "Company login",
                "parameters": [
                    {"name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/docs.AuthResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/company/company": {
            "get": {
                "security": [{"CompanyToken": []}],
                "tags": ["company"],
                "summary": "Company profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/docs.CompanyResponse"}}
                }
            }
        },
        "/api/company/update": {
            "post": {
                "security": [{"CompanyToken": []}],
                "tags": ["company"],
                "summary": "Update company profile",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "string", "name": "name", "in": "formData"},
                    {"type": "string", "name": "email", "in": "formData"},
                    {"type": "file", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/docs.CompanyResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/company/post-job": {
            "post": {
                "security": [{"CompanyToken": []}],
                "tags": ["company"],
                "summary": "Post a job",
                "parameters": [
                    {"name": "job", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.PostJobRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/docs.JobResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/company/list-jobs": {
            "get": {
                "security": [{"CompanyToken": []}],
                "tags": ["company"],
                "summary": "List company jobs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/docs.CompanyJobsResponse"}}
                }
            }
        },
        "/api/company/change-visibility": {
            "post": {
                "security": [{"CompanyToken": []}],
                "tags": ["company"],
                "summary": "Toggle job visibility",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.ChangeVisibilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/docs.JobResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/company/applicants": {
            "get": {
                "security": [{"CompanyToken": []}],
                "tags": ["company"],
                "summary": "List applicants",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/docs.ApplicationsResponse"}}
                }
            }
        },
        "/api/company/change-status": {
            "post": {
                "security": [{"CompanyToken": []}],
                "tags": ["company"],
                "summary": "Change application status",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.ChangeStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/docs.ApplicationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/company/stream": {
            "get": {
                "security": [{"CompanyToken": []}],
                "tags": ["company"],
                "summary": "Live application events",
                "description": "Websocket stream of application.submitted and application.status_changed events",
                "responses": {
                    "101": {"description": "Switching Protocols"}
                }
            }
        },
        "/api/jobs": {
            "get": {
                "tags": ["jobs"],
                "summary": "List jobs",
                "parameters": [
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "location", "in": "query"},
                    {"type": "string", "name": "district", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/docs.JobsResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/jobs/{id}": {
            "get": {
                "tags": ["jobs"],
                "summary": "Get a job",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/docs.JobResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/users/user": {
            "get": {
                "security": [{"SessionToken": []}],
                "tags": ["users"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/docs.UserResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/users/apply": {
            "post": {
                "security": [{"SessionToken": []}],
                "tags": ["users"],
                "summary": "Apply for a job",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.ApplyRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/docs.ApplicationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/users/applications": {
            "get": {
                "security": [{"SessionToken": []}],
                "tags": ["users"],
                "summary": "List my applications",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/docs.ApplicationsResponse"}}
                }
            }
        },
        "/api/users/update-resume": {
            "post": {
                "security": [{"SessionToken": []}],
                "tags": ["users"],
                "summary": "Upload resume",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "file", "name": "resume", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/docs.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/webhooks": {
            "post": {
                "tags": ["webhooks"],
                "summary": "Identity provider webhook",
                "parameters": [
                    {"type": "string", "name": "svix-id", "in": "header", "required": true},
                    {"type": "string", "name": "svix-timestamp", "in": "header", "required": true},
                    {"type": "string", "name": "svix-signature", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/docs.MessageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        }
    },
    "definitions": {
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "message": {"type": "string", "example": "Already applied"},
                "error": {
                    "type": "object",
                    "properties": {
                        "type": {"type": "string", "example": "CONFLICT"},
                        "code": {"type": "string", "example": "ALREADY_APPLIED"},
                        "requestId": {"type": "string"}
                    }
                }
            }
        },
        "services.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "services.PostJobRequest": {
            "type": "object",
            "required": ["title", "description", "location", "category", "district", "deadline"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "location": {"type": "string"},
                "category": {"type": "string"},
                "district": {"type": "string"},
                "salary": {"type": "integer"},
                "deadline": {"type": "string", "example": "2025-04-01"},
                "jobType": {"type": "string", "enum": ["full-time", "part-time", "contract", "internship", "freelance"]},
                "experienceRequired": {"type": "string", "enum": ["entry", "mid", "senior", "executive"]},
                "skills": {"type": "array", "items": {"type": "string"}},
                "contactEmail": {"type": "string"}
            }
        },
        "services.ChangeVisibilityRequest": {
            "type": "object",
            "required": ["id"],
            "properties": {"id": {"type": "string"}}
        },
        "services.ChangeStatusRequest": {
            "type": "object",
            "required": ["id", "status"],
            "properties": {
                "id": {"type": "string"},
                "status": {"type": "string", "enum": ["Pending", "Interview", "Accepted", "Rejected"]}
            }
        },
        "services.ApplyRequest": {
            "type": "object",
            "required": ["jobId"],
            "properties": {"jobId": {"type": "string"}}
        },
        "docs.MessageResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "docs.AuthResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "token": {"type": "string"},
                "company": {"$ref": "#/definitions/models.Company"}
            }
        },
        "docs.CompanyResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "company": {"$ref": "#/definitions/models.Company"}
            }
        },
        "docs.JobResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "job": {"$ref": "#/definitions/models.Job"}
            }
        },
        "docs.JobsResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "jobs": {"type": "array", "items": {"$ref": "#/definitions/models.Job"}}
            }
        },
        "docs.CompanyJobsResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "jobsData": {"type": "array", "items": {"$ref": "#/definitions/models.Job"}}
            }
        },
        "docs.ApplicationResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "application": {"$ref": "#/definitions/models.JobApplication"}
            }
        },
        "docs.ApplicationsResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "applications": {"type": "array", "items": {"$ref": "#/definitions/models.JobApplication"}}
            }
        },
        "docs.UserResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/models.User"}
            }
        },
        "models.Company": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "image": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "image": {"type": "string"},
                "resume": {"type": "string"}
            }
        },
        "models.Job": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "companyId": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "district": {"type": "string"},
                "location": {"type": "string"},
                "category": {"type": "string"},
                "salary": {"type": "integer"},
                "jobType": {"type": "string"},
                "experienceRequired": {"type": "string"},
                "skills": {"type": "array", "items": {"type": "string"}},
                "visible": {"type": "boolean"},
                "isActive": {"type": "boolean"},
                "postedDate": {"type": "string"},
                "deadlineDate": {"type": "string"},
                "listed": {"type": "boolean", "description": "owner views only"},
                "applicants": {"type": "integer", "description": "owner views only"}
            }
        },
        "models.JobApplication": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "userId": {"type": "string"},
                "companyId": {"type": "string"},
                "jobId": {"type": "string"},
                "status": {"type": "string", "enum": ["Pending", "Interview", "Accepted", "Rejected"]},
                "date": {"type": "string"},
                "user": {"$ref": "#/definitions/models.User"},
                "company": {"$ref": "#/definitions/models.Company"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Job Board API",
	Description:      "Regional job board: companies post jobs, job seekers apply.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

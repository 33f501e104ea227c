package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(r *gin.Engine) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>taskhive — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document covering the endpoints clients integrate against.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "taskhive", "version": "v0.1.0" },
  "paths": {
    "/api/auth/signin": {
      "post": {
        "summary": "Sign in with username/password or an OIDC id_token",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"mode":{"type":"string"},"username":{"type":"string"},"password":{"type":"string"},"idToken":{"type":"string"}}}}}},
        "responses": { "200": { "description": "access token and profile" }, "401": { "description": "bad credentials" } }
      }
    },
    "/api/auth/status": {
      "get": { "summary": "Report the caller's account status", "responses": { "200": { "description": "ACTIVE or INACTIVE" }, "401": { "description": "token invalid, expired or revoked" } } }
    },
    "/api/auth/signout": {
      "post": { "summary": "Revoke the presented access token", "responses": { "200": { "description": "signed out" } } }
    },
    "/api/me": {
      "get": { "summary": "Get the caller's profile", "responses": { "200": { "description": "user" } } }
    },
    "/api/users": {
      "get": { "summary": "List users (admin)", "responses": { "200": { "description": "users" }, "403": { "description": "not an admin" } } },
      "post": { "summary": "Create a user (admin)", "responses": { "201": { "description": "created" } } }
    },
    "/api/projects": {
      "get": { "summary": "List projects visible to the caller", "responses": { "200": { "description": "projects" } } },
      "post": { "summary": "Create a project (admin/manager)", "responses": { "201": { "description": "created" } } }
    },
    "/api/projects/{id}/tasks": {
      "get": { "summary": "List tasks in a project", "responses": { "200": { "description": "tasks" } } },
      "post": { "summary": "Create a task", "responses": { "201": { "description": "created" } } }
    },
    "/api/tasks/{id}/comments": {
      "get": { "summary": "List task comments", "responses": { "200": { "description": "comments" } } },
      "post": { "summary": "Add a comment", "responses": { "201": { "description": "created" } } }
    },
    "/api/tasks/{id}/attachments": {
      "post": { "summary": "Upload a file attachment (multipart)", "responses": { "201": { "description": "created" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`

// Package docs registers the OpenAPI document served under /swagger/.
// Regenerate with: swag init -g cmd/server/main.go
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
        "/auth/signup": {"post": {"tags": ["auth"], "summary": "Sign up a new user", "responses": {"201": {"description": "Created"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "OK"}}}},
        "/admin/login": {"post": {"tags": ["admin"], "summary": "Admin portal log in", "responses": {"200": {"description": "OK"}}}},
        "/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Current user profile", "responses": {"200": {"description": "OK"}}}},
        "/me/customer": {"put": {"security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Create or update the customer record", "responses": {"200": {"description": "OK"}}}},
        "/me/bookings": {"get": {"security": [{"BearerAuth": []}], "tags": ["bookings"], "summary": "List own bookings", "responses": {"200": {"description": "OK"}}}},
        "/me/events": {"get": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "List own events", "responses": {"200": {"description": "OK"}}}},
        "/me/events/bookings": {"get": {"security": [{"BearerAuth": []}], "tags": ["bookings"], "summary": "List bookings on own events", "parameters": [{"name": "event_id", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/organizers/apply": {"post": {"security": [{"BearerAuth": []}], "tags": ["organizers"], "summary": "Apply to become an organizer", "responses": {"201": {"description": "Created"}}}},
        "/organizers/{id}/analytics": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Organizer analytics summary", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/organizers/{id}/analytics/trend": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Organizer monthly trend", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "integer", "name": "months", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/venues": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["venues"], "summary": "List own venues", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["venues"], "summary": "Create a venue", "responses": {"201": {"description": "Created"}}}
        },
        "/venues/{id}": {"put": {"security": [{"BearerAuth": []}], "tags": ["venues"], "summary": "Update a venue", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/events": {
            "get": {"tags": ["events"], "summary": "List upcoming events", "parameters": [{"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "page_size", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Create a new event", "responses": {"201": {"description": "Created"}}}
        },
        "/events/{id}": {
            "get": {"tags": ["events"], "summary": "Get an event by ID", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Update an event", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/events/{id}/publish": {"post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Publish a draft event", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/events/{id}/cancel": {"post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Cancel an event", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/events/{id}/bookings": {"post": {"security": [{"BearerAuth": []}], "tags": ["bookings"], "summary": "Book tickets", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "409": {"description": "rule_violation"}}}},
        "/events/{id}/bookings.csv": {"get": {"security": [{"BearerAuth": []}], "produces": ["text/csv"], "tags": ["bookings"], "summary": "Export attendees as CSV", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "CSV file"}}}},
        "/bookings/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["bookings"], "summary": "Booking receipt", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/bookings/{id}/cancel": {"post": {"security": [{"BearerAuth": []}], "tags": ["bookings"], "summary": "Cancel a booking", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/admin/dashboard": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Admin dashboard counts", "responses": {"200": {"description": "OK"}}}},
        "/admin/admins": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "List admin accounts", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Create an admin account", "responses": {"201": {"description": "Created"}}}
        },
        "/admin/organizers": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "List organizers by status", "parameters": [{"type": "string", "name": "status", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/admin/organizers/{id}/approve": {"post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Approve an organizer", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/admin/organizers/{id}/reject": {"post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Reject an organizer", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/assistant/chat": {"post": {"tags": ["assistant"], "summary": "Ask the assistant", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Event Booking API",
	Description:      "Event listings, ticket booking, organizer analytics and an assistant over the same data.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

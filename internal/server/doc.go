// Package server implements the HTTP surface using the Echo framework.
//
// Routes: live subscriptions (WebSocket), one-shot search and channel lookup
// (JSON API), health, metrics, version. Handlers split by concern:
// handlers_ws.go, handlers_api.go, handlers_health.go.
package server

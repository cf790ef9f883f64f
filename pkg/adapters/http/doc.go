// Package http connects peek to net/http servers.
//
// Middleware makes the Request transport and the QueryParam gate work inside
// handlers and injects the collected console scripts into HTML responses.
// NewSettingsHandler exposes the enablement flag over a small JSON API.
package http

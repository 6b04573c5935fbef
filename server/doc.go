// Package server exposes an engine over HTTP and over MCP.
//
// The HTTP API serves /ask, /reindex, /debug/sample and /health with JSON
// bodies. Every request gets an X-Request-ID, an access log line and panic
// recovery. The MCP server offers the same questions and samples as tools
// over stdio.
package server

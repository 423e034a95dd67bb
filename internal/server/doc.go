// Package server provides the MCP server context, session management,
// and HTTP transport for the fixetime application.
//
// # Key Components
//
// ServerContext manages Google API clients with lazy initialization and caching.
// It supports multiple accounts (work, personal, ...) and also carries the
// triage rule set and scheduling configuration shared by all tools.
//
// HTTPServer serves the MCP protocol over streamable HTTP next to Kubernetes
// health probes (/healthz, /readyz). Request metrics and traces are recorded
// through the instrumentation package when configured.
//
// SessionIDManager handles multi-account session tracking for HTTP transport.
// It maps Bearer tokens to Google accounts, enabling multiple users to share
// a single MCP server instance.
//
// MetricsServer exposes Prometheus metrics on a dedicated port, isolated from
// the main application traffic.
package server

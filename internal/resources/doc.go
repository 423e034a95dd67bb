// Package resources provides MCP resources for exposing configuration and
// session data. Resources are read-only data sources that MCP clients can
// fetch, such as the active triage rule set, the scheduling configuration,
// and the current user's profile.
package resources

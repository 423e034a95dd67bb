// Package google provides OAuth2 authentication and token management for Google APIs.
//
// Tokens are stored per account under the user cache directory, so a single
// installation can serve several Google accounts (work, personal, ...).
//
// The TokenProvider interface allows different token sources to be plugged in,
// keeping the API clients independent of where tokens come from.
package google

// Package api contains the HTTP handlers for the learning API: account
// registration and login, the gated level overview, course metadata and
// progress reads, and the review-session lifecycle. Handlers decode and
// validate requests, call into the services, and map service errors to
// HTTP status codes; they hold no domain logic of their own.
package api

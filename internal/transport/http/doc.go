// Package http provides the chi HTTP handlers serving the dashboard API.
// Handlers validate query parameters, delegate to the service layer, and
// render JSON responses; all failures go through the central RFC 7807
// error handler.
package http

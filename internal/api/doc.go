// Package api contains the HTTP handlers, request/response models, and
// error mapping for the public JSON surface. Handlers hold their stores and
// services as interfaces; wiring happens in cmd/server.
package api

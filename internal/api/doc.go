// Package api contains the HTTP handlers, request/response models and
// error mapping of the JSON API.
package api

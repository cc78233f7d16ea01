// Package service implements the application's use cases on top of the
// store, auth and mail layers: account lifecycle, task editing and per-user
// settings. Services own transactions and error taxonomy; handlers above
// them only translate to and from HTTP.
package service

// Package domain contains the core entities of the application: users,
// tasks, and per-user settings, together with their validation rules and the
// error values shared across layers. It has no dependencies on storage or
// transport concerns.
package domain

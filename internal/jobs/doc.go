// Package jobs provides a small in-process background job runner used to
// move slow side effects, chiefly SMTP delivery, off the request path.
package jobs

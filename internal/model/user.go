// Package model defines the data structures used throughout the application.
package model

// User is the administrator identity returned by the hosted auth service on
// a successful sign-in.
//
// The service owns the full user record (password hash, metadata, audit
// fields); we only carry the two fields the admin panel needs: the opaque
// identifier and the email shown in the page header. The record lives in the
// session store for the lifetime of the session and is never persisted
// locally.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

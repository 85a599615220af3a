// Package authz is the static authorization model: which role may open
// which view, see which records and make which change.
//
// Everything here is pure. The caller identity is passed in explicitly as a
// Caller and nothing reads storage or the current session.
package authz

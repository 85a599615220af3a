// Package services holds brimon's application services.
//
// AuthService owns credentials and the login session. The record services
// (tasks, orders, users, projects, dashboard) take an explicit authz.Caller
// on every call and refuse with common.ErrAccessDenied when the caller's
// role does not allow the operation.
package services

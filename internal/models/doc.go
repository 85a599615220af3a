// Package models defines the records brimon stores: users and their roles,
// the login session, tasks, material orders and projects, plus the
// whole-store Document used for dump/restore.
//
// Every record has a Validate method that repositories call before writing,
// so malformed shapes are rejected at the persistence boundary instead of
// spreading through the program.
package models

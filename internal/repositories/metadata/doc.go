// Package metadata stores small key/value blobs for the local client, such
// as the signed session token.
package metadata

package common

// SessionMetadataKey is the metadata key under which the signed session
// token is stored.
const SessionMetadataKey = "session"

// DefaultSeedPassword is assigned to seeded users that have no credential yet.
const DefaultSeedPassword = "Password!2026"

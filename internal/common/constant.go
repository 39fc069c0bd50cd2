// Package common contains shared constants and sentinel errors used across
// the maya-cli layers.
package common

// SessionKey is the single storage key under which the current user/session
// record is persisted. The session store never holds more than this one
// record.
const SessionKey = "current_user"

// RequestIDHeaderName carries a per-request correlation id so client calls
// can be matched with backend logs.
const RequestIDHeaderName = "X-Request-Id"

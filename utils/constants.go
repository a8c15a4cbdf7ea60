package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// AccessTokenTTLSeconds is the time-to-live for access tokens in seconds (86400 seconds = 24 hours)
	AccessTokenTTLSeconds = 86400
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Simulation constants
const (
	// MinPersonaCount is the smallest audience a target group may request
	MinPersonaCount = 1

	// MaxPersonaCount is the largest audience a target group may request
	MaxPersonaCount = 100

	// DefaultPersonaCount is used when a target group omits the count
	DefaultPersonaCount = 5

	// ErrorBodyLimit caps how much of an upstream error body is kept
	// in simulation error messages
	ErrorBodyLimit = 500
)

// Pagination constants
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ContextKey is the type for request-scoped context values
type ContextKey string

// Request-scoped context keys for observability
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	CancelFuncKey ContextKey = "cancel_func"
)

package utils

import (
	"time"
)

// Context keys set by handlers on every request context
type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserAgentKey contextKey = "user_agent"
	IPAddressKey contextKey = "ip_address"
	EndpointKey  contextKey = "endpoint"
	TimeoutKey   contextKey = "timeout"
)

// Cache constants
const (
	// CacheURINamespace prefixes the hash of a page URI when addressing its cached tag markup
	CacheURINamespace = "itpmeta:uri"

	// DefaultRenderCacheTTL is used when the cache config does not set a TTL
	DefaultRenderCacheTTL = 1 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Tag content constants
const (
	// ContentPlaceholder is replaced by the tag content when rendering a tag template
	ContentPlaceholder = "{CONTENT}"

	// MetaDescMaxLength bounds generated meta descriptions, in runes
	MetaDescMaxLength = 160
)

package constants

import (
	"time"
)

// Content store defaults
const (
	// DefaultAPIBaseURL - GitHub REST endpoint for the contents API.
	DefaultAPIBaseURL = "https://api.github.com"

	// DefaultRawBaseURL - direct-fetch host used when the API response
	// carries no download_url (e.g. optimistically inserted entries).
	DefaultRawBaseURL = "https://raw.githubusercontent.com"

	// DefaultBranch - branch every read and write is pinned to.
	DefaultBranch = "main"

	// FolderPlaceholderName - zero-byte file written inside a new folder so
	// the store tracks it. The backing store has no empty-directory concept,
	// so this entry stands in for the folder and must never be shown in a
	// listing.
	FolderPlaceholderName = ".gitkeep"
)

// Refresh loop timing
const (
	// RefreshInterval - how often the listing cache re-fetches the current
	// directory while the session is idle.
	RefreshInterval = 5 * time.Second

	// ScrollQuietWindow - a scheduled refresh is suppressed until this long
	// after the last reported scroll. Replacing the listing mid-scroll
	// relocates whatever the user is looking at.
	ScrollQuietWindow = 2 * time.Second

	// InteractionQuietWindow - same idea for any other tracked interaction
	// (menu hover, drag, keypress).
	InteractionQuietWindow = 3 * time.Second
)

// HTTP client configuration
const (
	// HTTPDialTimeout - TCP connect timeout
	HTTPDialTimeout = 10 * time.Second

	// HTTPDialKeepAlive - keep-alive probe interval for pooled connections
	HTTPDialKeepAlive = 30 * time.Second

	// HTTPIdleConnTimeout - how long idle pooled connections are kept
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - TLS handshake deadline
	HTTPTLSHandshakeTimeout = 10 * time.Second

	// HTTPExpectContinueTimeout - wait for a 100-continue response
	HTTPExpectContinueTimeout = 1 * time.Second

	// HTTPRequestTimeout - overall per-request deadline for API calls.
	// Uploads of large blobs dominate this; the contents API rejects
	// anything over ~50 MB anyway.
	HTTPRequestTimeout = 300 * time.Second
)

// Retry configuration for API calls
const (
	// RetryMax - maximum retry attempts on transient failures
	RetryMax = 5

	// RetryWaitMin - initial backoff delay
	RetryWaitMin = 1 * time.Second

	// RetryWaitMax - backoff cap
	RetryWaitMax = 30 * time.Second
)

// Contents API rate limiting.
//
// GitHub allows 5000 authenticated requests/hour (~1.39 req/sec) plus
// stricter secondary limits on rapid content mutations. The limiter targets
// 80% of the primary limit with a burst bucket large enough for an
// interactive session's startup (initial listing plus a handful of probes).
const (
	// StoreRatePerSec - steady-state request rate (80% of 5000/hour)
	StoreRatePerSec = 1.1

	// StoreBurstCapacity - bucket size; allows roughly a minute of rapid
	// operations before throttling to the steady rate
	StoreBurstCapacity = 60
)

// Concurrency limits for batch CLI operations
const (
	// DefaultMaxConcurrent - default parallel transfers for multi-file
	// upload/download
	DefaultMaxConcurrent = 4

	// MinMaxConcurrent / MaxMaxConcurrent - accepted --max-concurrent range
	MinMaxConcurrent = 1
	MaxMaxConcurrent = 16
)

// Admin record validation bounds (mirrors the mobile app's expectations)
const (
	// MinUsernameLen - shortest accepted account name
	MinUsernameLen = 3

	// MinPasswordLen - shortest accepted account password
	MinPasswordLen = 4

	// MinNotificationTitleLen - shortest accepted broadcast title
	MinNotificationTitleLen = 3

	// MinNotificationBodyLen - shortest accepted broadcast description
	MinNotificationBodyLen = 10

	// GeneratedPasswordLen - length of generated account passwords
	GeneratedPasswordLen = 8
)

// Event System
const (
	// EventBusDefaultBuffer - channel buffer per subscriber; slow consumers
	// drop events rather than block mutation operations
	EventBusDefaultBuffer = 256
)

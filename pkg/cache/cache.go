// Package cache stores analysis results and rendered artifacts between runs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// # Keys
//
// Every key is derived from the content hash of the serialized graph plus the
// options that influence the cached value, so editing a registry or changing
// a threshold never serves a stale result. [Keyer] centralizes the key
// layout; [ScopedKeyer] adds a namespace prefix.
//
// Cache errors are never fatal to a run: callers treat a failed Get as a miss
// and ignore failed writes.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as (nil, false, nil), not as an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// TTLs per cached value type.
const (
	TTLAnalysis = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Key types reported to observability hooks.
const (
	KeyTypeAnalysis = "analysis"
	KeyTypeArtifact = "artifact"
)

// AnalysisKeyOpts are the options that change analysis results.
type AnalysisKeyOpts struct {
	MaxFanOut int `json:"max_fan_out"`
	MaxChains int `json:"max_chains"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Kind      string `json:"kind"`   // "diagram" or "report"
	Format    string `json:"format"` // mermaid, dot, svg, text, json
	Direction string `json:"direction,omitempty"`
	Detailed  bool   `json:"detailed,omitempty"`
	Title     string `json:"title,omitempty"`
	TopN      int    `json:"top_n,omitempty"`
	MaxFanOut int    `json:"max_fan_out,omitempty"`
	MaxChains int    `json:"max_chains,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// AnalysisKey is the key of the analysis results for a graph.
	AnalysisKey(graphHash string, opts AnalysisKeyOpts) string

	// ArtifactKey is the key of one rendered artifact for a graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unprefixed keys of the form
// "<type>:<graph hash prefix>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AnalysisKey implements Keyer.
func (DefaultKeyer) AnalysisKey(graphHash string, opts AnalysisKeyOpts) string {
	return graphKey(KeyTypeAnalysis, graphHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return graphKey(KeyTypeArtifact, graphHash, opts)
}

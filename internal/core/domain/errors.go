// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	// Query errors
	ErrInvalidQuery    = errors.New("invalid news query")
	ErrInvalidPageSize = errors.New("page size must be positive")

	// Article errors
	ErrInvalidArticle  = errors.New("invalid article")
	ErrUnscoredArticle = errors.New("article escaped the pipeline without scores")

	// Source errors
	ErrSourceNotFound    = errors.New("source not found")
	ErrMissingCredential = errors.New("missing_config")
	ErrSourceTimeout     = errors.New("source call timed out")
	ErrEmptyUpstreamBody = errors.New("upstream returned empty body")

	// Pipeline errors
	ErrNoSourcesConfigured = errors.New("no sources configured")
	ErrAllSourcesFailed    = errors.New("all sources failed")
	ErrAggregationFailed   = errors.New("aggregation stage failed")

	// Ad selection errors
	ErrNetworkNotFound    = errors.New("ad network not found")
	ErrNoNetworksEnabled  = errors.New("no ad networks enabled")
	ErrAllNetworksFailed  = errors.New("all ad networks failed")
	ErrNoFillForPlacement = errors.New("network returned no fill")
)

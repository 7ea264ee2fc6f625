package api

import "github.com/3GHCRE/atlas-sub000/internal/domain"

// Service interfaces consumed by handlers; canonical definitions live in domain.
type (
	NetworkService = domain.NetworkService
	HealthChecker  = domain.HealthChecker
)

package integration

import "errors"

var (
	// Configuration errors
	ErrStoreNotConfigured = errors.New("integration: store configuration missing")
	ErrNotConfigured      = errors.New("integration: platform not configured")

	// Authentication errors
	ErrTokenUnavailable = errors.New("integration: authentication unavailable")
	ErrTokenExpired     = errors.New("integration: access token expired")

	// Platform errors
	ErrPlatformUnavailable     = errors.New("integration: platform temporarily unavailable")
	ErrPlatformRequestFailed   = errors.New("integration: platform request failed")
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")
	ErrPlatformRateLimited     = errors.New("integration: platform rate limited")

	// Mapping errors
	ErrMappingFailed = errors.New("integration: entity mapping failed")

	// Sync errors
	ErrUnknownModule    = errors.New("integration: unknown sync module")
	ErrInvalidDirection = errors.New("integration: invalid sync direction")
	ErrSyncInProgress   = errors.New("integration: a sync is already in progress")
)

package config

const (
	ErrInitializeDatabaseFmt = "Failed to initialize database: %v"
	ErrCreateProviderFmt     = "Failed to create provider: %v"
	ErrCreateAssetBackendFmt = "Failed to create asset backend: %v"
	ErrInternalServerError   = "Internal server error"
	ErrUnauthorized          = "Unauthorized"
	ErrDraftSession          = "Draft session unavailable"
)

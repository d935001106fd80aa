package config

const (
	HCType        = "Content-Type"
	HCacheControl = "Cache-Control"

	CTypeCSS  = "text/css"
	CTypeHTML = "text/html; charset=utf-8"
	CTypeJSON = "application/json"
)

const (
	CookieDraftId = "draft-id"
)

// Multipart form field carrying the post image on submit.
const FormImage = "image"

const MaxUploadBytes = 10 << 20

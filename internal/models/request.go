package models

import "selfie-filter-backend/internal/filters"

type CreatePhotoRequest struct {
	Name string `json:"nome"`
	Path string `json:"caminho"`
}

// UploadBase64Request is the inline variant of the upload for clients
// without multipart support. Image is a data URI or bare base64.
type UploadBase64Request struct {
	Name   string `json:"nome"`
	Filter string `json:"filtro"`
	// Optional placement computed by the client; used instead of the catalog.
	FilterConfig *filters.Descriptor `json:"filterConfig,omitempty"`
	Image        string              `json:"imagem"`
}

// UpdatePhotoRequest only accepts a real JSON boolean; a pointer tells
// "missing" apart from false.
type UpdatePhotoRequest struct {
	Favorite *bool `json:"favorita"`
}

type ErrorResponse struct {
	Error   string `json:"erro"`
	Message string `json:"mensagem,omitempty"`
}

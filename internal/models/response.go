package models

import "selfie-filter-backend/internal/filters"

// PhotoWithURL is a list entry annotated with the absolute image URL.
type PhotoWithURL struct {
	Photo
	URL string `json:"caminhoUrl"`
}

type DeletePhotoResponse struct {
	Message string `json:"mensagem"`
	Photo   Photo  `json:"foto"`
}

type FiltersResponse struct {
	Version int                           `json:"version"`
	Default filters.Descriptor            `json:"default"`
	Filters map[string]filters.Descriptor `json:"filters"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

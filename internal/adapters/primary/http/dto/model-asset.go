package dto

import (
	"time"

	"model-asset-service/internal/core/domain"
)

// Microsecond precision, UTC rendered as "Z".
const timeFormat = "2006-01-02T15:04:05.000000Z07:00"

type ModelAssetResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ModelFile   string  `json:"model_file"`
	Thumbnail   *string `json:"thumbnail"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	FileSize    int64   `json:"file_size"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ToModelAssetResponse renders a, turning blob keys into URLs with fileURL.
func ToModelAssetResponse(a *domain.ModelAsset, fileURL func(key string) string) ModelAssetResponse {
	resp := ModelAssetResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		ModelFile:   fileURL(a.ModelFile),
		CreatedAt:   formatTime(a.CreatedAt),
		UpdatedAt:   formatTime(a.UpdatedAt),
		FileSize:    a.FileSize,
	}
	if a.Thumbnail != nil {
		u := fileURL(*a.Thumbnail)
		resp.Thumbnail = &u
	}
	return resp
}

func ToModelAssetResponses(assets []*domain.ModelAsset, fileURL func(key string) string) []ModelAssetResponse {
	items := make([]ModelAssetResponse, 0, len(assets))
	for _, a := range assets {
		items = append(items, ToModelAssetResponse(a, fileURL))
	}
	return items
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

package dto

import "jokehub/internal/http-api/models"

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func CategoryFromModel(c models.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name}
}

func CategoriesFromModels(cats []models.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryFromModel(c))
	}
	return out
}

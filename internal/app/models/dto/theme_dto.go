package dto

import "github.com/yigit/nnpgpt/internal/app/models"

// ThemeRequest stores a client's preference
type ThemeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=light dark"`
}

// ThemeResponse reports a client's preference
type ThemeResponse struct {
	ClientID string           `json:"clientId"`
	Mode     models.ThemeMode `json:"mode"`
}

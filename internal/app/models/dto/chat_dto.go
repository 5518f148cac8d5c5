package dto

import "github.com/yigit/nnpgpt/internal/app/models"

// ChatRequest is one user prompt
type ChatRequest struct {
	Prompt    string `json:"prompt" binding:"required,max=8000"`
	DeepStudy bool   `json:"deepStudy"`
}

// ChatResponse is the assistant reply plus the usage after recording it
type ChatResponse struct {
	Message models.Message    `json:"message"`
	Usage   models.UsageStats `json:"usage"`
}

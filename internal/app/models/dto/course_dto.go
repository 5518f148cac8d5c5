package dto

import "github.com/yigit/nnpgpt/internal/app/models"

// CourseListResponse is one page of the course catalog
type CourseListResponse struct {
	Courses    []models.Course `json:"courses"`
	Pagination PaginationInfo  `json:"pagination"`
}

// CourseDetailResponse is a course together with its institutional vault
type CourseDetailResponse struct {
	Course models.Course         `json:"course"`
	Vault  []models.FileMetadata `json:"vault"`
}

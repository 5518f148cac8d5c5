package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/nnpgpt/internal/app/services"
	"github.com/yigit/nnpgpt/internal/middleware"
	"github.com/yigit/nnpgpt/internal/pkg/helpers"
)

// CourseController serves the course catalog
type CourseController struct {
	courseService *services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// ListCourses handles retrieving one page of courses
// @Summary List courses
// @Tags courses
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20)"
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse}
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.courseService.ListCourses(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// GetCourse returns a course and its vault
func (c *CourseController) GetCourse(ctx *gin.Context) {
	resp, err := c.courseService.GetCourse(ctx.Request.Context(), ctx.Param("courseId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

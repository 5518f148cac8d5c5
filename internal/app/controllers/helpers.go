package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/nnpgpt/internal/app/models/dto"
)

// bindJSON binds the body into req and answers 400 on failure
func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

func respondOK(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

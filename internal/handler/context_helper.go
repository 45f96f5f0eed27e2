package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/testflowhq/testflow-api/internal/middleware"
	"github.com/testflowhq/testflow-api/internal/models"
	appErrors "github.com/testflowhq/testflow-api/pkg/errors"
)

func currentUser(c *gin.Context) (models.UserInfo, error) {
	user, ok := middleware.UserInfoFromContext(c)
	if !ok {
		return models.UserInfo{}, appErrors.ErrUnauthorized
	}
	return user, nil
}

func idParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name+" parameter")
	}
	return id, nil
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func int64Query(c *gin.Context, name string) int64 {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return value
}

package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/strideworks/stride-backend/internal/apierr"
)

func respondErr(c *gin.Context, err error) {
  c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
}

package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SujJR/fundchat/internal/pkg/errcode"
	"github.com/SujJR/fundchat/internal/pkg/response"
)

type StatusHandler struct {
	db *sql.DB
}

func NewStatusHandler(db *sql.DB) *StatusHandler {
	return &StatusHandler{db: db}
}

func (h *StatusHandler) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		response.Error(c, errcode.ErrInternal, "database unreachable")
		return
	}
	response.Success(c, gin.H{
		"status":   "ok",
		"database": "connected",
	})
}

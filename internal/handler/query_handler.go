package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/SujJR/fundchat/internal/pkg/errcode"
	"github.com/SujJR/fundchat/internal/pkg/response"
	"github.com/SujJR/fundchat/internal/service"
)

type QueryHandler struct {
	query *service.QueryService
}

func NewQueryHandler(query *service.QueryService) *QueryHandler {
	return &QueryHandler{query: query}
}

type queryRequest struct {
	FundID      string   `json:"fund_id"`
	Question    string   `json:"question"`
	TopK        int      `json:"top_k"`
	DocumentIDs []string `json:"document_ids"`
}

func (h *QueryHandler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request body")
		return
	}
	if req.FundID == "" {
		response.Error(c, errcode.ErrInvalid, "fund_id is required")
		return
	}
	result, err := h.query.Query(c.Request.Context(), service.QueryRequest{
		FundID:   req.FundID,
		Question: req.Question,
		TopK:     req.TopK,
		DocIDs:   req.DocumentIDs,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

type chatRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

func (h *QueryHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request body")
		return
	}
	result, err := h.query.Chat(c.Request.Context(), c.Param("id"), req.Question, req.TopK)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/SujJR/fundchat/internal/model"
	"github.com/SujJR/fundchat/internal/pkg/response"
	"github.com/SujJR/fundchat/internal/service"
)

type FundHandler struct {
	funds  *service.FundService
	ingest *service.IngestService
}

func NewFundHandler(funds *service.FundService, ingest *service.IngestService) *FundHandler {
	return &FundHandler{funds: funds, ingest: ingest}
}

// Upload creates a fund from a multipart form carrying `fund_name` and
// one or more `files` parts.
func (h *FundHandler) Upload(c *gin.Context) {
	files, err := readUploadFiles(c)
	if err != nil {
		handleError(c, err)
		return
	}
	fund, statuses, err := h.ingest.CreateFundFromFiles(c.Request.Context(), c.PostForm("fund_name"), files)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"fund":  fund,
		"files": statuses,
	})
}

func (h *FundHandler) List(c *gin.Context) {
	funds, err := h.funds.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	if funds == nil {
		funds = []model.Fund{}
	}
	response.Success(c, funds)
}

func (h *FundHandler) Get(c *gin.Context) {
	fund, err := h.funds.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, fund)
}

func (h *FundHandler) Delete(c *gin.Context) {
	if err := h.funds.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

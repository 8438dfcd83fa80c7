package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/SujJR/fundchat/internal/filestore"
	"github.com/SujJR/fundchat/internal/model"
	"github.com/SujJR/fundchat/internal/pkg/response"
	"github.com/SujJR/fundchat/internal/service"
)

type DocumentHandler struct {
	funds  *service.FundService
	ingest *service.IngestService
	store  filestore.Store
}

func NewDocumentHandler(funds *service.FundService, ingest *service.IngestService, store filestore.Store) *DocumentHandler {
	return &DocumentHandler{funds: funds, ingest: ingest, store: store}
}

// Add indexes more files into an existing fund.
func (h *DocumentHandler) Add(c *gin.Context) {
	files, err := readUploadFiles(c)
	if err != nil {
		handleError(c, err)
		return
	}
	statuses, err := h.ingest.AddDocuments(c.Request.Context(), c.Param("id"), files)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"files": statuses})
}

func (h *DocumentHandler) ListByFund(c *gin.Context) {
	docs, err := h.funds.ListDocuments(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	if docs == nil {
		docs = []model.Document{}
	}
	response.Success(c, docs)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.funds.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, doc)
}

// Download streams the stored upload back as raw bytes. Stored keys are
// the document id plus the original file extension.
func (h *DocumentHandler) Download(c *gin.Context) {
	doc, err := h.funds.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	key := doc.ID + filepath.Ext(doc.FileName)
	file, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer file.Close()
	contentType := mime.TypeByExtension(filepath.Ext(doc.FileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	_, _ = io.Copy(c.Writer, file)
}

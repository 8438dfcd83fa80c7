package handler

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/SujJR/fundchat/internal/ai"
	"github.com/SujJR/fundchat/internal/pkg/errcode"
	appErr "github.com/SujJR/fundchat/internal/pkg/errors"
	"github.com/SujJR/fundchat/internal/pkg/response"
	"github.com/SujJR/fundchat/internal/service"
)

const maxUploadBytes = 32 * 1024 * 1024

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	switch {
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalidFile):
		response.Error(c, errcode.ErrInvalidFile, err.Error())
	case errors.Is(err, appErr.ErrEmptyContent):
		response.Error(c, errcode.ErrEmptyContent, err.Error())
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, err.Error())
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, errcode.ErrConflict, "conflict")
	case errors.Is(err, appErr.ErrFilterMismatch):
		response.Error(c, errcode.ErrFilterMismatch, err.Error())
	case errors.Is(err, appErr.ErrSynthesis):
		response.Error(c, errcode.ErrSynthesis, "answer synthesis failed")
	case errors.Is(err, appErr.ErrIndexWrite):
		response.Error(c, errcode.ErrIndexWrite, "index write failed")
	case errors.Is(err, ai.ErrUnavailable):
		response.Error(c, errcode.ErrAIUnavailable, "ai provider unavailable")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}

func readUploadFiles(c *gin.Context) ([]service.UploadFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrInvalid, err)
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: no files uploaded", appErr.ErrInvalid)
	}
	files := make([]service.UploadFile, 0, len(headers))
	for _, header := range headers {
		if header.Size > maxUploadBytes {
			return nil, fmt.Errorf("%w: %s exceeds the %s upload limit",
				appErr.ErrInvalid, header.Filename, formatUploadLimit(maxUploadBytes))
		}
		src, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", appErr.ErrInvalid, header.Filename, err)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", appErr.ErrInvalid, header.Filename, err)
		}
		files = append(files, service.UploadFile{
			Name: filepath.Base(header.Filename),
			Data: data,
		})
	}
	return files, nil
}

package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/pa-ews-api/pkg/errors"
)

// openUpload fetches one multipart file field and enforces the size cap.
func openUpload(c *gin.Context, field string, maxBytes int64) (io.ReadCloser, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("missing %q upload", field))
	}
	return openUploadHeader(fileHeader, maxBytes)
}

func openUploadHeader(fileHeader *multipart.FileHeader, maxBytes int64) (io.ReadCloser, error) {
	if maxBytes > 0 && fileHeader.Size > maxBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file %s exceeds the %d byte limit", fileHeader.Filename, maxBytes))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unreadable upload")
	}
	return file, nil
}

// queryInt parses an optional integer query param. An absent param
// yields the fallback; a present but malformed value is a validation
// error, matching how the enum params are handled.
func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be an integer", name))
	}
	return value, nil
}

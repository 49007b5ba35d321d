package api

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/service"
)

// pathID parses a uuid path parameter and answers 400 when it is malformed.
func pathID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + label + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// readUpload loads one multipart file, refusing anything over limit bytes.
func readUpload(fh *multipart.FileHeader, limit int64) (service.Upload, error) {
	if fh.Size > limit {
		return service.Upload{}, &service.ValidationError{Field: fh.Filename, Message: "file too large"}
	}
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return service.Upload{}, err
	}
	if int64(len(data)) > limit {
		return service.Upload{}, &service.ValidationError{Field: fh.Filename, Message: "file too large"}
	}
	return service.Upload{Name: fh.Filename, Data: data}, nil
}

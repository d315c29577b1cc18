package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtrack/internal/services"
)

// multipartOverhead is headroom above MaxDocumentSize for the multipart framing.
const multipartOverhead = 1 << 20

type DocumentHandler struct {
	Documents DocumentStore
}

func NewDocumentHandler(documents DocumentStore) *DocumentHandler {
	return &DocumentHandler{Documents: documents}
}

// ListDocuments is the GET /applications/:id/documents endpoint
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	docs, err := h.Documents.List(c.Request.Context(), id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// UploadDocument is the POST /applications/:id/documents endpoint. The PDF comes in
// the multipart field "file".
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxDocumentSize+multipartOverhead)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File size must be 10MB or less"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	doc, err := h.Documents.Upload(c.Request.Context(), id, currentUser(c), services.DocumentUpload{
		FileName:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// DeleteDocument is the DELETE /documents/:id endpoint
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Documents.Delete(c.Request.Context(), id, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

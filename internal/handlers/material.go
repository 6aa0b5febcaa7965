package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studypilot/studypilot-backend/internal/logger"
	"github.com/studypilot/studypilot-backend/internal/services"
)

type MaterialHandler struct {
	log             *logger.Logger
	materialService services.MaterialService
}

func NewMaterialHandler(log *logger.Logger, materialService services.MaterialService) *MaterialHandler {
	return &MaterialHandler{
		log:             log.With("handler", "MaterialHandler"),
		materialService: materialService,
	}
}

// POST /api/materials — multipart upload with optional subject_id field.
func (mh *MaterialHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "a file is required", "code": "validation_error"}})
		return
	}

	var subjectID *uuid.UUID
	if raw := c.PostForm("subject_id"); raw != "" {
		parsed, pErr := uuid.Parse(raw)
		if pErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid subject_id", "code": "validation_error"}})
			return
		}
		subjectID = &parsed
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "could not read uploaded file", "code": "validation_error"}})
		return
	}
	defer file.Close()

	material, err := mh.materialService.UploadMaterial(c.Request.Context(), userID, subjectID, services.UploadedFileInfo{
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		SizeBytes:    fileHeader.Size,
		Reader:       file,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, material)
}

// GET /api/materials
func (mh *MaterialHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	materials, err := mh.materialService.ListMaterials(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"materials": materials})
}

// DELETE /api/materials/:id
func (mh *MaterialHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	materialID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := mh.materialService.DeleteMaterial(c.Request.Context(), userID, materialID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "material deleted"})
}

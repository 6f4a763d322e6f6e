package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"commissionhub/internal/middleware"
	"commissionhub/internal/service"
	"commissionhub/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxDemoFileSize = 10 << 20
	maxAvatarSize   = 5 << 20
)

var demoFileExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".txt": true, ".zip": true, ".rar": true,
}

var avatarExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

type UploadHandler struct {
	cloud    cloudinary.Client
	profiles *service.ProfileService
	folder   string
	log      *zap.Logger
}

// NewUploadHandler returns a handler; a nil cloud client makes every upload answer 503.
func NewUploadHandler(cloud cloudinary.Client, profiles *service.ProfileService, folder string, log *zap.Logger) *UploadHandler {
	return &UploadHandler{cloud: cloud, profiles: profiles, folder: folder, log: log}
}

func publicID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}

// UploadDemoFile stores a seller's demo file and returns its URL for a later demo submission.
func (h *UploadHandler) UploadDemoFile(c *gin.Context) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "file uploads are not configured"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	if file.Size > maxDemoFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 10MB)"})
		return
	}
	if !demoFileExtensions[strings.ToLower(filepath.Ext(file.Filename))] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	folder := h.folder + "/demos/" + middleware.GetUserID(c)
	url, err := h.cloud.UploadFile(c.Request.Context(), f, folder, publicID("demo"))
	if err != nil {
		h.log.Error("demo upload failed", zap.String("user_id", middleware.GetUserID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "filename": file.Filename})
}

func (h *UploadHandler) UploadAvatar(c *gin.Context) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "file uploads are not configured"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	if file.Size > maxAvatarSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image too large (max 5MB)"})
		return
	}
	if !avatarExtensions[strings.ToLower(filepath.Ext(file.Filename))] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	folder := h.folder + "/avatars/" + middleware.GetUserID(c)
	url, _, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID("avatar"))
	if err != nil {
		h.log.Error("avatar upload failed", zap.String("user_id", middleware.GetUserID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	u, err := h.profiles.SetAvatar(c.Request.Context(), middleware.GetActor(c), url)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

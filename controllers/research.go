package controllers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"faculty-portal-api/config"
	"faculty-portal-api/models"
	"faculty-portal-api/services"
	"faculty-portal-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var researchService *services.ResearchService

func getResearchService() *services.ResearchService {
	if researchService == nil {
		researchService = services.NewResearchService(
			services.NewGormResearchRepository(config.DB),
			services.NewGormDirectory(config.DB),
			services.NewMailNotifier(config.DB),
		)
	}
	return researchService
}

func maxUploadBytes() int64 {
	mb, err := strconv.Atoi(os.Getenv("MAX_UPLOAD_MB"))
	if err != nil || mb <= 0 {
		mb = 20
	}
	return int64(mb) * 1024 * 1024
}

// CreateResearchSubmission accepts a multipart form with the manuscript and
// creates a pending submission owned by the calling student.
func CreateResearchSubmission(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		respondServiceError(c, services.ErrUnauthenticated)
		return
	}

	title := utils.SanitizeInput(c.PostForm("title"))
	abstract := utils.SanitizeInput(c.PostForm("abstract"))
	keywords := strings.Split(c.PostForm("keywords"), ",")

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Manuscript file is required"})
		return
	}

	if file.Size > maxUploadBytes() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Manuscript file is too large"})
		return
	}

	probe := models.FileUpload{MimeType: file.Header.Get("Content-Type"), FileSize: file.Size}
	if !probe.IsValidDocumentType() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Manuscript must be a PDF or Word document"})
		return
	}

	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	uploadDir := filepath.Join(uploadPath, "research")
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to prepare upload directory"})
		return
	}

	storedName := uuid.NewString() + filepath.Ext(file.Filename)
	storedPath := filepath.Join(uploadDir, storedName)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to store manuscript"})
		return
	}

	var student models.User
	if err := config.DB.Where("user_id = ?", actor.ID).First(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to resolve student profile"})
		return
	}

	result, err := getResearchService().Submit(actor, services.SubmitInput{
		Title:       title,
		Abstract:    abstract,
		Keywords:    keywords,
		FilePath:    storedPath,
		StudentName: student.FullName(),
	})
	if err != nil {
		_ = os.Remove(storedPath)
		respondServiceError(c, err)
		return
	}

	now := time.Now()
	upload := models.FileUpload{
		OriginalName: file.Filename,
		StoredPath:   storedPath,
		FileSize:     file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		UploadedBy:   actor.ID,
		UploadedAt:   now,
		CreateAt:     now,
		UpdateAt:     now,
	}
	if err := config.DB.Create(&upload).Error; err != nil {
		// The submission itself is already committed; the upload row is
		// bookkeeping only.
		log.Printf("file upload record insert failed (submission=%d): %v", result.Submission.SubmissionID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":              true,
		"submission":           result.Submission,
		"notification_warning": result.Notification.Warning(),
	})
}

// GetMyResearchSubmissions lists the calling student's submissions.
func GetMyResearchSubmissions(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		respondServiceError(c, services.ErrUnauthenticated)
		return
	}

	filter := services.ResearchFilter{StudentID: &actor.ID}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		filter.Status = status
	}

	submissions, err := getResearchService().List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetResearchSubmission returns one submission when the caller may see it.
func GetResearchSubmission(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		respondServiceError(c, services.ErrUnauthenticated)
		return
	}

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid submission ID"})
		return
	}

	submission, err := getResearchService().Get(actor, submissionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": submission,
	})
}

// DownloadManuscript streams the stored manuscript to an authorized caller.
func DownloadManuscript(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		respondServiceError(c, services.ErrUnauthenticated)
		return
	}

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid submission ID"})
		return
	}

	submission, err := getResearchService().Get(actor, submissionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if _, err := os.Stat(submission.FilePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Manuscript file not found"})
		return
	}

	c.FileAttachment(submission.FilePath, filepath.Base(submission.FilePath))
}

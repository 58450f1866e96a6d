package controllers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/wheelworks/wheelshop-api/config"
	"github.com/wheelworks/wheelshop-api/models"
	"github.com/wheelworks/wheelshop-api/services"
	"github.com/wheelworks/wheelshop-api/utils"
)

// requireAttachmentService fetches the attachment service, or answers 503
// when S3 was never configured (AWS_S3_BUCKET unset at boot).
func requireAttachmentService(c *gin.Context) (services.AttachmentService, bool) {
	attachmentService := services.GetAttachmentService()
	if attachmentService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOADS_DISABLED",
				"message": "Attachment storage is not configured",
			},
		})
		return nil, false
	}
	return attachmentService, true
}

// UploadAttachment handles POST /api/v1/orders/:id/attachments - uploads a
// design drawing or photo to S3 and links it to the order
func UploadAttachment(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	order, ok := findOrder(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A file is required",
			},
		})
		return
	}

	contentType, err := utils.ValidateAttachmentFile(fileHeader)
	if err != nil {
		code := "INVALID_FILE"
		if uploadErr, ok := err.(*utils.FileUploadError); ok {
			code = uploadErr.Code
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	attachmentService, ok := requireAttachmentService(c)
	if !ok {
		return
	}
	s3Key, err := attachmentService.UploadAttachment(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to upload attachment",
			},
		})
		return
	}

	attachment := models.Attachment{
		OrderID:     order.ID,
		Name:        filepath.Base(fileHeader.Filename),
		S3Key:       s3Key,
		ContentType: contentType,
	}

	db := config.GetDB()
	if err := db.Create(&attachment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save attachment",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    attachment,
	})
}

// ListAttachments handles GET /api/v1/orders/:id/attachments - lists the
// order's attachments with presigned URLs
func ListAttachments(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	order, ok := findOrder(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var attachments []models.Attachment
	if err := db.Where("order_id = ?", order.ID).Order("created_at ASC").Find(&attachments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load attachments",
			},
		})
		return
	}

	attachmentService, ok := requireAttachmentService(c)
	if !ok {
		return
	}
	for i := range attachments {
		url, err := attachmentService.GetAttachmentURL(attachments[i].S3Key)
		if err != nil {
			// Presigning one file failing should not hide the rest
			continue
		}
		attachments[i].URL = url
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    attachments,
	})
}

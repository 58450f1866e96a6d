package services

import (
	"fmt"
	"mime/multipart"

	"github.com/wheelworks/wheelshop-api/utils"
)

// AttachmentService handles order attachment upload, retrieval, and deletion
type AttachmentService interface {
	// UploadAttachment validates and uploads a file, returns the storage key
	UploadAttachment(fileHeader *multipart.FileHeader) (string, error)

	// GetAttachmentURL generates a URL for accessing an uploaded file
	GetAttachmentURL(s3Key string) (string, error)

	// DeleteAttachment removes a file from storage
	DeleteAttachment(s3Key string) error
}

// S3AttachmentService implements AttachmentService using AWS S3 for storage
type S3AttachmentService struct {
	s3Service S3Interface
}

var attachmentServiceInstance AttachmentService

// InitAttachmentService initializes the attachment service with S3 backend
func InitAttachmentService(s3Service S3Interface) AttachmentService {
	attachmentServiceInstance = &S3AttachmentService{
		s3Service: s3Service,
	}
	return attachmentServiceInstance
}

// GetAttachmentService returns the initialized attachment service instance
func GetAttachmentService() AttachmentService {
	return attachmentServiceInstance
}

// SetAttachmentService sets the attachment service instance (primarily for testing)
func SetAttachmentService(service AttachmentService) {
	attachmentServiceInstance = service
}

// UploadAttachment validates and uploads a file to S3
func (s *S3AttachmentService) UploadAttachment(fileHeader *multipart.FileHeader) (string, error) {
	// Validate format and size before any network call
	contentType, err := utils.ValidateAttachmentFile(fileHeader)
	if err != nil {
		return "", err
	}

	// Upload to S3
	s3Key, err := s.s3Service.UploadFile(fileHeader, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}

	return s3Key, nil
}

// GetAttachmentURL generates a presigned URL for accessing an attachment
func (s *S3AttachmentService) GetAttachmentURL(s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(s3Key)
	if err != nil {
		return "", fmt.Errorf("failed to generate attachment URL: %w", err)
	}

	return url, nil
}

// DeleteAttachment deletes an attachment from S3
func (s *S3AttachmentService) DeleteAttachment(s3Key string) error {
	if s3Key == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(s3Key); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	return nil
}

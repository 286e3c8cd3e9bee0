package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/Alexandre11021998/Zelo/internal/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	maxLogoSize     = 5 << 20  // 5MB
	maxDocumentSize = 10 << 20 // 10MB
	logoMaxDim      = 512
)

var (
	logoExtensions     = []string{".jpg", ".jpeg", ".png", ".webp"}
	documentExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".pdf"}
)

// UploadService grava logos de hospitais e documentos de pré-check-in
type UploadService struct {
	storage storage.Driver
}

func NewUploadService(driver storage.Driver) *UploadService {
	return &UploadService{storage: driver}
}

// SaveHospitalLogo valida, redimensiona e grava o logo do hospital.
// O logo é normalizado para PNG com no máximo 512px no maior lado.
func (s *UploadService) SaveHospitalLogo(ctx context.Context, hospitalID uuid.UUID, file *multipart.FileHeader) (string, error) {
	if err := validateFile(file, maxLogoSize, logoExtensions); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return "", fmt.Errorf("arquivo não é uma imagem válida: %w", err)
	}

	// Fit mantém a proporção e só reduz quando excede o limite
	resized := imaging.Fit(img, logoMaxDim, logoMaxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode logo: %w", err)
	}

	path := fmt.Sprintf("hospitais/%s/logo.png", hospitalID)
	_, publicURL, err := s.storage.Upload(ctx, &buf, path)
	if err != nil {
		return "", err
	}

	return publicURL, nil
}

// SavePreCheckinDocument grava o documento anexado no pré-check-in
func (s *UploadService) SavePreCheckinDocument(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if err := validateFile(file, maxDocumentSize, documentExtensions); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	path := fmt.Sprintf("documentos/%s%s", uuid.New(), ext)

	_, publicURL, err := s.storage.Upload(ctx, src, path)
	if err != nil {
		return "", err
	}

	return publicURL, nil
}

// validateFile checa tamanho e extensão antes do upload
func validateFile(file *multipart.FileHeader, maxSize int64, allowed []string) error {
	if file.Size > maxSize {
		return fmt.Errorf("arquivo %s excede o tamanho máximo de %d bytes", file.Filename, maxSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	for _, allowedExt := range allowed {
		if ext == allowedExt {
			return nil
		}
	}
	return fmt.Errorf("tipo de arquivo %s não permitido", ext)
}

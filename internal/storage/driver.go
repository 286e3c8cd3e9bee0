package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Alexandre11021998/Zelo/internal/config"
)

// Driver abstrai o backend de armazenamento de logos e documentos
type Driver interface {
	// Upload grava um arquivo e retorna o caminho interno e a URL pública
	Upload(ctx context.Context, file io.Reader, path string) (storagePath string, publicURL string, err error)

	// Delete remove um arquivo
	Delete(ctx context.Context, path string) error

	// GetPublicURL retorna a URL pública de um caminho já gravado
	GetPublicURL(path string) string

	// Exists verifica se o arquivo existe
	Exists(ctx context.Context, path string) (bool, error)

	// GetReader abre o arquivo para leitura
	GetReader(ctx context.Context, path string) (io.ReadCloser, error)
}

// NewDriver creates a storage driver based on configuration
func NewDriver(cfg *config.StorageConfig) (Driver, error) {
	switch cfg.Driver {
	case "local", "":
		// Default to local storage
		uploadsPath := cfg.UploadsPath
		if uploadsPath == "" {
			uploadsPath = "./uploads"
		}
		return NewLocalStorage(uploadsPath, cfg.PublicURL), nil

	case "s3":
		return NewS3Storage(cfg)

	case "r2":
		return NewR2Storage(cfg)

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// contentType returns the MIME type based on file extension
func contentType(path string) string {
	switch {
	case strings.HasSuffix(path, ".jpg"), strings.HasSuffix(path, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	case strings.HasSuffix(path, ".webp"):
		return "image/webp"
	case strings.HasSuffix(path, ".pdf"):
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

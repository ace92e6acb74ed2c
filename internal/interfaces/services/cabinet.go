package services

import (
	"context"

	"github.com/sunr3d/cabinet-bridge/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=CabinetService --output=../../../mocks
type CabinetService interface {
	ListDirectories(ctx context.Context, creds models.Credentials) ([]models.Folder, error)
	CreateZipDownload(ctx context.Context, creds models.Credentials, folders []models.Folder) (*models.PublishedArtifact, error)
}

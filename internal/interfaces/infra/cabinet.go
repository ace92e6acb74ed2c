package infra

import (
	"context"

	"github.com/sunr3d/cabinet-bridge/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=Cabinet --output=../../../mocks
type Cabinet interface {
	ListFolders(ctx context.Context, creds models.Credentials) ([]models.Folder, error)
	ListFiles(ctx context.Context, creds models.Credentials, folderID string) ([]models.FileEntry, error)
	DownloadFile(ctx context.Context, fileURL string) ([]byte, error)
}

package cabinet_service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sunr3d/cabinet-bridge/internal/config"
	"github.com/sunr3d/cabinet-bridge/internal/interfaces/infra"
	"github.com/sunr3d/cabinet-bridge/internal/interfaces/services"
	"github.com/sunr3d/cabinet-bridge/models"
)

const zipContentType = "application/zip"

var _ services.CabinetService = (*cabinetService)(nil)

type cabinetService struct {
	cabinet infra.Cabinet
	store   infra.ObjectStore
	signer  infra.Signer
	logger  *zap.Logger
	cfg     *config.Config
	now     func() time.Time
}

func New(log *zap.Logger, cfg *config.Config, cabinet infra.Cabinet, store infra.ObjectStore, signer infra.Signer) services.CabinetService {
	return &cabinetService{
		cabinet: cabinet,
		store:   store,
		signer:  signer,
		logger:  log,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *cabinetService) ListDirectories(ctx context.Context, creds models.Credentials) ([]models.Folder, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if err := validateCredentials(creds); err != nil {
		return nil, err
	}

	folders, err := s.cabinet.ListFolders(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteAPI, err)
	}

	return folders, nil
}

func (s *cabinetService) CreateZipDownload(ctx context.Context, creds models.Credentials, folders []models.Folder) (*models.PublishedArtifact, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if err := validateCredentials(creds); err != nil {
		return nil, err
	}

	archive, stats, err := s.buildArchive(ctx, creds, folders)
	if err != nil {
		return nil, err
	}

	data, err := writeZip(archive, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveBuild, err)
	}

	artifact, err := s.publish(ctx, data)
	if err != nil {
		return nil, err
	}

	s.logger.Info("архив опубликован",
		zap.String("key", artifact.Key),
		zap.Int("folders", len(folders)),
		zap.Int("files", stats.files),
		zap.Int("skipped", stats.skipped),
		zap.Int("size", len(data)),
		zap.Time("expires_at", artifact.ExpiresAt),
	)

	return artifact, nil
}

type buildStats struct {
	files   int
	skipped int
}

type fetched struct {
	data []byte
	ok   bool
}

// buildArchive кладет файлы каждой папки в <путь папки>/<имя файла из FilePath>.
// Ошибка получения списка файлов прерывает сборку, ошибка скачивания отдельного файла нет.
func (s *cabinetService) buildArchive(ctx context.Context, creds models.Credentials, folders []models.Folder) (*models.Archive, buildStats, error) {
	archive := models.NewArchive()
	var stats buildStats

	for _, folder := range folders {
		files, err := s.cabinet.ListFiles(ctx, creds, folder.ID)
		if err != nil {
			return nil, stats, fmt.Errorf("%w: папка %s: %w", ErrRemoteAPI, folder.ID, err)
		}

		dir := strings.Trim(folder.Path, "/")
		contents := s.downloadAll(ctx, folder.ID, files)

		for i, f := range files {
			if !contents[i].ok {
				stats.skipped++
				continue
			}
			archive.Add(entryPath(dir, f), contents[i].data)
			stats.files++
		}
	}

	return archive, stats, nil
}

// downloadAll качает файлы не более чем в FetchWorkers потоков.
// Результаты лежат по индексу файла, порядок записей в архиве не зависит от числа потоков.
func (s *cabinetService) downloadAll(ctx context.Context, folderID string, files []models.FileEntry) []fetched {
	out := make([]fetched, len(files))

	var g errgroup.Group
	g.SetLimit(max(s.cfg.FetchWorkers, 1))

	for i, f := range files {
		g.Go(func() error {
			data, err := s.cabinet.DownloadFile(ctx, f.URL)
			if err != nil {
				s.logger.Warn("файл пропущен",
					zap.String("folder_id", folderID),
					zap.String("file_path", f.Path),
					zap.Error(err),
				)
				return nil
			}
			out[i] = fetched{data: data, ok: true}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (s *cabinetService) publish(ctx context.Context, data []byte) (*models.PublishedArtifact, error) {
	key := s.storageKey()

	if err := s.store.PutObject(ctx, key, data, zipContentType); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	issuedAt := s.now()
	link, err := s.signer.SignGetURL(ctx, key, s.cfg.SignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigning, err)
	}

	return &models.PublishedArtifact{
		Key:       key,
		URL:       link,
		ExpiresAt: issuedAt.Add(s.cfg.SignedURLTTL),
	}, nil
}

func (s *cabinetService) storageKey() string {
	return path.Join(strings.Trim(s.cfg.StoragePrefix, "/"), uuid.New().String()+".zip")
}

func entryPath(dir string, f models.FileEntry) string {
	name := f.Path[strings.LastIndex(f.Path, "/")+1:]
	if name == "" {
		name = f.Name
	}
	if dir != "" {
		name = dir + "/" + name
	}

	p := path.Clean(name)
	for strings.HasPrefix(p, "../") {
		p = strings.TrimPrefix(p, "../")
	}
	return strings.TrimPrefix(p, "/")
}

func validateCredentials(creds models.Credentials) error {
	if creds.ServiceSecret == "" {
		return fmt.Errorf("%w: поле serviceSecret обязательно", ErrInvalidRequest)
	}
	if creds.LicenseKey == "" {
		return fmt.Errorf("%w: поле licenseKey обязательно", ErrInvalidRequest)
	}
	return nil
}

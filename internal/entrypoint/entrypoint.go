package entrypoint

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/sunr3d/cabinet-bridge/internal/api"
	"github.com/sunr3d/cabinet-bridge/internal/config"
	"github.com/sunr3d/cabinet-bridge/internal/infra/inmem"
	"github.com/sunr3d/cabinet-bridge/internal/infra/rms"
	"github.com/sunr3d/cabinet-bridge/internal/infra/s3store"
	"github.com/sunr3d/cabinet-bridge/internal/interfaces/infra"
	"github.com/sunr3d/cabinet-bridge/internal/middleware"
	"github.com/sunr3d/cabinet-bridge/internal/server"
	"github.com/sunr3d/cabinet-bridge/internal/services/cabinet_service"
)

type storage struct {
	store  infra.ObjectStore
	signer infra.Signer
	// не nil только для memory, отдает объекты по подписанным ссылкам
	downloads http.Handler
}

func Run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	st, err := newStorage(ctx, cfg, log)
	if err != nil {
		return err
	}

	cabinet := rms.New(log, cfg.CabinetBaseURL, cfg.HTTPTimeout)
	svc := cabinet_service.New(log, cfg, cabinet, st.store, st.signer)

	srv := server.New(
		net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort),
		cfg.HTTPTimeout,
		cfg.HTTPWriteTimeout,
		NewRouter(api.New(svc, log), st.downloads, log),
		log,
	)
	return srv.Start()
}

func NewRouter(controller *api.CabinetAPI, downloads http.Handler, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/list_directories", controller.ListDirectories)
	mux.HandleFunc("/create_zip_download", controller.CreateZipDownload)
	mux.HandleFunc("GET /healthz", controller.Health)
	if downloads != nil {
		mux.Handle(inmem.DownloadRoute, downloads)
	}

	router := http.Handler(mux)
	router = middleware.JSONValidator()(router)
	router = middleware.ReqLogger(log)(router)
	router = middleware.Recovery(log)(router)
	router = middleware.CORS()(router)

	return router
}

func newStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (*storage, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		store, err := inmem.New(log, cfg.PublicBaseURL, cfg.MemorySigningKey)
		if err != nil {
			return nil, fmt.Errorf("не удалось создать хранилище в памяти: %w", err)
		}
		log.Warn("архивы хранятся в памяти процесса", zap.String("public_base_url", cfg.PublicBaseURL))
		return &storage{store: store, signer: store, downloads: store}, nil

	case config.BackendS3:
		opts := s3store.Options{
			Bucket:       cfg.StorageBucket,
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			RoleARN:      cfg.S3SignerRoleARN,
			UsePathStyle: cfg.S3UsePathStyle,
		}

		store, err := s3store.New(ctx, log, opts)
		if err != nil {
			return nil, fmt.Errorf("не удалось создать S3 хранилище: %w", err)
		}

		var signer infra.Signer
		switch cfg.SignerMode {
		case config.SignerDelegated:
			signer, err = s3store.NewDelegatedSigner(ctx, log, opts)
		default:
			signer, err = s3store.NewDirectSigner(ctx, log, opts)
		}
		if err != nil {
			return nil, fmt.Errorf("не удалось создать подписчик ссылок: %w", err)
		}

		log.Info("хранилище S3 готово",
			zap.String("bucket", cfg.StorageBucket),
			zap.String("signer_mode", cfg.SignerMode),
		)
		return &storage{store: store, signer: signer}, nil

	default:
		return nil, fmt.Errorf("неизвестный STORAGE_BACKEND: %s", cfg.StorageBackend)
	}
}

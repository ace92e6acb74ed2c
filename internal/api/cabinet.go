package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/sunr3d/cabinet-bridge/internal/interfaces/services"
)

type CabinetAPI struct {
	service services.CabinetService
	logger  *zap.Logger
}

func New(service services.CabinetService, logger *zap.Logger) *CabinetAPI {
	return &CabinetAPI{
		service: service,
		logger:  logger,
	}
}

// POST /list_directories
func (h *CabinetAPI) ListDirectories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req listDirectoriesReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("ошибка парсинга JSON запроса", zap.Error(err))
		h.writeError(w, fmt.Errorf("ошибка парсинга JSON запроса: %w", err))
		return
	}

	// запрос доводится до конца, даже если клиент отключился
	ctx := context.WithoutCancel(r.Context())
	folders, err := h.service.ListDirectories(ctx, req.credentials())
	if err != nil {
		h.logger.Error("ошибка получения списка папок", zap.Error(err))
		h.writeError(w, err)
		return
	}

	resp := make([]folderDTO, 0, len(folders))
	for _, f := range folders {
		resp = append(resp, folderDTO{FolderID: f.ID, FolderPath: f.Path})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// POST /create_zip_download
func (h *CabinetAPI) CreateZipDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createZipDownloadReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("ошибка парсинга JSON запроса", zap.Error(err))
		h.writeError(w, fmt.Errorf("ошибка парсинга JSON запроса: %w", err))
		return
	}

	folders, err := req.folders()
	if err != nil {
		h.logger.Warn("некорректный запрос на архив", zap.Error(err))
		h.writeError(w, err)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	artifact, err := h.service.CreateZipDownload(ctx, req.credentials(), folders)
	if err != nil {
		h.logger.Error("ошибка создания архива", zap.Error(err))
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, createZipDownloadResp{DownloadURL: artifact.URL})
}

// GET /healthz
func (h *CabinetAPI) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (h *CabinetAPI) writeError(w http.ResponseWriter, err error) {
	h.writeJSON(w, http.StatusInternalServerError, errorResp{Error: err.Error()})
}

func (h *CabinetAPI) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("ошибка кодирования JSON ответа", zap.Error(err))
	}
}

package rms

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sunr3d/cabinet-bridge/internal/interfaces/infra"
	"github.com/sunr3d/cabinet-bridge/models"
)

const (
	PageSize = 100

	foldersEndpoint = "/cabinet/folders/get"
	filesEndpoint   = "/cabinet/folder/files/get"

	maxErrorBody = 64 << 10
)

var _ infra.Cabinet = (*rmsClient)(nil)

type rmsClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(log *zap.Logger, baseURL string, timeout time.Duration) infra.Cabinet {
	return &rmsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

type folderXML struct {
	FolderID   string `xml:"FolderId"`
	FolderPath string `xml:"FolderPath"`
}

type fileXML struct {
	FileName string `xml:"FileName"`
	FilePath string `xml:"FilePath"`
	FileURL  string `xml:"FileUrl"`
}

// ListFolders обходит страницы по PageSize, пока страница не окажется неполной.
// Если общее число папок кратно PageSize, последний запрос вернет пустую страницу.
func (c *rmsClient) ListFolders(ctx context.Context, creds models.Credentials) ([]models.Folder, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	var folders []models.Folder
	pages := 0
	for offset := 1; ; offset++ {
		q := url.Values{}
		q.Set("offset", strconv.Itoa(offset))
		q.Set("limit", strconv.Itoa(PageSize))

		body, err := c.get(ctx, creds, foldersEndpoint, q)
		if err != nil {
			return nil, err
		}
		page, err := decodeElements[folderXML](bytes.NewReader(body), "folder")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
		}
		pages++

		for _, f := range page {
			folders = append(folders, models.Folder{ID: f.FolderID, Path: f.FolderPath})
		}

		if len(page) != PageSize {
			break
		}
	}

	c.logger.Info("список папок получен",
		zap.Int("pages", pages),
		zap.Int("folders", len(folders)),
	)

	return folders, nil
}

func (c *rmsClient) ListFiles(ctx context.Context, creds models.Credentials, folderID string) ([]models.FileEntry, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	q := url.Values{}
	q.Set("folderId", folderID)

	body, err := c.get(ctx, creds, filesEndpoint, q)
	if err != nil {
		return nil, err
	}
	page, err := decodeElements[fileXML](bytes.NewReader(body), "file")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	files := make([]models.FileEntry, 0, len(page))
	for _, f := range page {
		files = append(files, models.FileEntry{Name: f.FileName, Path: f.FilePath, URL: f.FileURL})
	}

	c.logger.Debug("список файлов получен",
		zap.String("folder_id", folderID),
		zap.Int("files", len(files)),
	)

	return files, nil
}

func (c *rmsClient) DownloadFile(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileDownloadFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP status %d", ErrFileDownloadFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileDownloadFailed, err)
	}

	return data, nil
}

func (c *rmsClient) get(ctx context.Context, creds models.Credentials, endpoint string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestBuild, err)
	}
	req.Header.Set("Authorization", authHeader(creds))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("RMS API вернул ошибку",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &RemoteAPIError{Endpoint: endpoint, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	return body, nil
}

// decodeElements собирает все элементы с именем name на любой глубине документа.
func decodeElements[T any](r io.Reader, name string) ([]T, error) {
	dec := xml.NewDecoder(r)
	var out []T
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != name {
			continue
		}

		var v T
		if err := dec.DecodeElement(&v, &se); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

func authHeader(creds models.Credentials) string {
	raw := creds.ServiceSecret + ":" + creds.LicenseKey
	return "ESA " + base64.StdEncoding.EncodeToString([]byte(raw))
}

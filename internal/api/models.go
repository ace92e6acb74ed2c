package api

import (
	"errors"
	"fmt"

	"github.com/sunr3d/cabinet-bridge/models"
)

type folderDTO struct {
	FolderID   string `json:"folderId"`
	FolderPath string `json:"folderPath"`
}

// ListDirectories
type listDirectoriesReq struct {
	ServiceSecret string `json:"serviceSecret"`
	LicenseKey    string `json:"licenseKey"`
}

func (r listDirectoriesReq) credentials() models.Credentials {
	return models.Credentials{ServiceSecret: r.ServiceSecret, LicenseKey: r.LicenseKey}
}

// CreateZipDownload
type createZipDownloadReq struct {
	ServiceSecret string      `json:"serviceSecret"`
	LicenseKey    string      `json:"licenseKey"`
	Folders       []folderDTO `json:"folders"`
	// старый формат без путей папок, не принимается
	FolderIDs []string `json:"folderIds,omitempty"`
}

func (r createZipDownloadReq) credentials() models.Credentials {
	return models.Credentials{ServiceSecret: r.ServiceSecret, LicenseKey: r.LicenseKey}
}

func (r createZipDownloadReq) folders() ([]models.Folder, error) {
	if r.Folders == nil {
		if r.FolderIDs != nil {
			return nil, errors.New("поле folderIds не поддерживается, передайте folders: [{folderId, folderPath}]")
		}
		return nil, errors.New("поле folders обязательно")
	}

	out := make([]models.Folder, 0, len(r.Folders))
	for i, f := range r.Folders {
		if f.FolderID == "" {
			return nil, fmt.Errorf("поле folders[%d].folderId обязательно", i)
		}
		out = append(out, models.Folder{ID: f.FolderID, Path: f.FolderPath})
	}
	return out, nil
}

type createZipDownloadResp struct {
	DownloadURL string `json:"downloadUrl"`
}

type errorResp struct {
	Error string `json:"error"`
}

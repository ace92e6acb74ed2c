package models

// Credentials пара ключей RMS, приходит в каждом запросе и нигде не сохраняется.
type Credentials struct {
	ServiceSecret string
	LicenseKey    string
}

type Folder struct {
	ID   string `json:"folderId"`
	Path string `json:"folderPath"`
}

type FileEntry struct {
	Name string `json:"fileName"`
	Path string `json:"filePath"`
	URL  string `json:"fileUrl"`
}

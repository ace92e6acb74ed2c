package models

import "time"

type ArchiveEntry struct {
	Path string
	Data []byte
}

// Archive упорядоченный набор файлов для zip.
// Повторный Add с тем же путем заменяет содержимое, позиция записи сохраняется.
type Archive struct {
	entries []ArchiveEntry
	index   map[string]int
}

func NewArchive() *Archive {
	return &Archive{
		index: make(map[string]int),
	}
}

func (a *Archive) Add(path string, data []byte) {
	if i, ok := a.index[path]; ok {
		a.entries[i].Data = data
		return
	}
	a.index[path] = len(a.entries)
	a.entries = append(a.entries, ArchiveEntry{Path: path, Data: data})
}

func (a *Archive) Entries() []ArchiveEntry {
	out := make([]ArchiveEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

func (a *Archive) Len() int {
	return len(a.entries)
}

type PublishedArtifact struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArchive_Add_KeepsOrder(t *testing.T) {
	a := NewArchive()
	a.Add("a/1.jpg", []byte("1"))
	a.Add("b/2.jpg", []byte("2"))
	a.Add("a/3.jpg", []byte("3"))

	entries := a.Entries()
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, "a/1.jpg", entries[0].Path)
	assert.Equal(t, "b/2.jpg", entries[1].Path)
	assert.Equal(t, "a/3.jpg", entries[2].Path)
}

func TestArchive_Add_OverwritesSamePath(t *testing.T) {
	a := NewArchive()
	a.Add("a/1.jpg", []byte("old"))
	a.Add("a/2.jpg", []byte("2"))
	a.Add("a/1.jpg", []byte("new"))

	entries := a.Entries()
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, "a/1.jpg", entries[0].Path)
	assert.Equal(t, []byte("new"), entries[0].Data)
}

func TestArchive_Entries_ReturnsCopy(t *testing.T) {
	a := NewArchive()
	a.Add("x.jpg", []byte("x"))

	entries := a.Entries()
	entries[0].Path = "changed"

	assert.Equal(t, "x.jpg", a.Entries()[0].Path)
}

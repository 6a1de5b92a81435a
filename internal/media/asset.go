// Package media obtains, converts, and splits local audio assets by driving
// the external downloader and transcoder tools.
package media

import (
	"os"
)

// Asset is a handle to a local audio file. Ownership transfers along the
// pipeline; whoever no longer needs an intermediate asset removes it.
type Asset struct {
	// Path is the absolute location of the audio file.
	Path string
	// Size is the file size in bytes at creation time.
	Size int64
}

// NewAsset stats path and returns an Asset for it.
func NewAsset(path string) (Asset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Asset{}, err
	}
	return Asset{Path: path, Size: info.Size()}, nil
}

// Remove deletes the underlying file. Safe to call on an already-removed
// asset; the not-exist case is not an error.
func (a Asset) Remove() error {
	err := os.Remove(a.Path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

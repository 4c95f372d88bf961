package menu

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var ErrImageNotFound = errors.New("image not found in media library")

// PermissionDeniedMessage is shown when media library access is refused
const PermissionDeniedMessage = "Permission to access media library is required!"

// MediaLibrary is the platform service images are picked from
type MediaLibrary interface {
	RequestPermission(ctx context.Context) (bool, error)
	// Select returns the chosen image reference, or ok=false when the user cancels.
	Select(ctx context.Context) (ref string, ok bool, err error)
}

// DirectoryLibrary serves images from a local directory. Choice names the
// file to pick; an empty choice behaves like a cancelled picker.
type DirectoryLibrary struct {
	Dir    string
	Choice string
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// RequestPermission is granted when the directory can be listed
func (l DirectoryLibrary) RequestPermission(_ context.Context) (bool, error) {
	info, err := os.Stat(l.Dir)
	if err != nil || !info.IsDir() {
		return false, nil
	}
	if _, err := os.ReadDir(l.Dir); err != nil {
		return false, nil
	}
	return true, nil
}

func (l DirectoryLibrary) Select(_ context.Context) (string, bool, error) {
	choice := strings.TrimSpace(l.Choice)
	if choice == "" {
		return "", false, nil
	}

	name := filepath.Base(choice)
	if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
		return "", false, ErrImageNotFound
	}

	path := filepath.Join(l.Dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false, ErrImageNotFound
	}
	return path, true, nil
}

package repo

import (
	"errors"
	"io/fs"
	"os"
	"sort"
)

type ExampleFolderRepo interface {
	ListFolders() ([]string, error)
	Path() string
}

type exampleFolderRepo struct {
	dir string
}

func NewExampleFolderRepo(dir string) ExampleFolderRepo {
	return &exampleFolderRepo{dir: dir}
}

func (r *exampleFolderRepo) Path() string {
	return r.dir
}

// ListFolders returns the sorted sub-directory names of the examples folder.
// A missing folder lists as empty.
func (r *exampleFolderRepo) ListFolders() ([]string, error) {
	items, err := os.ReadDir(r.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	folders := make([]string, 0, len(items))
	for _, item := range items {
		if item.IsDir() {
			folders = append(folders, item.Name())
		}
	}
	sort.Strings(folders)

	return folders, nil
}

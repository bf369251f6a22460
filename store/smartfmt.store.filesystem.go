package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// FilesystemStore keeps one YAML file per resource under
// <root>/<name>/<language>.yaml.
type FilesystemStore struct {
	root   string
	mu     sync.RWMutex
	closed bool
}

// FilesystemDriver opens FilesystemStore instances; the connection string is
// the root directory.
type FilesystemDriver struct{}

func init() {
	Register(DriverFilesystem, &FilesystemDriver{})
}

// Open implements Driver
func (d *FilesystemDriver) Open(connectionString string) (Store, error) {
	return NewFilesystemStore(connectionString)
}

// NewFilesystemStore creates the root directory if needed.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if root == "" {
		return nil, &Error{Message: ErrMsgFilesystemRootEmpty}
	}
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &Error{Message: ErrMsgFilesystemWriteFailed, Name: root, Cause: err}
	}
	return &FilesystemStore{root: root}, nil
}

// Root returns the directory holding the resources
func (s *FilesystemStore) Root() string { return s.root }

// Get implements Store
func (s *FilesystemStore) Get(ctx context.Context, name, language string) (*Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateName(languageFile(language)); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, newClosedError()
	}
	return s.load(s.path(name, language), name, language)
}

// List implements Store
func (s *FilesystemStore) List(ctx context.Context) ([]*Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, newClosedError()
	}

	dirs, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &Error{Message: ErrMsgFilesystemReadFailed, Name: s.root, Cause: err}
	}
	var list []*Resource
	for _, dir := range dirs {
		if !dir.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(s.root, dir.Name()))
		if err != nil {
			return nil, &Error{Message: ErrMsgFilesystemReadFailed, Name: dir.Name(), Cause: err}
		}
		for _, file := range files {
			if file.IsDir() || filepath.Ext(file.Name()) != FilesystemFileExt {
				continue
			}
			language := strings.TrimSuffix(file.Name(), FilesystemFileExt)
			if language == FilesystemNeutralFileName {
				language = ""
			}
			r, err := s.load(filepath.Join(s.root, dir.Name(), file.Name()), dir.Name(), language)
			if err != nil {
				return nil, err
			}
			list = append(list, r)
		}
	}
	sortResources(list)
	return list, nil
}

// Save implements Store
func (s *FilesystemStore) Save(ctx context.Context, resource *Resource) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateResource(resource); err != nil {
		return err
	}
	if err := validateName(languageFile(resource.Language)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return newClosedError()
	}

	resource.UpdatedAt = time.Now().UTC()
	data, err := yaml.Marshal(resource)
	if err != nil {
		return &Error{Message: ErrMsgFilesystemWriteFailed, Name: resource.Name, Language: resource.Language, Cause: err}
	}
	dir := filepath.Join(s.root, resource.Name)
	if err := os.MkdirAll(dir, FilesystemDirPermissions); err != nil {
		return &Error{Message: ErrMsgFilesystemWriteFailed, Name: resource.Name, Language: resource.Language, Cause: err}
	}
	if err := os.WriteFile(s.path(resource.Name, resource.Language), data, FilesystemFilePermissions); err != nil {
		return &Error{Message: ErrMsgFilesystemWriteFailed, Name: resource.Name, Language: resource.Language, Cause: err}
	}
	return nil
}

// Delete implements Store
func (s *FilesystemStore) Delete(ctx context.Context, name, language string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateName(languageFile(language)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return newClosedError()
	}
	if err := os.Remove(s.path(name, language)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newNotFoundError(name, language)
		}
		return &Error{Message: ErrMsgFilesystemWriteFailed, Name: name, Language: language, Cause: err}
	}

	// drop the directory once its last resource is gone
	dir := filepath.Join(s.root, name)
	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		_ = os.Remove(dir)
	}
	return nil
}

// Close implements Store
func (s *FilesystemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

func (s *FilesystemStore) path(name, language string) string {
	return filepath.Join(s.root, name, languageFile(language)+FilesystemFileExt)
}

func (s *FilesystemStore) load(path, name, language string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newNotFoundError(name, language)
		}
		return nil, &Error{Message: ErrMsgFilesystemReadFailed, Name: name, Language: language, Cause: err}
	}
	var r Resource
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, &Error{Message: ErrMsgFilesystemReadFailed, Name: name, Language: language, Cause: err}
	}
	// the location is authoritative
	r.Name = name
	r.Language = language
	return &r, nil
}

func languageFile(language string) string {
	if language == "" {
		return FilesystemNeutralFileName
	}
	return language
}

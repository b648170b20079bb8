package rws

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/iwtcode/abbAdapter/pkg/errors"
)

// Каталоги файлового сервиса контроллера.
const (
	DirHome   = "$home"
	DirTemp   = "$temp"
	DirBackup = "$backup"
)

func fileURI(dir, name string) (string, error) {
	dir = strings.Trim(dir, "/")
	name = strings.Trim(name, "/")
	if dir == "" || name == "" {
		return "", fmt.Errorf("%w: file path %q/%q is incomplete", apperrors.ErrNotFound, dir, name)
	}
	segments := strings.Split(name, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return resourceFileService + "/" + url.PathEscape(dir) + "/" + strings.Join(segments, "/"), nil
}

// File возвращает содержимое файла из каталога dir (например, $home).
func (s *Session) File(ctx context.Context, dir, name string) (string, error) {
	uri, err := fileURI(dir, name)
	if err != nil {
		return "", err
	}
	content, err := s.get(ctx, uri)
	if err != nil {
		return "", fmt.Errorf("read file %s/%s: %w", dir, name, err)
	}
	return content, nil
}

// UploadFile создает или перезаписывает файл на контроллере.
func (s *Session) UploadFile(ctx context.Context, dir, name, content string) error {
	uri, err := fileURI(dir, name)
	if err != nil {
		return err
	}
	if content == "" {
		return fmt.Errorf("upload %s/%s: empty content", dir, name)
	}
	if _, err := s.Do(ctx, http.MethodPut, uri, content); err != nil {
		return s.writeError("file "+dir+"/"+name, err)
	}
	return nil
}

// DeleteFile удаляет файл на контроллере.
func (s *Session) DeleteFile(ctx context.Context, dir, name string) error {
	uri, err := fileURI(dir, name)
	if err != nil {
		return err
	}
	if _, err := s.Do(ctx, http.MethodDelete, uri, ""); err != nil {
		return s.writeError("file "+dir+"/"+name, err)
	}
	return nil
}

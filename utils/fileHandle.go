package utils

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrFileTooLarge     = errors.New("file is too large")
)

// imageTypes maps sniffed content types to the extension files are stored with.
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeFilename reduces name to a lower-case [a-z0-9-] stem plus its
// extension and prefixes a UUID so uploads never collide or traverse paths.
func SanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base))), "-"), "-")
	if len(stem) > 60 {
		stem = strings.Trim(stem[:60], "-")
	}
	if stem == "" {
		stem = "image"
	}
	return uuid.NewString() + "-" + stem + ext
}

// SaveUploadedFile stores a multipart image under destDir and returns the
// stored file name.
func SaveUploadedFile(file *multipart.FileHeader, destDir string, maxBytes int64) (string, error) {
	if file.Size > maxBytes {
		return "", ErrFileTooLarge
	}
	if !allowedExt[strings.ToLower(filepath.Ext(file.Filename))] {
		return "", ErrUnsupportedImage
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// Sniff the content rather than trusting the extension alone.
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	ext, ok := imageTypes[http.DetectContentType(head[:n])]
	if !ok {
		return "", ErrUnsupportedImage
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	// The stored extension follows the content, not the client's name.
	base := filepath.Base(strings.ReplaceAll(file.Filename, "\\", "/"))
	newFilename := SanitizeFilename(strings.TrimSuffix(base, filepath.Ext(base)) + ext)
	dst, err := os.Create(filepath.Join(destDir, newFilename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head[:n]), io.LimitReader(src, maxBytes))); err != nil {
		return "", err
	}
	return newFilename, nil
}

// IsBase64Image reports whether s is an inline image payload rather than a
// URL or path. Without a data URI prefix the decoded bytes must sniff as a
// supported image, so short relative paths like "img/tour" stay references.
func IsBase64Image(s string) bool {
	if strings.HasPrefix(s, "data:image/") {
		return true
	}
	if s == "" || strings.HasPrefix(s, "/") || strings.Contains(s, "://") {
		return false
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return false
	}
	_, ok := imageTypes[http.DetectContentType(data)]
	return ok
}

// SaveBase64Image decodes a raw base64 or data-URI image, checks its type and
// size, writes it under destDir and returns the stored file name.
func SaveBase64Image(payload, destDir string, maxBytes int64) (string, error) {
	if i := strings.Index(payload, ";base64,"); strings.HasPrefix(payload, "data:") && i > 0 {
		payload = payload[i+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", ErrFileTooLarge
	}
	ext, ok := imageTypes[http.DetectContentType(data)]
	if !ok {
		return "", ErrUnsupportedImage
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}
	filename := SanitizeFilename("image" + ext)
	if err := os.WriteFile(filepath.Join(destDir, filename), data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// GetFileURL is the public URL of a stored upload.
func GetFileURL(filename string) string {
	if filename == "" {
		return ""
	}
	return "/uploads/" + filename
}

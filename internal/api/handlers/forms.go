package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"Vidora/internal/core/blobs"
	"Vidora/internal/core/videos"
)

// multipartMemory is the part of a multipart body kept in memory; the rest spills to disk
const multipartMemory = 32 << 20

// ErrFileTooLarge is returned when an uploaded file exceeds its limit
var ErrFileTooLarge = errors.New("uploaded file is too large")

// ParseForm parses a multipart or urlencoded body of at most maxBytes
func ParseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return mapBodyError(err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return mapBodyError(err)
	}
	return nil
}

func mapBodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return ErrFileTooLarge
	}
	return fmt.Errorf("invalid form body: %w", err)
}

// FormFile reads an optional uploaded file. It returns nil when the field is absent.
func FormFile(r *http.Request, field string, maxBytes int64) (*blobs.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	defer func() { _ = file.Close() }()

	if maxBytes > 0 && header.Size > maxBytes {
		return nil, fmt.Errorf("%s: %w", field, ErrFileTooLarge)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "application/octet-stream" {
		// generic type: guess from the extension, or leave it to the service default
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(header.Filename)))
	}

	return &blobs.File{Name: header.Filename, ContentType: contentType, Data: data}, nil
}

// OptionalString returns a pointer to the form value when the field was sent
func OptionalString(r *http.Request, field string) *string {
	if _, ok := r.Form[field]; !ok {
		return nil
	}
	v := r.FormValue(field)
	return &v
}

// ParseBool accepts the usual boolean spellings; empty is false
func ParseBool(value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}

// DecodeJSON decodes a JSON request body of at most maxBytes into v
func DecodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return mapBodyError(err)
	}
	return nil
}

// FormList reads a list field sent either as a JSON array or as comma separated text
func FormList(value string) []string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "[") {
		var items []string
		if err := json.Unmarshal([]byte(trimmed), &items); err == nil {
			return videos.SplitList(strings.Join(items, ","))
		}
	}
	return videos.SplitList(trimmed)
}

// OptionalList returns a pointer to the parsed list when the field was sent
func OptionalList(r *http.Request, field string) *[]string {
	if _, ok := r.Form[field]; !ok {
		return nil
	}
	items := FormList(r.FormValue(field))
	if items == nil {
		items = []string{}
	}
	return &items
}

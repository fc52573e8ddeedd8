package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, FormList("a, b"))
	assert.Equal(t, []string{"rock", "jazz"}, FormList(`["rock"," jazz","rock"]`))
	assert.Nil(t, FormList(""))
	assert.Equal(t, []string{"[broken"}, FormList("[broken"))
}

func TestOptionalFields(t *testing.T) {
	form := url.Values{"title": {"x"}, "tags": {""}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, ParseForm(httptest.NewRecorder(), req, 1<<20))

	title := OptionalString(req, "title")
	require.NotNil(t, title)
	assert.Equal(t, "x", *title)
	assert.Nil(t, OptionalString(req, "description"))

	tags := OptionalList(req, "tags")
	require.NotNil(t, tags)
	assert.Empty(t, *tags)
	assert.Nil(t, OptionalList(req, "categories"))
}

func TestFormFile(t *testing.T) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("videoFile", "clip.mp4")
	require.NoError(t, err)
	_, _ = part.Write([]byte("0123456789"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, ParseForm(httptest.NewRecorder(), req, 1<<20))

	file, err := FormFile(req, "videoFile", 100)
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, "clip.mp4", file.Name)
	assert.NotEqual(t, "application/octet-stream", file.ContentType)
	assert.Equal(t, 10, file.Size())

	missing, err := FormFile(req, "thumbnailImage", 100)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = FormFile(req, "videoFile", 5)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestParseForm_BodyTooLarge(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a="+strings.Repeat("x", 100)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	err := ParseForm(httptest.NewRecorder(), req, 10)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

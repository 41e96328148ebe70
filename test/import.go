package test

import (
	"bytes"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// MultipartFile wraps file content into a multipart form upload.
//
// The file is returned as a buffer and a map for the HTTP request headers.
func MultipartFile(t *testing.T, fileName, content string) (*bytes.Buffer, map[string]string) {
	body := new(bytes.Buffer)

	mw := multipart.NewWriter(body)

	w, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		assert.Fail(t, err.Error())
	}

	if _, err := io.Copy(w, strings.NewReader(content)); err != nil {
		assert.Fail(t, err.Error())
	}

	mw.Close()

	return body, map[string]string{"Content-Type": mw.FormDataContentType()}
}

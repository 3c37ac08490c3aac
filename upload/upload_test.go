package upload_test

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"lendtrack/upload"

	"github.com/stretchr/testify/assert"
)

func header(contentType string, size int64) *multipart.FileHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{
		Filename: "photo",
		Header:   h,
		Size:     size,
	}
}

func TestValidateAcceptsJpegAndPng(t *testing.T) {
	for _, ct := range []string{"image/jpeg", "image/jpg", "image/png"} {
		assert.NoError(t, upload.Validate(header(ct, 1024)), ct)
	}
}

func TestValidateRejectsOtherTypes(t *testing.T) {
	for _, ct := range []string{"image/gif", "image/webp", "application/pdf", "text/html", ""} {
		err := upload.Validate(header(ct, 1024))
		assert.Error(t, err, ct)
		assert.Contains(t, err.Error(), "only JPG and PNG")
	}
}

func TestValidateSizeLimit(t *testing.T) {
	// 正好 5MB 可以，超 1 字节不行
	assert.NoError(t, upload.Validate(header("image/png", upload.MaxFileSize)))

	err := upload.Validate(header("image/png", upload.MaxFileSize+1))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "5MB")
}

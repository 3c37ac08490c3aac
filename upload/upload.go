// upload/upload.go
//
// 照片上传校验与落盘。只收 JPEG/PNG、单张 ≤5MB，和借出逻辑完全解耦。
package upload

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const MaxFileSize = 5 * 1024 * 1024 // 5MB

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

type SavedFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Validate 返回面向用户的错误消息，nil 表示通过。
func Validate(fh *multipart.FileHeader) error {
	if _, ok := allowedTypes[fh.Header.Get("Content-Type")]; !ok {
		return fmt.Errorf("file type not allowed, only JPG and PNG files are accepted")
	}
	if fh.Size > MaxFileSize {
		return fmt.Errorf("file size exceeds %dMB limit", MaxFileSize/1024/1024)
	}
	return nil
}

// Save 以 UUID 文件名落盘，返回 /uploads/ 下的 URL。
func Save(c *gin.Context, fh *multipart.FileHeader, dir string) (*SavedFile, error) {
	ext := allowedTypes[fh.Header.Get("Content-Type")]
	if ext == "" {
		ext = filepath.Ext(fh.Filename)
	}
	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(fh, filepath.Join(dir, name)); err != nil {
		return nil, err
	}
	return &SavedFile{URL: "/uploads/" + name, Filename: name}, nil
}

// SaveAll 全部校验通过才开始落盘；中途失败清掉已写的文件。
func SaveAll(c *gin.Context, fhs []*multipart.FileHeader, dir string) ([]SavedFile, error) {
	for _, fh := range fhs {
		if err := Validate(fh); err != nil {
			return nil, err
		}
	}
	var saved []SavedFile
	for _, fh := range fhs {
		sf, err := Save(c, fh, dir)
		if err != nil {
			for _, s := range saved {
				_ = os.Remove(filepath.Join(dir, s.Filename))
			}
			return nil, err
		}
		saved = append(saved, *sf)
	}
	return saved, nil
}

package handler

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
)

// savePhoto stores an optional uploaded photo under dir and returns its
// public path. Returns (nil, nil) when the form carries no photo. The rest
// of the system treats the returned path as an opaque reference.
func savePhoto(c *gin.Context, field, dir, prefix string) (*string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		// No file attached.
		return nil, nil
	}

	name := fmt.Sprintf("%s-%d-%d%s", prefix, time.Now().UnixNano(), rand.Intn(1e9), filepath.Ext(file.Filename))
	dst := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return nil, err
	}

	path := "/" + filepath.ToSlash(dst)
	return &path, nil
}

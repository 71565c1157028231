package webapp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"glimpse/internal/media"
)

// mediaPostOptions is the default option set for post-media commits.
func mediaPostOptions() media.UploadOptions {
	return media.UploadOptions{Type: "post"}
}

// StagePreviews handles POST /media/previews: multipart files staged locally,
// no backend traffic.
func (h *Handler) StagePreviews(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, err)
		return
	}

	var staged []media.PreviewMedia
	for _, fh := range form.File["image"] {
		if err := media.ValidateFilename(fh.Filename); err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		if err := media.ValidateContentType(fh.Header.Get("Content-Type")); err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}

		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to read upload"})
			return
		}

		src, size, err := media.NewTempSource(h.stagingDir, f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to stage upload"})
			return
		}

		staged = append(staged, h.stores.Media.AddPreview(fh.Filename, size, src))
	}

	c.JSON(http.StatusCreated, gin.H{"previews": staged})
}

// ListPreviews handles GET /media/previews
func (h *Handler) ListPreviews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"previews":  h.stores.Media.Previews(),
		"uploading": h.stores.Media.Uploading(),
		"progress":  h.stores.Media.Progress(),
	})
}

// RemovePreview handles DELETE /media/previews/:id
func (h *Handler) RemovePreview(c *gin.Context) {
	if err := h.stores.Media.RemovePreview(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearPreviews handles DELETE /media/previews
func (h *Handler) ClearPreviews(c *gin.Context) {
	if err := h.stores.Media.ClearPreviews(); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CommitPreviews handles POST /media/previews/commit: every staged preview
// is uploaded to the backend, one at a time.
func (h *Handler) CommitPreviews(c *gin.Context) {
	opts := mediaPostOptions()
	opts.PostID = c.Query("postId")
	if c.Query("type") == "profile" {
		opts.Type = "profile"
	}

	uploaded := h.stores.Media.UploadAllPreviews(c.Request.Context(), opts)

	resp := gin.H{"media": uploaded}
	if msg := h.stores.Media.Err(); msg != "" {
		resp["warning"] = msg
	}
	c.JSON(http.StatusOK, resp)
}

// UploadMedia handles POST /media/upload: files passed straight through to
// the backend without staging. One file returns the single-upload shape;
// several go through the batch path.
func (h *Handler) UploadMedia(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, err)
		return
	}
	headers := form.File["image"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no files in request"})
		return
	}

	opts := media.UploadOptions{
		Type:   c.DefaultPostForm("type", "post"),
		PostID: c.PostForm("postId"),
	}

	var files []media.File
	var closers []interface{ Close() error }
	defer func() {
		for _, f := range closers {
			f.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to read upload"})
			return
		}
		closers = append(closers, f)
		files = append(files, media.File{Name: fh.Filename, Data: f})
	}

	if len(files) == 1 {
		item, err := h.stores.Media.Upload(c.Request.Context(), files[0].Name, files[0].Data, opts)
		if err != nil {
			storeError(c, err, h.stores.Media.Err())
			return
		}
		c.JSON(http.StatusCreated, gin.H{"media": item})
		return
	}

	uploaded := h.stores.Media.UploadMany(c.Request.Context(), files, opts)
	resp := gin.H{"media": uploaded}
	if msg := h.stores.Media.Err(); msg != "" {
		resp["warning"] = msg
	}
	c.JSON(http.StatusCreated, resp)
}

// DeleteMedia handles DELETE /media/:id
func (h *Handler) DeleteMedia(c *gin.Context) {
	if err := h.stores.Media.Delete(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, err, h.stores.Media.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

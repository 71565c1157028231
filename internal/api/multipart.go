package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// FormFile is one file part of a multipart upload.
type FormFile struct {
	Field string
	Name  string
	Data  io.Reader
}

// ProgressFunc receives upload progress as a 0-100 percentage. It is called
// from the goroutine performing the request.
type ProgressFunc func(percent int)

// Upload sends a multipart POST with the given text fields and file, decoding
// the JSON response into out. onProgress, when non-nil, is fed byte-level
// progress of the request body.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, file FormFile, out any, onProgress ProgressFunc) error {
	// The body is assembled up front so its total size is known; progress is
	// reported against that size as the transport consumes the reader.
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("api: write form field %s: %w", key, err)
		}
	}

	part, err := writer.CreateFormFile(file.Field, file.Name)
	if err != nil {
		return fmt.Errorf("api: create form file: %w", err)
	}
	if _, err := io.Copy(part, file.Data); err != nil {
		return fmt.Errorf("api: stage form file %s: %w", file.Name, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("api: finalize multipart body: %w", err)
	}

	total := int64(buf.Len())
	var body io.Reader = &buf
	if onProgress != nil {
		body = &progressReader{r: &buf, total: total, report: onProgress}
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = total

	return c.send(req, path, out)
}

// progressReader reports cumulative read progress as a percentage of total.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.read += int64(n)
		percent := int(p.read * 100 / p.total)
		if percent > 100 {
			percent = 100
		}
		if percent != p.last {
			p.last = percent
			p.report(percent)
		}
	}
	return n, err
}

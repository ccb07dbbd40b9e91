package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"model-asset-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// assetForm is a parsed multipart or urlencoded write request.
type assetForm struct {
	values    map[string][]string
	files     map[string][]*multipart.FileHeader
	multipart *multipart.Form
	opened    []multipart.File
}

func parseAssetForm(c *gin.Context) (*assetForm, error) {
	form := &assetForm{}

	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		mf, err := c.MultipartForm()
		if err != nil {
			return nil, formError(err)
		}
		form.multipart = mf
		form.values = mf.Value
		form.files = mf.File
	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, formError(err)
		}
		form.values = c.Request.PostForm
	case "":
		if c.Request.ContentLength > 0 {
			return nil, domain.ErrUnsupportedMediaType
		}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedMediaType, c.ContentType())
	}

	return form, nil
}

func formError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: limit is %d bytes", errRequestTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("%w: %v", errMalformedForm, err)
}

// value returns nil when the field was not submitted.
func (f *assetForm) value(name string) *string {
	vs, ok := f.values[name]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := vs[0]
	return &v
}

// file returns the upload for name. cleared reports a text field with the
// same name and an empty value, which is how clients blank out a file.
func (f *assetForm) file(name string) (upload *domain.Upload, cleared bool, err error) {
	if fhs := f.files[name]; len(fhs) > 0 {
		fh := fhs[0]
		fp, err := fh.Open()
		if err != nil {
			return nil, false, fmt.Errorf("%w: open %s: %v", errMalformedForm, name, err)
		}
		f.opened = append(f.opened, fp)
		return &domain.Upload{Filename: fh.Filename, Size: fh.Size, Content: fp}, false, nil
	}
	if v := f.value(name); v != nil && *v == "" {
		return nil, true, nil
	}
	return nil, false, nil
}

func (f *assetForm) close() {
	for _, fp := range f.opened {
		fp.Close()
	}
	if f.multipart != nil {
		if err := f.multipart.RemoveAll(); err != nil {
			log.WithError(err).Warn("remove multipart temp files failed")
		}
	}
}

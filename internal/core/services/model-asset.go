package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-asset-service/internal/core/domain"
	"model-asset-service/internal/core/ports/output"
)

// CreateModelAssetInput carries the form fields of a create request.
// A nil pointer means the field was not submitted.
type CreateModelAssetInput struct {
	Name        *string
	Description *string
	ModelFile   *domain.Upload
	Thumbnail   *domain.Upload
}

// UpdateModelAssetInput carries the form fields of an update request.
// Partial selects PATCH semantics; otherwise name and model_file are required.
// An empty Description clears it, ClearThumbnail drops the current thumbnail.
type UpdateModelAssetInput struct {
	Partial        bool
	Name           *string
	Description    *string
	ModelFile      *domain.Upload
	Thumbnail      *domain.Upload
	ClearThumbnail bool
}

type ModelAssetService struct {
	repo    ports.ModelAssetRepository
	storage ports.BlobStorage
	now     func() time.Time
}

func NewModelAssetService(repo ports.ModelAssetRepository, storage ports.BlobStorage) *ModelAssetService {
	return &ModelAssetService{
		repo:    repo,
		storage: storage,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}

func (s *ModelAssetService) Create(ctx context.Context, in CreateModelAssetInput) (*domain.ModelAsset, error) {
	verr := domain.NewValidationError()
	if in.Name == nil {
		verr.Add("name", domain.MsgRequired)
	} else {
		addAll(verr, "name", domain.ValidateName(*in.Name))
	}
	addAll(verr, "model_file", domain.ValidateModelFile(in.ModelFile))
	if in.Thumbnail != nil {
		addAll(verr, "thumbnail", domain.ValidateThumbnail(in.Thumbnail))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	batch := &blobBatch{storage: s.storage}

	modelKey, err := batch.put(ctx, domain.ModelFileDir, in.ModelFile)
	if err != nil {
		batch.discard(ctx)
		return nil, err
	}

	now := s.now()
	asset := &domain.ModelAsset{
		Name:        domain.TrimText(*in.Name),
		Description: trimmedText(in.Description),
		ModelFile:   modelKey,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if in.Thumbnail != nil {
		thumbKey, err := batch.put(ctx, domain.ThumbnailDir, in.Thumbnail)
		if err != nil {
			batch.discard(ctx)
			return nil, err
		}
		asset.Thumbnail = &thumbKey
	}

	if err := s.beforeSave(ctx, asset); err != nil {
		batch.discard(ctx)
		return nil, err
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		batch.discard(ctx)
		return nil, err
	}

	return s.repo.GetByID(ctx, asset.ID)
}

func (s *ModelAssetService) Get(ctx context.Context, id int64) (*domain.ModelAsset, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ModelAssetService) List(ctx context.Context, filter ports.ListFilter) ([]*domain.ModelAsset, error) {
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *ModelAssetService) Update(ctx context.Context, id int64, in UpdateModelAssetInput) (*domain.ModelAsset, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	verr := domain.NewValidationError()
	switch {
	case in.Name != nil:
		addAll(verr, "name", domain.ValidateName(*in.Name))
	case !in.Partial:
		verr.Add("name", domain.MsgRequired)
	}
	if in.ModelFile != nil || !in.Partial {
		addAll(verr, "model_file", domain.ValidateModelFile(in.ModelFile))
	}
	if in.Thumbnail != nil {
		addAll(verr, "thumbnail", domain.ValidateThumbnail(in.Thumbnail))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	batch := &blobBatch{storage: s.storage}

	var modelKey, thumbKey string
	if in.ModelFile != nil {
		key, err := batch.put(ctx, domain.ModelFileDir, in.ModelFile)
		if err != nil {
			batch.discard(ctx)
			return nil, err
		}
		modelKey = key
	}
	if in.Thumbnail != nil {
		key, err := batch.put(ctx, domain.ThumbnailDir, in.Thumbnail)
		if err != nil {
			batch.discard(ctx)
			return nil, err
		}
		thumbKey = key
	}

	// Changes land on the locked current row, not on the copy read above.
	var replaced []string
	asset, err := s.repo.Update(ctx, id, func(cur *domain.ModelAsset) error {
		replaced = replaced[:0]

		if modelKey != "" {
			replaced = append(replaced, cur.ModelFile)
			cur.ModelFile = modelKey
		}

		switch {
		case thumbKey != "":
			if cur.Thumbnail != nil {
				replaced = append(replaced, *cur.Thumbnail)
			}
			cur.Thumbnail = &thumbKey
		case in.ClearThumbnail && cur.Thumbnail != nil:
			replaced = append(replaced, *cur.Thumbnail)
			cur.Thumbnail = nil
		}

		if in.Name != nil {
			cur.Name = domain.TrimText(*in.Name)
		}
		if in.Description != nil {
			cur.Description = trimmedText(in.Description)
		}

		return s.beforeSave(ctx, cur)
	})
	if err != nil {
		batch.discard(ctx)
		return nil, err
	}

	s.deleteBlobs(ctx, replaced...)
	return asset, nil
}

func (s *ModelAssetService) Delete(ctx context.Context, id int64) error {
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	keys := []string{asset.ModelFile}
	if asset.Thumbnail != nil {
		keys = append(keys, *asset.Thumbnail)
	}
	s.deleteBlobs(ctx, keys...)
	return nil
}

// Ping reports whether the record store is reachable.
func (s *ModelAssetService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// beforeSave runs before every commit: file_size always mirrors the stored
// model file and updated_at is refreshed.
func (s *ModelAssetService) beforeSave(ctx context.Context, asset *domain.ModelAsset) error {
	size, err := s.storage.Size(ctx, asset.ModelFile)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", domain.ErrStorage, asset.ModelFile, err)
	}
	asset.FileSize = size
	asset.Touch(s.now())
	return nil
}

func (s *ModelAssetService) deleteBlobs(ctx context.Context, keys ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			log.WithError(err).WithField("key", key).Warn("delete blob failed, file left orphaned")
		}
	}
}

// blobBatch remembers what it wrote so a failed save can take it back.
type blobBatch struct {
	storage ports.BlobStorage
	written []string
}

func (b *blobBatch) put(ctx context.Context, dir string, u *domain.Upload) (string, error) {
	key := objectKey(dir, u.Filename)
	if _, err := b.storage.Put(ctx, key, u.Content); err != nil {
		return "", fmt.Errorf("%w: put %s: %v", domain.ErrStorage, key, err)
	}
	b.written = append(b.written, key)
	return key, nil
}

func (b *blobBatch) discard(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range b.written {
		if err := b.storage.Delete(ctx, key); err != nil {
			log.WithError(err).WithField("key", key).Warn("rollback of uploaded blob failed")
		}
	}
	b.written = nil
}

const (
	maxKeyStem = 60
	maxKeyExt  = 10
)

// objectKey builds "<dir><stem>_<random>.<ext>" from a client file name. Only
// URL-safe characters survive so the key can be used in a URL unescaped.
func objectKey(dir, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := domain.Extension(base)
	stem := base
	if ext != "" {
		stem = base[:strings.LastIndex(base, ".")]
	}

	clean := strings.Trim(keyStem(stem), ".")
	if clean == "" {
		clean = "file"
	}
	if len(clean) > maxKeyStem {
		clean = clean[:maxKeyStem]
	}

	key := dir + clean + "_" + uuid.NewString()[:8]
	if i := strings.IndexFunc(ext, func(r rune) bool { return !isKeyRune(r) }); i >= 0 {
		ext = ext[:i]
	}
	if len(ext) > maxKeyExt {
		ext = ext[:maxKeyExt]
	}
	if ext != "" {
		key += "." + ext
	}
	return key
}

// keyStem drops everything outside [A-Za-z0-9._-]. Spaces become underscores.
func keyStem(s string) string {
	var b strings.Builder
	for _, ch := range s {
		switch {
		case isKeyRune(ch), ch == '.':
			b.WriteRune(ch)
		case ch == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}

func isKeyRune(ch rune) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' || ch == '-' || ch == '_'
}

// trimmedText keeps "not submitted" (nil) apart from a blank value ("").
func trimmedText(v *string) *string {
	if v == nil {
		return nil
	}
	t := domain.TrimText(*v)
	return &t
}

func addAll(verr *domain.ValidationError, field string, msgs []string) {
	for _, m := range msgs {
		verr.Add(field, m)
	}
}

// Package service orchestrates validation, uploads and persistence for
// dream journal operations.
package service

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/yumelog/yumelog/internal/model"
	"github.com/yumelog/yumelog/internal/store"
	"github.com/yumelog/yumelog/internal/uploads"
	"github.com/yumelog/yumelog/internal/validate"
)

// Upload carries an incoming file from the transport layer.
type Upload struct {
	File     io.Reader
	Filename string
}

type Service struct {
	store   store.Store
	uploads *uploads.Saver
}

func New(st store.Store, up *uploads.Saver) *Service {
	return &Service{store: st, uploads: up}
}

// CreateDream validates a submission and persists it. Validation messages
// come back as the middle return; nothing is persisted (including the
// upload) when any are present.
func (s *Service) CreateDream(ctx context.Context, form validate.DreamForm, image *Upload) (*model.Dream, []string, error) {
	if image != nil {
		form.ImageFilename = image.Filename
	}
	d, errs := form.Dream()
	if len(errs) > 0 {
		return nil, errs, nil
	}
	if image != nil {
		name, err := s.uploads.Save(image.File, image.Filename)
		if err != nil {
			return nil, nil, err
		}
		d.ImagePath = &name
	}
	created, err := s.store.Dreams().Create(ctx, d)
	if err != nil {
		return nil, nil, err
	}
	return created, nil, nil
}

// UpdateDream validates a submission and rewrites the entry in place. Tags
// are fully replaced and sleep minutes recomputed; the existing image is
// kept unless a new upload is accepted.
func (s *Service) UpdateDream(ctx context.Context, id int64, form validate.DreamForm, image *Upload) (*model.Dream, []string, error) {
	existing, err := s.store.Dreams().Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if image != nil {
		form.ImageFilename = image.Filename
	}
	d, errs := form.Dream()
	if len(errs) > 0 {
		return nil, errs, nil
	}
	d.ID = id
	d.ImagePath = existing.ImagePath
	if image != nil {
		name, err := s.uploads.Save(image.File, image.Filename)
		if err != nil {
			return nil, nil, err
		}
		d.ImagePath = &name
	}
	updated, err := s.store.Dreams().Update(ctx, d)
	if err != nil {
		return nil, nil, err
	}
	return updated, nil, nil
}

func (s *Service) GetDream(ctx context.Context, id int64) (*model.Dream, error) {
	return s.store.Dreams().Get(ctx, id)
}

// DeleteDream removes the entry; tag memberships cascade in the store. The
// upload file removal is best-effort.
func (s *Service) DeleteDream(ctx context.Context, id int64) error {
	d, err := s.store.Dreams().Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Dreams().Delete(ctx, id); err != nil {
		return err
	}
	if d.ImagePath != nil {
		if err := s.uploads.Remove(*d.ImagePath); err != nil {
			log.Warn().Err(err).Str("image", *d.ImagePath).Msg("failed to remove upload")
		}
	}
	return nil
}

// Search lists entries matching the raw query parameters. The tag parameter
// is a comma-separated term list normalized the same way as submissions.
func (s *Service) Search(ctx context.Context, query, from, to, tag string) ([]*model.Dream, error) {
	return s.store.Dreams().Search(ctx, model.SearchRequest{
		Query:    query,
		From:     from,
		To:       to,
		TagTerms: validate.NormalizeList(tag),
	})
}

func (s *Service) TagIndex(ctx context.Context) (model.TagSet, error) {
	return s.store.Tags().Index(ctx)
}

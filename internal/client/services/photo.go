package services

import (
	"context"
	"fmt"
	"path"

	"github.com/dmitrijs2005/sumdays/internal/client/models"
	"github.com/dmitrijs2005/sumdays/internal/client/worker"
	"github.com/dmitrijs2005/sumdays/internal/filex"
	"github.com/dmitrijs2005/sumdays/internal/netx"
	"github.com/dmitrijs2005/sumdays/internal/wire"
)

// Presigner asks the server for photo URLs.
type Presigner interface {
	PresignPhotoUpload(ctx context.Context, token string) (*wire.PresignResponse, error)
	PresignPhotoDownload(ctx context.Context, token, key string) (*wire.PresignResponse, error)
}

// Package-level seams for the object storage transfer.
var (
	uploadPhoto   = netx.UploadToPresignedURL
	downloadPhoto = netx.DownloadFromPresignedURL
	readPhoto     = filex.ReadPhoto
	writePhoto    = filex.WritePhoto
)

type PhotoService interface {
	Attach(ctx context.Context, date, path string) (*models.DailyEntry, error)
	Link(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, dest string) (string, error)
}

type photoService struct {
	sessions  worker.Sessions
	presigner Presigner
	journal   JournalService
}

func NewPhotoService(sessions worker.Sessions, p Presigner, journal JournalService) PhotoService {
	return &photoService{sessions: sessions, presigner: p, journal: journal}
}

// Attach uploads the file at path and records its key on the diary of date.
// Unlike memo edits it needs the server, so it fails when offline.
func (s *photoService) Attach(ctx context.Context, date, path string) (*models.DailyEntry, error) {
	if err := checkDate(date); err != nil {
		return nil, err
	}
	lease, ok := s.sessions.Current()
	if !ok {
		return nil, worker.ErrAuthMissing
	}

	body, contentType, err := readPhoto(path)
	if err != nil {
		return nil, err
	}

	target, err := s.presigner.PresignPhotoUpload(ctx, lease.Token)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	if err := uploadPhoto(ctx, target.URL, body, contentType); err != nil {
		return nil, err
	}

	return s.journal.AddPhoto(ctx, date, target.Key)
}

// Save downloads the photo stored under key into dest and returns the path
// written. A directory dest receives the file under the key's last segment.
func (s *photoService) Save(ctx context.Context, key, dest string) (string, error) {
	url, err := s.Link(ctx, key)
	if err != nil {
		return "", err
	}
	body, err := downloadPhoto(ctx, url)
	if err != nil {
		return "", err
	}
	return writePhoto(dest, path.Base(key), body)
}

func (s *photoService) Link(ctx context.Context, key string) (string, error) {
	lease, ok := s.sessions.Current()
	if !ok {
		return "", worker.ErrAuthMissing
	}
	resp, err := s.presigner.PresignPhotoDownload(ctx, lease.Token, key)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return resp.URL, nil
}

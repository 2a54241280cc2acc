package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"closet-backend/internal/domain"
	"closet-backend/internal/logger"
	"closet-backend/internal/repository"
	"closet-backend/internal/storage"

	"github.com/google/uuid"
)

type garmentService struct {
	repos repository.Repositories
	tx    repository.TxManager
	blobs storage.Storage
}

func NewGarmentService(repos repository.Repositories, tx repository.TxManager, blobs storage.Storage) GarmentService {
	return &garmentService{repos: repos, tx: tx, blobs: blobs}
}

func (s *garmentService) Create(ctx context.Context, input CreateGarmentInput) (*domain.Garment, error) {
	g, err := garmentFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Garments.Create(ctx, g); err != nil {
		return nil, err
	}
	logger.Info("garment created", "garment_id", g.ID, "name", g.Name)
	return g, nil
}

func (s *garmentService) BulkImport(ctx context.Context, inputs []CreateGarmentInput) ([]domain.Garment, error) {
	if len(inputs) == 0 {
		return nil, domain.NewValidationError("import list is empty")
	}
	garments := make([]*domain.Garment, len(inputs))
	for i, input := range inputs {
		g, err := garmentFromInput(input)
		if err != nil {
			return nil, domain.NewValidationError("item %d: %v", i+1, err)
		}
		garments[i] = g
	}

	// All rows or none.
	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		for _, g := range garments {
			if err := r.Garments.Create(ctx, g); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	imported := make([]domain.Garment, len(garments))
	for i, g := range garments {
		imported[i] = *g
	}
	logger.Info("garments imported", "count", len(imported))
	return imported, nil
}

func (s *garmentService) Get(ctx context.Context, id int32) (*domain.Garment, error) {
	g, err := s.repos.Garments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.History, err = s.repos.Garments.ListHistory(ctx, id); err != nil {
		return nil, err
	}
	if g.Images, err = s.repos.Garments.ListImages(ctx, id); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *garmentService) Update(ctx context.Context, id int32, input CreateGarmentInput) (*domain.Garment, error) {
	updated, err := garmentFromInput(input)
	if err != nil {
		return nil, err
	}
	g, err := s.repos.Garments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Name = updated.Name
	g.Category = updated.Category
	g.Size = updated.Size
	g.Measurements = updated.Measurements
	g.RentalPriceCents = updated.RentalPriceCents
	g.DepositPriceCents = updated.DepositPriceCents
	if updated.ImageURL != "" {
		g.ImageURL = updated.ImageURL
	}
	if err := s.repos.Garments.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *garmentService) Delete(ctx context.Context, id int32) error {
	// The existence check runs in the same transaction as the delete; the
	// schema's ON DELETE RESTRICT backstops it.
	return s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		count, err := r.Reservations.CountByGarment(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return &domain.ReferentialConflictError{Entity: "garment", ID: id, DependsOn: "reservations"}
		}
		return r.Garments.Delete(ctx, id)
	})
}

func (s *garmentService) List(ctx context.Context, query string, page, pageSize int32) ([]domain.Garment, int32, error) {
	return s.repos.Garments.List(ctx, query, page, pageSize)
}

func (s *garmentService) SetStatus(ctx context.Context, id int32, status domain.GarmentStatus, note string) (*domain.Garment, error) {
	if !domain.ValidGarmentStatus(status) {
		return nil, domain.NewValidationError("unknown garment status %q", status)
	}
	if note == "" {
		return nil, domain.NewValidationError("a note is required when changing a garment's status")
	}
	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		return r.Garments.SetStatus(ctx, id, status, note)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("garment status changed", "garment_id", id, "status", status)
	return s.Get(ctx, id)
}

func (s *garmentService) AttachImage(ctx context.Context, id int32, fileName string, content io.Reader, setPrimary bool) (*domain.GarmentImage, error) {
	g, err := s.repos.Garments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(fileName)
	key := fmt.Sprintf("garments/%s%s", uuid.New().String(), ext)
	if err := s.blobs.Save(ctx, key, content); err != nil {
		return nil, domain.NewStoreError("save image", err)
	}

	img := &domain.GarmentImage{
		GarmentID: id,
		FileName:  fileName,
		FilePath:  key,
		PublicURL: s.blobs.PublicURL(key),
		IsPrimary: setPrimary || g.ImageURL == "",
	}
	err = s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Garments.CreateImage(ctx, img); err != nil {
			return err
		}
		if img.IsPrimary {
			return r.Garments.SetPrimaryImageURL(ctx, id, img.PublicURL)
		}
		return nil
	})
	if err != nil {
		// The blob is orphaned if the rows fail; drop it on a best-effort
		// basis.
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			logger.Warn("failed to remove orphaned image", "key", key, "error", delErr)
		}
		return nil, err
	}

	logger.Info("garment image attached", "garment_id", id, "key", key, "primary", img.IsPrimary)
	return img, nil
}

func garmentFromInput(input CreateGarmentInput) (*domain.Garment, error) {
	if input.Name == "" {
		return nil, domain.NewValidationError("garment name is required")
	}
	if input.Category == "" {
		return nil, domain.NewValidationError("garment category is required")
	}
	if input.RentalPriceCents < 0 || input.DepositPriceCents < 0 {
		return nil, domain.NewValidationError("prices cannot be negative")
	}
	return &domain.Garment{
		Name:              input.Name,
		Category:          input.Category,
		Size:              input.Size,
		Measurements:      input.Measurements,
		RentalPriceCents:  input.RentalPriceCents,
		DepositPriceCents: input.DepositPriceCents,
		ImageURL:          input.ImageURL,
		RentCount:         0,
		Status:            domain.GarmentStatusAvailable,
	}, nil
}

package service

import (
	"context"
	"errors"
	"sync"

	catalogerrors "hotelier/internal/catalog/errors"
	"hotelier/internal/catalog/repository"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/identifier"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"

	"go.mongodb.org/mongo-driver/mongo"
)

const maxCreateAttempts = 3

// CatalogService manages the staff-facing inventory: rooms and stay
// packages.
type CatalogService interface {
	CreateRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id string) (*model.Room, error)
	GetRooms(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error)
	UpdateRoom(ctx context.Context, id string, updates *model.RoomUpdate) error
	DeleteRoom(ctx context.Context, id string) error

	CreatePackage(ctx context.Context, pkg *model.Package) error
	GetPackage(ctx context.Context, id string) (*model.Package, error)
	GetPackages(ctx context.Context, limit int, offset int64) ([]*model.Package, int64, error)
	UpdatePackage(ctx context.Context, id string, updates *model.PackageUpdate) error
	DeletePackage(ctx context.Context, id string) error
}

type catalogService struct {
	rooms    repository.RoomRepository
	packages repository.PackageRepository
	idgen    *identifier.Generator
	cfg      *config.Config
}

func NewCatalogService(
	rooms repository.RoomRepository,
	packages repository.PackageRepository,
	idgen *identifier.Generator,
	cfg *config.Config,
) CatalogService {
	return &catalogService{
		rooms:    rooms,
		packages: packages,
		idgen:    idgen,
		cfg:      cfg,
	}
}

func (s *catalogService) CreateRoom(ctx context.Context, room *model.Room) error {
	if err := validation.Struct(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		id, err := s.idgen.Next(ctx, identifier.PrefixInventory, s.rooms)
		if err != nil {
			return apperrors.Internal("Failed to generate room ID", err)
		}
		room.ID = id

		err = s.rooms.Create(ctx, room)
		if err == nil {
			s.cfg.Log.Info("Room created", "id", room.ID, "number", room.Number)
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return apperrors.Internal("Failed to create room", err)
		}

		taken, probeErr := s.rooms.ExistsByNumber(ctx, room.Number)
		if probeErr != nil {
			return apperrors.Internal("Failed to verify room number", probeErr)
		}
		if taken {
			return apperrors.Conflict("A room with this number already exists")
		}
		s.cfg.Log.Warn("Room ID collided, regenerating", "id", id, "attempt", attempt)
	}
	return apperrors.Internal("Failed to allocate a unique room ID", nil)
}

func (s *catalogService) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}
	return room, nil
}

func (s *catalogService) GetRooms(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error) {
	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.rooms.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count rooms", "error", err)
			errCount = apperrors.Internal("Failed to count rooms", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		rooms, err = s.rooms.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list rooms", "error", err)
			errFind = apperrors.Internal("Failed to retrieve rooms", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return rooms, count, nil
}

func (s *catalogService) UpdateRoom(ctx context.Context, id string, updates *model.RoomUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	existing, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrRoomNotFound) {
			return apperrors.NotFoundWithID("Room", id)
		}
		return apperrors.Internal("Failed to check room existence", err)
	}

	if err := validation.Struct(updates); err != nil {
		s.cfg.Log.Warn("Room update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := *existing
	if updates.Type != "" {
		merged.Type = updates.Type
	}
	if updates.Rate != nil {
		merged.Rate = *updates.Rate
	}
	if updates.Capacity != nil {
		merged.Capacity = *updates.Capacity
	}
	if updates.Available != nil {
		merged.Available = *updates.Available
	}

	if err := s.rooms.Update(ctx, id, &merged); err != nil {
		return apperrors.Internal("Failed to update room", err)
	}

	s.cfg.Log.Info("Room updated", "id", id)
	return nil
}

func (s *catalogService) DeleteRoom(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	if err := s.rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, catalogerrors.ErrRoomNotFound) {
			return apperrors.NotFoundWithID("Room", id)
		}
		return apperrors.Internal("Failed to delete room", err)
	}

	s.cfg.Log.Info("Room deleted", "id", id)
	return nil
}

func (s *catalogService) CreatePackage(ctx context.Context, pkg *model.Package) error {
	if err := validation.Struct(pkg); err != nil {
		s.cfg.Log.Warn("Package validation failed", "error", err)
		return apperrors.Validation("Package validation failed", map[string]any{"error": err.Error()})
	}

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		id, err := s.idgen.Next(ctx, identifier.PrefixPackage, s.packages)
		if err != nil {
			return apperrors.Internal("Failed to generate package ID", err)
		}
		pkg.ID = id

		err = s.packages.Create(ctx, pkg)
		if err == nil {
			s.cfg.Log.Info("Package created", "id", pkg.ID, "name", pkg.Name)
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return apperrors.Internal("Failed to create package", err)
		}
		s.cfg.Log.Warn("Package ID collided, regenerating", "id", id, "attempt", attempt)
	}
	return apperrors.Internal("Failed to allocate a unique package ID", nil)
}

func (s *catalogService) GetPackage(ctx context.Context, id string) (*model.Package, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Package ID cannot be empty")
	}

	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrPackageNotFound) {
			return nil, apperrors.NotFoundWithID("Package", id)
		}
		return nil, apperrors.Internal("Failed to retrieve package", err)
	}
	return pkg, nil
}

func (s *catalogService) GetPackages(ctx context.Context, limit int, offset int64) ([]*model.Package, int64, error) {
	var count int64
	var packages []*model.Package
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.packages.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count packages", "error", err)
			errCount = apperrors.Internal("Failed to count packages", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		packages, err = s.packages.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list packages", "error", err)
			errFind = apperrors.Internal("Failed to retrieve packages", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return packages, count, nil
}

func (s *catalogService) UpdatePackage(ctx context.Context, id string, updates *model.PackageUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Package ID cannot be empty")
	}

	existing, err := s.packages.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrPackageNotFound) {
			return apperrors.NotFoundWithID("Package", id)
		}
		return apperrors.Internal("Failed to check package existence", err)
	}

	if err := validation.Struct(updates); err != nil {
		s.cfg.Log.Warn("Package update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := *existing
	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Price != nil {
		merged.Price = *updates.Price
	}
	if updates.Inclusions != nil {
		merged.Inclusions = *updates.Inclusions
	}

	if err := s.packages.Update(ctx, id, &merged); err != nil {
		return apperrors.Internal("Failed to update package", err)
	}

	s.cfg.Log.Info("Package updated", "id", id)
	return nil
}

func (s *catalogService) DeletePackage(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Package ID cannot be empty")
	}

	if err := s.packages.Delete(ctx, id); err != nil {
		if errors.Is(err, catalogerrors.ErrPackageNotFound) {
			return apperrors.NotFoundWithID("Package", id)
		}
		return apperrors.Internal("Failed to delete package", err)
	}

	s.cfg.Log.Info("Package deleted", "id", id)
	return nil
}

package service

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"quinta/internal/errors"
	"quinta/internal/logger"
	"quinta/internal/models"
	"quinta/internal/repository"
	"quinta/internal/search"
)

// RoomRepo is the slice of room storage the service needs.
type RoomRepo interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id int64) (*models.Room, error)
	GetImageData(ctx context.Context, id int64) ([]byte, error)
	List(ctx context.Context) ([]models.Room, error)
	ListAvailable(ctx context.Context, checkIn, checkOut models.Date, roomType string) ([]models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	UpdateImage(ctx context.Context, id int64, imageData []byte) error
	Delete(ctx context.Context, id int64) error
}

type RoomService struct {
	roomRepo  RoomRepo
	roomIndex *search.RoomIndex
}

func NewRoomService(roomRepo RoomRepo, roomIndex *search.RoomIndex) *RoomService {
	return &RoomService{
		roomRepo:  roomRepo,
		roomIndex: roomIndex,
	}
}

func validRoomType(roomType string) bool {
	return slices.Contains(models.RoomTypes, roomType)
}

// validateImage accepts JPEG and PNG uploads only, sniffed from content,
// not trusted from the filename.
func validateImage(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	switch http.DetectContentType(data) {
	case "image/jpeg", "image/png":
		return nil
	default:
		return errors.Validation("room image must be a JPEG or PNG file")
	}
}

func (s *RoomService) Create(ctx context.Context, req *models.CreateRoomRequest, imageData []byte) (*models.Room, error) {
	if !validRoomType(req.Type) {
		return nil, errors.Validation(fmt.Sprintf("invalid room type %q", req.Type))
	}
	if req.PricePerNight <= 0 {
		return nil, errors.Validation("price per night must be positive")
	}
	if err := validateImage(imageData); err != nil {
		return nil, err
	}

	room := &models.Room{
		RoomNumber:    req.RoomNumber,
		Type:          req.Type,
		PricePerNight: req.PricePerNight,
		Capacity:      req.Capacity,
		Title:         req.Title,
		Description:   req.Description,
		ImageData:     imageData,
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		if repository.IsUniqueViolation(err, "rooms_room_number_key") {
			return nil, errors.Conflict(fmt.Sprintf("room number %d already exists", req.RoomNumber))
		}
		return nil, errors.Internal(fmt.Errorf("failed to create room: %w", err))
	}

	s.reindex(ctx, room)
	return room, nil
}

// Update patches a room. Nil fields keep their current value; a non-empty
// image replaces the stored one.
func (s *RoomService) Update(ctx context.Context, req *models.UpdateRoomRequest, imageData []byte) (*models.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to get room: %w", err))
	}
	if room == nil {
		return nil, errors.NotFound("room not found")
	}

	if req.Type != nil {
		if !validRoomType(*req.Type) {
			return nil, errors.Validation(fmt.Sprintf("invalid room type %q", *req.Type))
		}
		room.Type = *req.Type
	}
	if req.RoomNumber != nil {
		room.RoomNumber = *req.RoomNumber
	}
	if req.PricePerNight != nil {
		if *req.PricePerNight <= 0 {
			return nil, errors.Validation("price per night must be positive")
		}
		room.PricePerNight = *req.PricePerNight
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Title != nil {
		room.Title = *req.Title
	}
	if req.Description != nil {
		room.Description = *req.Description
	}

	if err := s.roomRepo.Update(ctx, room); err != nil {
		if repository.IsUniqueViolation(err, "rooms_room_number_key") {
			return nil, errors.Conflict(fmt.Sprintf("room number %d already exists", room.RoomNumber))
		}
		return nil, errors.Internal(fmt.Errorf("failed to update room: %w", err))
	}

	if len(imageData) > 0 {
		if err := validateImage(imageData); err != nil {
			return nil, err
		}
		if err := s.roomRepo.UpdateImage(ctx, room.ID, imageData); err != nil {
			return nil, errors.Internal(fmt.Errorf("failed to update room image: %w", err))
		}
	}

	s.reindex(ctx, room)
	return room, nil
}

func (s *RoomService) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to get room: %w", err))
	}
	if room == nil {
		return nil, errors.NotFound("room not found")
	}
	return room, nil
}

func (s *RoomService) GetImage(ctx context.Context, id int64) ([]byte, error) {
	data, err := s.roomRepo.GetImageData(ctx, id)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to get room image: %w", err))
	}
	if data == nil {
		return nil, errors.NotFound("room image not found")
	}
	return data, nil
}

func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to list rooms: %w", err))
	}
	return rooms, nil
}

// ListAvailable returns rooms free for the whole [checkIn, checkOut] range,
// optionally narrowed to one type.
func (s *RoomService) ListAvailable(ctx context.Context, checkIn, checkOut models.Date, roomType string) ([]models.Room, error) {
	if err := validateDateRange(checkIn, checkOut); err != nil {
		return nil, err
	}
	if roomType != "" && !validRoomType(roomType) {
		return nil, errors.Validation(fmt.Sprintf("invalid room type %q", roomType))
	}

	rooms, err := s.roomRepo.ListAvailable(ctx, checkIn, checkOut, roomType)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to list available rooms: %w", err))
	}
	return rooms, nil
}

func (s *RoomService) Types() []string {
	return models.RoomTypes
}

// Search matches rooms by free text via the search index, then loads the
// authoritative rows from Postgres.
func (s *RoomService) Search(ctx context.Context, input string) ([]models.Room, error) {
	if input == "" {
		return nil, errors.Validation("search input must not be blank")
	}
	if s.roomIndex == nil {
		return nil, errors.External("room search is unavailable", nil)
	}

	ids, err := s.roomIndex.SearchIDs(ctx, input)
	if err != nil {
		return nil, errors.External("room search failed", err)
	}

	rooms := make([]models.Room, 0, len(ids))
	for _, id := range ids {
		room, err := s.roomRepo.GetByID(ctx, id)
		if err != nil {
			return nil, errors.Internal(fmt.Errorf("failed to load room %d: %w", id, err))
		}
		if room != nil {
			rooms = append(rooms, *room)
		}
	}
	return rooms, nil
}

func (s *RoomService) Delete(ctx context.Context, id int64) error {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return errors.Internal(fmt.Errorf("failed to get room: %w", err))
	}
	if room == nil {
		return errors.NotFound("room not found")
	}

	if err := s.roomRepo.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return errors.Integrity("room has bookings and cannot be deleted")
		}
		return errors.Internal(fmt.Errorf("failed to delete room: %w", err))
	}

	if s.roomIndex != nil {
		if err := s.roomIndex.DeleteRoom(ctx, id); err != nil {
			logger.WithContext(ctx).Error("Failed to remove room from search index",
				"error", err, "room_id", id)
		}
	}
	return nil
}

// reindex keeps the search index in sync on a best-effort basis. Postgres
// is the source of truth.
func (s *RoomService) reindex(ctx context.Context, room *models.Room) {
	if s.roomIndex == nil {
		return
	}
	if err := s.roomIndex.IndexRoom(ctx, room); err != nil {
		logger.WithContext(ctx).Error("Failed to index room",
			"error", err, "room_id", room.ID)
	}
}

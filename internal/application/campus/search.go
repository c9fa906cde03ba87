package campus

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/campus-explorer-api/internal/domain"
	"github.com/campus-explorer-api/internal/pkg/id"
)

const (
	maxBuildingHits = 10
	maxRoomHits     = 20
)

// Search matches buildings by name, category or description and rooms by number or name,
// case-insensitively. An empty universityID searches every university.
func (s *service) Search(ctx context.Context, query, universityID string) (*domain.SearchResult, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, fmt.Errorf("search query is required: %w", domain.ErrBadRequest)
	}

	var (
		buildings []domain.Building
		rooms     []domain.Room
		err       error
	)
	if universityID != "" {
		if !id.Valid(universityID) {
			return nil, fmt.Errorf("invalid university id: %w", domain.ErrBadRequest)
		}
		if buildings, err = s.buildings.ListByUniversity(ctx, universityID); err != nil {
			return nil, err
		}
		if rooms, err = s.rooms.ListByUniversity(ctx, universityID); err != nil {
			return nil, err
		}
	} else {
		if buildings, err = s.buildings.List(ctx); err != nil {
			return nil, err
		}
		if rooms, err = s.rooms.List(ctx); err != nil {
			return nil, err
		}
	}

	res := &domain.SearchResult{Buildings: []domain.Building{}, Rooms: []domain.Room{}}
	sort.Slice(buildings, func(i, j int) bool { return buildings[i].Name < buildings[j].Name })
	for _, b := range buildings {
		if len(res.Buildings) == maxBuildingHits {
			break
		}
		if contains(b.Name, q) || containsPtr(b.Category, q) || containsPtr(b.Description, q) {
			res.Buildings = append(res.Buildings, b)
		}
	}
	sortRooms(rooms)
	for _, r := range rooms {
		if len(res.Rooms) == maxRoomHits {
			break
		}
		if contains(r.RoomNumber, q) || contains(r.RoomName, q) {
			res.Rooms = append(res.Rooms, r)
		}
	}
	return res, nil
}

func contains(field, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(field), lowerQuery)
}

func containsPtr(field *string, lowerQuery string) bool {
	return field != nil && contains(*field, lowerQuery)
}

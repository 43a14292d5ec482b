package watchlists

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const itemsTable = "movie_list_items"

var (
	ErrListTypeNotFound = apperr.NotFound("List type not found")
	ErrListTypeTaken    = apperr.Conflict("A list type with this name already exists")
	ErrListNotFound     = apperr.NotFound("List not found")
	ErrNotListOwner     = apperr.Forbidden("You can only change your own lists")
	ErrAlreadyInList    = apperr.Conflict("Movie is already in this list")
	ErrNotInList        = apperr.NoOp("Movie is not in this list")
)

type ListService struct {
	db *gorm.DB
}

func NewListService(db *gorm.DB) *ListService {
	return &ListService{db: db}
}

// CreateListType adds a list category. Names are unique ignoring case.
func (s *ListService) CreateListType(req *dto.CreateListTypeRequest) (*ListType, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("Name is required")
	}

	var n int64
	if err := s.db.Model(&ListType{}).Where("LOWER(name) = ?", strings.ToLower(name)).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrListTypeTaken
	}

	lt := &ListType{Name: name, Description: strings.TrimSpace(req.Description)}
	if err := s.db.Create(lt).Error; err != nil {
		return nil, err
	}
	return lt, nil
}

func (s *ListService) ListTypes() ([]ListType, error) {
	types := []ListType{}
	err := s.db.Order("name ASC").Find(&types).Error
	return types, err
}

func (s *ListService) CreateList(userID uuid.UUID, req *dto.CreateListRequest) (*MovieList, error) {
	var lt ListType
	if err := s.db.First(&lt, "id = ?", req.ListTypeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrListTypeNotFound
		}
		return nil, err
	}

	list := &MovieList{
		UserID:      userID,
		ListTypeID:  lt.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if list.Name == "" {
		return nil, apperr.Validation("Name is required")
	}
	if err := s.db.Create(list).Error; err != nil {
		return nil, err
	}
	list.ListType = &lt
	return list, nil
}

// GetList returns a list with its type and movies.
func (s *ListService) GetList(listID uuid.UUID) (*MovieList, error) {
	var list MovieList
	err := s.db.Preload("ListType").
		Preload("Movies", func(db *gorm.DB) *gorm.DB { return db.Order("movies.title ASC") }).
		First(&list, "id = ?", listID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	return &list, nil
}

func (s *ListService) UserLists(userID uuid.UUID) ([]MovieList, error) {
	lists := []MovieList{}
	err := s.db.Preload("ListType").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error
	return lists, err
}

func (s *ListService) AddMovie(listID, userID, movieID uuid.UUID) (*MovieList, error) {
	list, err := s.ownedList(listID, userID)
	if err != nil {
		return nil, err
	}

	var movie models.Movie
	if err := s.db.First(&movie, "id = ?", movieID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, services.ErrMovieNotFound
		}
		return nil, err
	}

	in, err := s.contains(listID, movieID)
	if err != nil {
		return nil, err
	}
	if in {
		return nil, ErrAlreadyInList
	}
	if err := s.db.Model(list).Association("Movies").Append(&movie); err != nil {
		return nil, err
	}
	return s.GetList(listID)
}

func (s *ListService) RemoveMovie(listID, userID, movieID uuid.UUID) error {
	if _, err := s.ownedList(listID, userID); err != nil {
		return err
	}
	result := s.db.Exec("DELETE FROM "+itemsTable+" WHERE movie_list_id = ? AND movie_id = ?", listID, movieID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotInList
	}
	return nil
}

// DeleteList removes a list owned by userID.
func (s *ListService) DeleteList(listID, userID uuid.UUID) error {
	list, err := s.ownedList(listID, userID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+itemsTable+" WHERE movie_list_id = ?", list.ID).Error; err != nil {
			return err
		}
		return tx.Delete(list).Error
	})
}

func (s *ListService) DeleteUserData(tx *gorm.DB, userID uuid.UUID) error {
	listIDs := tx.Model(&MovieList{}).Select("id").Where("user_id = ?", userID)
	if err := tx.Exec("DELETE FROM "+itemsTable+" WHERE movie_list_id IN (?)", listIDs).Error; err != nil {
		return err
	}
	return tx.Where("user_id = ?", userID).Delete(&MovieList{}).Error
}

func (s *ListService) DeleteMovieData(tx *gorm.DB, movieID uuid.UUID) error {
	return tx.Exec("DELETE FROM "+itemsTable+" WHERE movie_id = ?", movieID).Error
}

func (s *ListService) ownedList(listID, userID uuid.UUID) (*MovieList, error) {
	var list MovieList
	if err := s.db.First(&list, "id = ?", listID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	if list.UserID != userID {
		return nil, ErrNotListOwner
	}
	return &list, nil
}

func (s *ListService) contains(listID, movieID uuid.UUID) (bool, error) {
	var n int64
	err := s.db.Table(itemsTable).
		Where("movie_list_id = ? AND movie_id = ?", listID, movieID).
		Count(&n).Error
	return n > 0, err
}

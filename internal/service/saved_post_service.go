package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/petguard/petguard_go_server/internal/model"
	"github.com/petguard/petguard_go_server/internal/model/dto"
	"github.com/petguard/petguard_go_server/internal/repository"
)

var (
	ErrAlreadySaved      = errors.New("已经收藏过该文章")
	ErrSavedPostNotFound = errors.New("收藏记录不存在")
	ErrSavedPermission   = errors.New("无权操作此收藏")
)

type SavedPostService struct {
	savedRepo   *repository.SavedPostRepository
	postRepo    *repository.PostRepository
	postService *PostService
}

func NewSavedPostService(
	savedRepo *repository.SavedPostRepository,
	postRepo *repository.PostRepository,
	postService *PostService,
) *SavedPostService {
	return &SavedPostService{
		savedRepo:   savedRepo,
		postRepo:    postRepo,
		postService: postService,
	}
}

// Save 收藏文章
func (s *SavedPostService) Save(userID int64, req *dto.SavePostRequest) (*dto.SavedPostItem, error) {
	if _, err := s.postRepo.GetActiveByID(req.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	exists, err := s.savedRepo.Exists(userID, req.PostID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySaved
	}

	saved := &model.SavedPost{UserID: userID, PostID: req.PostID}
	if err := s.savedRepo.Create(saved); err != nil {
		return nil, err
	}

	return buildSavedPostItem(saved), nil
}

// List 获取用户的收藏列表，附带文章详情
func (s *SavedPostService) List(userID int64) ([]*dto.SavedPostItem, error) {
	saved, err := s.savedRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SavedPostItem, 0, len(saved))
	for _, record := range saved {
		item := buildSavedPostItem(record)

		// 收藏后被删除的文章仍保留收藏记录，文章详情为空
		post, err := s.postService.GetByID(record.PostID)
		if err == nil {
			item.Post = post
		} else if !errors.Is(err, ErrPostNotFound) {
			return nil, err
		}

		items = append(items, item)
	}
	return items, nil
}

// Get 获取单条收藏，附带文章详情
func (s *SavedPostService) Get(userID, savedID int64) (*dto.SavedPostItem, error) {
	saved, err := s.savedRepo.GetByID(savedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSavedPostNotFound
		}
		return nil, err
	}

	if saved.UserID != userID {
		return nil, ErrSavedPermission
	}

	item := buildSavedPostItem(saved)
	post, err := s.postService.GetByID(saved.PostID)
	if err == nil {
		item.Post = post
	} else if !errors.Is(err, ErrPostNotFound) {
		return nil, err
	}
	return item, nil
}

// Unsave 取消收藏
func (s *SavedPostService) Unsave(userID, savedID int64) error {
	saved, err := s.savedRepo.GetByID(savedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSavedPostNotFound
		}
		return err
	}

	if saved.UserID != userID {
		return ErrSavedPermission
	}

	if err := s.savedRepo.Delete(savedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSavedPostNotFound
		}
		return err
	}
	return nil
}

func buildSavedPostItem(saved *model.SavedPost) *dto.SavedPostItem {
	return &dto.SavedPostItem{
		ID:        saved.ID,
		PostID:    saved.PostID,
		UserID:    saved.UserID,
		CreatedAt: saved.CreatedAt.Format(time.RFC3339),
	}
}

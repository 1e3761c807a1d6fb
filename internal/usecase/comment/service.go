package comment

import (
	"context"
	"strings"

	"github.com/regcomments/registry-comments/domain"
	"github.com/regcomments/registry-comments/internal/repository"
)

// Service drives the comment store from the resource management
// operations. Every call runs in one transaction it owns.
type Service struct {
	commentRepo domain.CommentRepository
	locator     domain.ResourceLocator
	transactor  repository.Transactor
}

var _ domain.CommentUsecase = (*Service)(nil)

// NewService will create a new comment service object
func NewService(commentRepo domain.CommentRepository, locator domain.ResourceLocator, transactor repository.Transactor) *Service {
	return &Service{
		commentRepo: commentRepo,
		locator:     locator,
		transactor:  transactor,
	}
}

// resolveOwner fills in the display path of owner when the caller did not.
func (s *Service) resolveOwner(ctx context.Context, owner domain.ResourceID) (domain.ResourceID, error) {
	if owner.Path != "" {
		return owner, nil
	}

	name := owner.Name
	if owner.Collection {
		name = ""
	}
	path, ok, err := s.locator.ResolvePath(ctx, owner.PathID, name, 0, false)
	if err != nil {
		return owner, err
	}
	if !ok {
		return owner, domain.ErrNotFound
	}
	owner.Path = path
	return owner, nil
}

func (s *Service) AddComment(ctx context.Context, owner domain.ResourceID, userID, text string) (res *domain.Comment, err error) {
	if strings.TrimSpace(text) == "" || userID == "" {
		return nil, domain.ErrBadParamInput
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		owner, err := s.resolveOwner(ctx, owner)
		if err != nil {
			return err
		}

		id, err := s.commentRepo.CreateComment(ctx, owner, userID, text)
		if err != nil {
			return err
		}

		res, err = s.commentRepo.GetComment(ctx, id, owner.Path)
		if err != nil {
			return err
		}
		if res == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) GetComment(ctx context.Context, id int64) (*domain.Comment, error) {
	paths, err := s.commentRepo.GetResourcePathsOfComments(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(paths) != 1 || paths[0] == nil {
		return nil, domain.ErrNotFound
	}

	ownerPath, _, ok := domain.SplitCommentPath(*paths[0])
	if !ok {
		return nil, domain.ErrNotFound
	}

	res, err := s.commentRepo.GetComment(ctx, id, ownerPath)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	return res, nil
}

func (s *Service) ListComments(ctx context.Context, owner domain.ResourceID) ([]domain.Comment, error) {
	owner, err := s.resolveOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.GetComments(ctx, owner)
}

func (s *Service) EditComment(ctx context.Context, id int64, text string) (res *domain.Comment, err error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrBadParamInput
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.commentRepo.UpdateComment(ctx, id, text); err != nil {
			return err
		}
		res, err = s.GetComment(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) DeleteComment(ctx context.Context, id int64) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.commentRepo.DeleteComment(ctx, id)
	})
}

func (s *Service) CopyResourceComments(ctx context.Context, source, target domain.ResourceID) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		source, err := s.resolveOwner(ctx, source)
		if err != nil {
			return err
		}
		target, err := s.resolveOwner(ctx, target)
		if err != nil {
			return err
		}
		return s.commentRepo.CopyComments(ctx, &source, &target)
	})
}

func (s *Service) MoveResourceComments(ctx context.Context, source, target domain.ResourceID) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.commentRepo.MoveComments(ctx, source, target)
	})
}

func (s *Service) MovePathComments(ctx context.Context, source, target domain.ResourceID) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.commentRepo.MoveCommentPaths(ctx, source, target)
	})
}

func (s *Service) PurgeResourceComments(ctx context.Context, owner domain.ResourceID) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.commentRepo.RemoveComments(ctx, owner)
	})
}

func (s *Service) PurgeVersionComments(ctx context.Context, version int64) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.commentRepo.RemoveVersionComments(ctx, version)
	})
}

func (s *Service) ResolveCommentPaths(ctx context.Context, ids []int64) ([]*string, error) {
	return s.commentRepo.GetResourcePathsOfComments(ctx, ids)
}

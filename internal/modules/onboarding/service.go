package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"roofestimator/internal/backend"
)

// DraftRepository is the persistence the service needs.
type DraftRepository interface {
	Load(ctx context.Context, userID int64) (*Wizard, error)
	Save(ctx context.Context, userID int64, w *Wizard) error
	Delete(ctx context.Context, userID int64) error
}

// UserInvalidator drops a cached backend user once onboarding changed it.
type UserInvalidator interface {
	Invalidate(ctx context.Context, email string) error
}

type Service struct {
	drafts    DraftRepository
	submitter Submitter
	users     UserInvalidator
	loggerf   func(format string, args ...interface{})

	mu    sync.Mutex
	locks map[int64]*userLock
}

// userLock is dropped from the map once no request holds or waits on it.
type userLock struct {
	sync.Mutex
	refs int
}

func NewService(drafts DraftRepository, submitter Submitter, users UserInvalidator) *Service {
	return &Service{
		drafts:    drafts,
		submitter: submitter,
		users:     users,
		loggerf:   log.Printf,
		locks:     map[int64]*userLock{},
	}
}

// lock serialises requests of one user so two tabs cannot interleave
// load-modify-save on the same draft.
func (s *Service) lock(userID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.mu.Unlock()
	}
}

func (s *Service) load(ctx context.Context, user *backend.User) (*Wizard, error) {
	w, err := s.drafts.Load(ctx, user.ID)
	if errors.Is(err, ErrDraftNotFound) {
		return NewWizard(user.Email), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	// identity email always wins over whatever was stored
	w.Profile.Email = user.Email
	if w.Touched == nil {
		w.Touched = map[string]bool{}
	}
	return w, nil
}

// Get returns the user's wizard, starting a fresh one when none is stored.
func (s *Service) Get(ctx context.Context, user *backend.User) (*Wizard, error) {
	unlock := s.lock(user.ID)
	defer unlock()
	return s.load(ctx, user)
}

// Update applies fn to the stored wizard and saves the result. The wizard is
// saved even when fn fails, since failed transitions still mark fields touched.
func (s *Service) Update(ctx context.Context, user *backend.User, fn func(w *Wizard) error) (*Wizard, error) {
	unlock := s.lock(user.ID)
	defer unlock()

	w, err := s.load(ctx, user)
	if err != nil {
		return nil, err
	}

	opErr := fn(w)
	if err := s.drafts.Save(ctx, user.ID, w); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return w, opErr
}

// Submit runs the final step. On success the draft is removed and the cached
// backend user is invalidated, because onboarding changed it.
func (s *Service) Submit(ctx context.Context, user *backend.User) (*Wizard, error) {
	unlock := s.lock(user.ID)
	defer unlock()

	w, err := s.load(ctx, user)
	if err != nil {
		return nil, err
	}

	submitErr := w.Submit(ctx, user.ID, s.submitter)
	if submitErr != nil {
		s.loggerf("level=error msg=onboarding submit failed user_id=%d state=%s err=%v", user.ID, w.State, submitErr)
		if err := s.drafts.Save(ctx, user.ID, w); err != nil {
			s.loggerf("level=error msg=save draft after failed submit user_id=%d err=%v", user.ID, err)
		}
		return w, submitErr
	}

	s.loggerf("level=info msg=onboarding submitted user_id=%d", user.ID)
	if err := s.drafts.Delete(ctx, user.ID); err != nil {
		s.loggerf("level=warn msg=delete draft failed user_id=%d err=%v", user.ID, err)
	}
	if s.users != nil {
		if err := s.users.Invalidate(ctx, user.Email); err != nil {
			s.loggerf("level=warn msg=user cache invalidate failed email=%s err=%v", user.Email, err)
		}
	}
	return w, nil
}

// Reset discards the stored draft.
func (s *Service) Reset(ctx context.Context, user *backend.User) (*Wizard, error) {
	unlock := s.lock(user.ID)
	defer unlock()

	if err := s.drafts.Delete(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("delete draft: %w", err)
	}
	return NewWizard(user.Email), nil
}

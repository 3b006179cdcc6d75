package usermovies

import (
	"context"
	"strings"
	"sync"
	"time"

	"soulfilmes/pkg/logger"
	"soulfilmes/pkg/metrics"
	"soulfilmes/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one operator's page state: the user list, the externally held
// selected user and the modal opened for it. It is the modal's Host.
type Session struct {
	ID     string
	Modal  *Modal
	Toasts *Toasts

	dir UserDirectory
	log *zap.SugaredLogger

	mu         sync.Mutex
	selected   string
	users      []user.User
	usersFresh bool
	lastSeen   time.Time
}

// RefreshUsers marks the cached user list stale.
func (s *Session) RefreshUsers(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usersFresh = false
}

func (s *Session) ClearSelectedUser(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// SelectUser records the user the modal is shown for.
func (s *Session) SelectUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = strings.TrimSpace(id)
}

func (s *Session) SelectedUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Users returns the host user list, fetching it when stale. A failed fetch
// keeps serving the previous list.
func (s *Session) Users(ctx context.Context) ([]user.User, error) {
	s.mu.Lock()
	if s.usersFresh || s.dir == nil {
		users := s.users
		s.mu.Unlock()
		return users, nil
	}
	s.mu.Unlock()

	users, err := s.dir.ListUsers(ctx)
	if err != nil {
		s.log.Errorw("list users failed", "session_id", s.ID, "error", err)
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.users, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
	s.usersFresh = true
	return users, nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

type RegistryOptions struct {
	Gateway    Gateway
	Directory  UserDirectory
	Logger     *zap.SugaredLogger
	Metrics    *metrics.UserMovies
	ReturnPath string
}

// Registry keeps one Session per operator, keyed by an opaque session id.
type Registry struct {
	opts RegistryOptions
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(opts RegistryOptions) *Registry {
	if opts.Logger == nil {
		opts.Logger = logger.NOOPLogger
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Noop()
	}
	return &Registry{
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Session returns the session for id, creating a new one with a fresh id
// when id is empty or unknown.
func (r *Registry) Session(id string) *Session {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		s.touch(r.now())
		return s
	}

	s = r.newSession()
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.opts.Metrics.Sessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()
	return s
}

func (r *Registry) newSession() *Session {
	s := &Session{
		ID:       uuid.NewString(),
		Toasts:   new(Toasts),
		dir:      r.opts.Directory,
		log:      r.opts.Logger,
		lastSeen: r.now(),
	}
	s.Modal = NewModal(Options{
		Gateway:    r.opts.Gateway,
		Notifier:   s.Toasts,
		Host:       s,
		Logger:     r.opts.Logger.With("session_id", s.ID),
		Metrics:    r.opts.Metrics,
		ReturnPath: r.opts.ReturnPath,
	})
	return s
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if s.idleSince(now) > maxIdle {
			delete(r.sessions, id)
			removed++
		}
	}
	r.opts.Metrics.Sessions.Set(float64(len(r.sessions)))
	return removed
}

// RunSweeper sweeps every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				r.opts.Logger.Infow("swept idle sessions", "removed", n)
			}
		}
	}
}

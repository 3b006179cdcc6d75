package usermovies

import (
	"context"
	"errors"
	"strings"

	"soulfilmes/errs"
	"soulfilmes/movie"
	"soulfilmes/pkg/sentry"
)

const (
	msgAddedFallback   = "Filme adicionado com sucesso."
	msgRemoved         = "Filme removido com sucesso."
	msgRemoveFailed    = "Erro ao remover filme do usuário."
	msgAddUnknown      = "Erro desconhecido ao adicionar filme."
	msgUnknown         = "Erro desconhecido."
	msgAddFailedPrefix = "Erro ao adicionar filme: "
)

var (
	ErrNoSelection         = errs.Errorf(errs.EINVALID, "Selecione um filme.")
	ErrOperationInProgress = errs.Errorf(errs.ECONFLICT, "Operação em andamento.")
	ErrMovieNotInCatalog   = errs.Errorf(errs.ENOTFOUND, "Filme não encontrado na lista.")
)

// Result tells the host where to send the operator after a mutation. The
// modal never navigates by itself.
type Result struct {
	Redirect string `json:"redirect,omitempty"`
}

// Add associates the selected movie with the current user. Duplicates are
// left for the gateway to refuse. On success the catalog entry is appended
// to the local list unless it is already there. The selection is cleared and
// a redirect to the return path is produced whatever the outcome, once the
// gateway has been consulted.
func (m *Modal) Add(ctx context.Context) (Result, error) {
	m.mu.Lock()
	userID, selected := m.userID, m.selection
	if selected == "" {
		m.mu.Unlock()
		return Result{}, ErrNoSelection
	}
	if m.adding {
		m.mu.Unlock()
		return Result{}, ErrOperationInProgress
	}
	m.adding = true
	m.mu.Unlock()

	resp, err := m.gw.AddMovieToUser(ctx, userID, selected)
	if err == nil && !resp.Success {
		msg := strings.TrimSpace(resp.Message)
		if msg == "" {
			msg = msgAddUnknown
		}
		err = errs.Errorf(errs.EINVALID, "%s", msg)
	}

	m.mu.Lock()
	m.adding = false
	m.selection = ""
	var added bool
	if err == nil {
		if found, ok := m.catalog.Find(selected); ok {
			if m.userID == userID && !containsMovie(m.movies, selected) {
				m.movies = append(m.movies, found)
			}
			added = true
		}
	}
	m.mu.Unlock()

	switch {
	case err != nil:
		m.addFailed(ctx, userID, selected, err)
		return m.done(), err
	case !added:
		m.metrics.Mutations.WithLabelValues("add", "inconsistent").Inc()
		m.log.Errorw("added movie missing from catalog", "user_id", userID, "movie_id", selected)
		m.notifier.Notify(ctx, Notification{Level: LevelError, Message: ErrMovieNotInCatalog.Message})
		return m.done(), ErrMovieNotInCatalog
	}

	msg := msgAddedFallback
	if resp.Data != nil && strings.TrimSpace(resp.Data.Message) != "" {
		msg = resp.Data.Message
	}
	m.metrics.Mutations.WithLabelValues("add", "success").Inc()
	m.log.Infow("movie added", "user_id", userID, "movie_id", selected)
	m.notifier.Notify(ctx, Notification{Level: LevelSuccess, Message: msg})
	m.host.RefreshUsers(ctx)
	return m.done(), nil
}

func (m *Modal) addFailed(ctx context.Context, userID, movieID string, err error) {
	m.metrics.Mutations.WithLabelValues("add", "failure").Inc()
	m.log.Errorw("add movie failed", "user_id", userID, "movie_id", movieID, "error", err)
	if errs.ErrorCode(err) == errs.EINTERNAL {
		sentry.WithRequestContext(ctx).
			WithExtras(map[string]interface{}{"user_id": userID, "movie_id": movieID}).
			Error(err)
	}
	m.notifier.Notify(ctx, Notification{
		Level:   LevelError,
		Message: msgAddFailedPrefix + messageOf(err),
	})
}

// Remove dissociates movieID from the current user. The local list only
// changes when the gateway call succeeds; a failure produces no redirect.
func (m *Modal) Remove(ctx context.Context, movieID string) (Result, error) {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return Result{}, movie.ErrInvalidID
	}

	m.mu.Lock()
	userID := m.userID
	if m.removing[movieID] {
		m.mu.Unlock()
		return Result{}, ErrOperationInProgress
	}
	m.removing[movieID] = true
	m.mu.Unlock()

	err := m.gw.RemoveMovieFromUser(ctx, userID, movieID)

	m.mu.Lock()
	delete(m.removing, movieID)
	if err == nil && m.userID == userID {
		m.movies = withoutMovie(m.movies, movieID)
	}
	m.mu.Unlock()

	if err != nil {
		m.metrics.Mutations.WithLabelValues("remove", "failure").Inc()
		m.log.Errorw("remove movie failed", "user_id", userID, "movie_id", movieID, "error", err)
		if errs.ErrorCode(err) == errs.EINTERNAL {
			sentry.WithRequestContext(ctx).
				WithExtras(map[string]interface{}{"user_id": userID, "movie_id": movieID}).
				Error(err)
		}
		m.notifier.Notify(ctx, Notification{Level: LevelError, Message: msgRemoveFailed})
		return Result{}, err
	}

	m.metrics.Mutations.WithLabelValues("remove", "success").Inc()
	m.log.Infow("movie removed", "user_id", userID, "movie_id", movieID)
	m.notifier.Notify(ctx, Notification{Level: LevelSuccess, Message: msgRemoved})
	return m.done(), nil
}

func (m *Modal) done() Result {
	return Result{Redirect: m.returnPath}
}

func messageOf(err error) string {
	var appErr *errs.Error
	if errors.As(err, &appErr) && strings.TrimSpace(appErr.Message) != "" {
		return appErr.Message
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return msgUnknown
}

func containsMovie(movies []movie.Movie, id string) bool {
	for _, mv := range movies {
		if mv.Key() == id {
			return true
		}
	}
	return false
}

func withoutMovie(movies []movie.Movie, id string) []movie.Movie {
	out := make([]movie.Movie, 0, len(movies))
	for _, mv := range movies {
		if mv.Key() != id {
			out = append(out, mv)
		}
	}
	return out
}

package usermovies

import (
	"context"
	"strings"
	"sync"

	"soulfilmes/movie"
	"soulfilmes/pkg/logger"
	"soulfilmes/pkg/metrics"
	"soulfilmes/pkg/sentry"
	"soulfilmes/user"

	"go.uber.org/zap"
)

const DefaultReturnPath = "/usuarios"

// Resource names one of the three independently loaded pieces of state.
type Resource string

const (
	ResourceUser       Resource = "usuario"
	ResourceUserMovies Resource = "filmes_do_usuario"
	ResourceCatalog    Resource = "filmes"
)

var resources = []Resource{ResourceUser, ResourceUserMovies, ResourceCatalog}

type LoadStatus int

const (
	LoadPending LoadStatus = iota
	LoadOK
	LoadFailed
)

// State is the modal lifecycle: closed, open while loading, open and loaded.
type State string

const (
	StateClosed  State = "closed"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
)

type Options struct {
	Gateway  Gateway
	Notifier Notifier
	Host     Host
	Logger   *zap.SugaredLogger
	Metrics  *metrics.UserMovies

	// ReturnPath is the view the operator is sent to after a mutation.
	ReturnPath string
}

// Modal is the view-model of one operator's user-movies modal. It is safe
// for concurrent use; gateway calls never run under its lock.
type Modal struct {
	gw         Gateway
	notifier   Notifier
	host       Host
	log        *zap.SugaredLogger
	metrics    *metrics.UserMovies
	returnPath string

	mu        sync.Mutex
	open      bool
	userID    string
	user      *user.User
	movies    []movie.Movie
	catalog   movie.Catalog
	selection string
	status    map[Resource]LoadStatus
	pending   int
	adding    bool
	removing  map[string]bool
}

func NewModal(opts Options) *Modal {
	m := &Modal{
		gw:         opts.Gateway,
		notifier:   opts.Notifier,
		host:       opts.Host,
		log:        opts.Logger,
		metrics:    opts.Metrics,
		returnPath: opts.ReturnPath,
		status:     make(map[Resource]LoadStatus, len(resources)),
		removing:   make(map[string]bool),
	}
	if m.notifier == nil {
		m.notifier = new(Toasts)
	}
	if m.host == nil {
		m.host = HostFuncs{}
	}
	if m.log == nil {
		m.log = logger.NOOPLogger
	}
	if m.metrics == nil {
		m.metrics = metrics.Noop()
	}
	if m.returnPath == "" {
		m.returnPath = DefaultReturnPath
	}
	return m
}

// Loading tracks the three loads started by Open.
type Loading struct {
	done chan struct{}
}

// Wait blocks until every load has settled, successfully or not.
func (l *Loading) Wait() {
	<-l.done
}

func (l *Loading) Done() <-chan struct{} {
	return l.done
}

// Open shows the modal for userID and fetches the user, the user's movies
// and the catalog, each in its own goroutine. A failed load is logged and
// leaves its piece of state unset. In-flight loads for a previous id are
// not cancelled; whichever settles last wins.
//
// Every call refetches, so reopening the modal reconciles the local list
// with the server.
func (m *Modal) Open(ctx context.Context, userID string) *Loading {
	userID = strings.TrimSpace(userID)

	m.mu.Lock()
	m.open = true
	if userID != m.userID {
		m.userID = userID
		m.user = nil
		m.movies = nil
		m.catalog = nil
		m.selection = ""
	}
	for _, r := range resources {
		m.status[r] = LoadPending
	}
	m.pending += len(resources)
	m.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(len(resources))

	go func() {
		defer wg.Done()
		u, err := m.gw.GetUser(ctx, userID)
		m.settle(ctx, ResourceUser, userID, err, func() { m.user = &u })
	}()
	go func() {
		defer wg.Done()
		movies, err := m.gw.GetUserMovies(ctx, userID)
		m.settle(ctx, ResourceUserMovies, userID, err, func() { m.movies = movies })
	}()
	go func() {
		defer wg.Done()
		catalog, err := m.gw.GetMovies(ctx)
		m.settle(ctx, ResourceCatalog, userID, err, func() { m.catalog = catalog })
	}()

	l := &Loading{done: make(chan struct{})}
	go func() {
		wg.Wait()
		close(l.done)
	}()
	return l
}

func (m *Modal) settle(ctx context.Context, r Resource, userID string, err error, apply func()) {
	m.mu.Lock()
	m.pending--
	if err != nil {
		m.status[r] = LoadFailed
	} else {
		apply()
		m.status[r] = LoadOK
	}
	m.mu.Unlock()

	if err != nil {
		m.metrics.Loads.WithLabelValues(string(r), "failure").Inc()
		m.log.Errorw("load failed", "resource", r, "user_id", userID, "error", err)
		sentry.WithRequestContext(ctx).
			WithTags(map[string]string{"resource": string(r)}).
			WithExtras(map[string]interface{}{"user_id": userID}).
			Error(err)
		return
	}
	m.metrics.Loads.WithLabelValues(string(r), "success").Inc()
}

// Close calls the host cleanup and hides the modal.
func (m *Modal) Close(ctx context.Context) {
	m.host.ClearSelectedUser(ctx)

	m.mu.Lock()
	m.open = false
	m.mu.Unlock()
}

// Select stages a movie id for addition. An empty id clears the selection.
func (m *Modal) Select(movieID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection = strings.TrimSpace(movieID)
}

func (m *Modal) Selection() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selection
}

func (m *Modal) UserID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userID
}

func (m *Modal) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *Modal) stateLocked() State {
	switch {
	case !m.open:
		return StateClosed
	case m.pending > 0:
		return StateLoading
	default:
		return StateLoaded
	}
}

// Movies returns a copy of the association list.
func (m *Modal) Movies() []movie.Movie {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]movie.Movie(nil), m.movies...)
}

// Status reports the load status of a resource.
func (m *Modal) Status(r Resource) LoadStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status[r]
}

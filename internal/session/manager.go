package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/bridgei2p/leadportal/internal/leadform"
	"github.com/bridgei2p/leadportal/pkg/logging"
	"github.com/google/uuid"
)

// DefaultCookieName names the session cookie when none is configured.
const DefaultCookieName = "lead_form_sid"

type liveForm struct {
	form *leadform.Form
	refs int
}

// Manager hands out forms by session id. Requests for the same session in
// this process share one *leadform.Form while any of them is active, so the
// form's in-flight guards hold across concurrent requests.
type Manager struct {
	store  Store
	logger *logging.Logger
	cookie string
	secure bool
	ttl    time.Duration

	mu   sync.Mutex
	live map[string]*liveForm
}

// ManagerOption customises a Manager.
type ManagerOption func(*Manager)

// WithCookie sets the cookie name and Secure attribute.
func WithCookie(name string, secure bool) ManagerOption {
	return func(m *Manager) {
		if name != "" {
			m.cookie = name
		}
		m.secure = secure
	}
}

// WithCookieTTL sets the cookie Max-Age.
func WithCookieTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// NewManager wraps a snapshot store.
func NewManager(store Store, logger *logging.Logger, opts ...ManagerOption) *Manager {
	if store == nil {
		panic("session: store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	m := &Manager{
		store:  store,
		logger: logger,
		cookie: DefaultCookieName,
		ttl:    DefaultTTL,
		live:   make(map[string]*liveForm),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ID returns the caller's session id, issuing a new cookie when the request
// has none.
func (m *Manager) ID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(m.cookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Acquire returns the form for id and a release func that persists it. A
// missing or unreadable snapshot yields a fresh form.
func (m *Manager) Acquire(ctx context.Context, id string) (*leadform.Form, func(context.Context) error) {
	m.mu.Lock()
	if lf, ok := m.live[id]; ok {
		lf.refs++
		m.mu.Unlock()
		return lf.form, m.releaser(id, lf)
	}
	m.mu.Unlock()

	form := leadform.New()
	snap, err := m.store.Load(ctx, id)
	switch {
	case err == nil:
		form = leadform.FromSnapshot(snap)
	case !errors.Is(err, ErrNotFound):
		m.logger.Warn("session load failed, starting fresh form", "error", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have loaded the same session meanwhile.
	if lf, ok := m.live[id]; ok {
		lf.refs++
		return lf.form, m.releaser(id, lf)
	}
	lf := &liveForm{form: form, refs: 1}
	m.live[id] = lf
	return form, m.releaser(id, lf)
}

func (m *Manager) releaser(id string, lf *liveForm) func(context.Context) error {
	var once sync.Once
	return func(ctx context.Context) error {
		var err error
		once.Do(func() {
			err = m.store.Save(ctx, id, lf.form.Snapshot())
			m.mu.Lock()
			lf.refs--
			if lf.refs <= 0 && m.live[id] == lf {
				delete(m.live, id)
			}
			m.mu.Unlock()
		})
		return err
	}
}

// Active reports how many sessions currently have a request in progress.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bridgei2p/leadportal/internal/landing"
	"github.com/bridgei2p/leadportal/internal/leadform"
	"github.com/bridgei2p/leadportal/internal/leads"
	"github.com/bridgei2p/leadportal/internal/session"
	"github.com/bridgei2p/leadportal/pkg/logging"
)

// LandingHandler serves the marketing page and runs the lead form actions.
type LandingHandler struct {
	flow     *leadform.Flow
	sessions *session.Manager
	content  landing.Content
	logger   *logging.Logger
	now      func() time.Time
}

// NewLandingHandler creates a landing handler.
func NewLandingHandler(flow *leadform.Flow, sessions *session.Manager, content landing.Content, logger *logging.Logger) *LandingHandler {
	if flow == nil || sessions == nil {
		panic("handlers: landing flow and sessions required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LandingHandler{flow: flow, sessions: sessions, content: content, logger: logger, now: time.Now}
}

type landingPage struct {
	Content  landing.Content
	Form     leadform.View
	Notices  []leadform.Notice
	Year     int
	DemoMode bool
}

// Page renders the landing page with the caller's form.
// GET /
func (h *LandingHandler) Page(w http.ResponseWriter, r *http.Request) {
	id := h.sessions.ID(w, r)
	form, release := h.sessions.Acquire(r.Context(), id)
	view := form.View()
	h.release(r.Context(), release)

	h.render(w, http.StatusOK, view, nil)
}

// Action applies one form action and re-renders the page. Fields are always
// taken from the post first so nothing typed is lost.
// POST /lead-form
func (h *LandingHandler) Action(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	action := r.PostForm.Get("action")
	switch action {
	case "", "update", "send_otp", "verify_otp", "change_email", "submit":
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	id := h.sessions.ID(w, r)
	form, release := h.sessions.Acquire(ctx, id)

	applyPostedFields(form, r)

	var (
		notices []leadform.Notice
		err     error
	)
	switch action {
	case "send_otp":
		notices, err = h.flow.RequestOTP(ctx, form)
	case "verify_otp":
		notices, err = h.flow.VerifyOTP(ctx, form)
	case "submit":
		notices, err = h.flow.Submit(ctx, form)
	case "change_email":
		form.ChangeEmail()
	}
	if err != nil && !isExpected(err) {
		h.logger.Warn("lead form action failed", "action", action, "error", err)
	}

	view := form.View()
	h.release(ctx, release)
	h.render(w, http.StatusOK, view, notices)
}

// Throttled re-renders the form with the posted fields kept and no action
// applied. The rate limiter calls it for posts over the limit.
func (h *LandingHandler) Throttled(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := h.sessions.ID(w, r)
	form, release := h.sessions.Acquire(ctx, id)
	if err := r.ParseForm(); err == nil {
		applyPostedFields(form, r)
	}
	view := form.View()
	h.release(ctx, release)

	h.render(w, http.StatusTooManyRequests, view, []leadform.Notice{{
		Level:   leadform.LevelError,
		Message: "Too many requests. Please try again shortly.",
	}})
}

// applyPostedFields copies the posted inputs onto the form. A missing
// opt_in means the box was unticked.
func applyPostedFields(form *leadform.Form, r *http.Request) {
	if _, ok := r.PostForm["first_name"]; !ok {
		return
	}
	form.Update(leads.Fields{
		FirstName:   r.PostForm.Get("first_name"),
		LastName:    r.PostForm.Get("last_name"),
		CompanyName: r.PostForm.Get("company_name"),
		Website:     r.PostForm.Get("website"),
		WorkEmail:   r.PostForm.Get("work_email"),
		PhoneNumber: r.PostForm.Get("phone_number"),
		Query:       r.PostForm.Get("query"),
		OptIn:       r.PostForm.Get("opt_in") != "",
	})
	if code, ok := r.PostForm["otp"]; ok && len(code) > 0 {
		form.SetCode(code[0])
	}
}

func isExpected(err error) bool {
	var verr *leads.ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, leadform.ErrBusy) ||
		errors.Is(err, leadform.ErrEmailChanged) ||
		errors.Is(err, leadform.ErrRejected)
}

func (h *LandingHandler) release(ctx context.Context, release func(context.Context) error) {
	// The session must be saved even when the client has gone away.
	if err := release(context.WithoutCancel(ctx)); err != nil {
		h.logger.Warn("session save failed", "error", err)
	}
}

func (h *LandingHandler) render(w http.ResponseWriter, status int, view leadform.View, notices []leadform.Notice) {
	render(w, h.logger, "landing.html", status, landingPage{
		Content:  h.content,
		Form:     view,
		Notices:  notices,
		Year:     h.now().Year(),
		DemoMode: h.flow.RevealEnabled(),
	})
}

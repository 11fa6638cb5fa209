package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"contactbook/internal/contact/models"
	dErrors "contactbook/pkg/domain-errors"
	"contactbook/pkg/platform/httputil"
	"contactbook/pkg/requestcontext"
)

// Service defines the contact operations exposed over HTTP.
type Service interface {
	AddContact(ctx context.Context, name, phone string) (bool, error)
	AddPhone(ctx context.Context, name, phone string) error
	ChangePhone(ctx context.Context, name, old, replacement string) error
	RemovePhone(ctx context.Context, name, phone string) error
	FindPhone(ctx context.Context, name, phone string) (models.PhoneNumber, bool, error)
	Contact(ctx context.Context, name string) (*models.Record, error)
	Contacts(ctx context.Context) []*models.Record
	DeleteContact(ctx context.Context, name string) error
	AddBirthday(ctx context.Context, name, raw string) error
	ShowBirthday(ctx context.Context, name string) (string, error)
	UpcomingBirthdays(ctx context.Context) []models.Celebration
	Save(ctx context.Context) error
}

// Handler handles contact endpoints.
type Handler struct {
	svc      Service
	logger   *slog.Logger
	validate *validator.Validate
	autosave bool
}

type Option func(*Handler)

// WithAutosave persists the directory after every successful mutation.
func WithAutosave() Option {
	return func(h *Handler) {
		h.autosave = true
	}
}

// New creates a new contact Handler.
func New(svc Service, logger *slog.Logger, opts ...Option) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	h := &Handler{svc: svc, logger: logger, validate: v}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the contact routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/contacts", func(r chi.Router) {
		r.Get("/", h.handleListContacts)
		r.Post("/", h.handleAddContact)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", h.handleGetContact)
			r.Delete("/", h.handleDeleteContact)
			r.Post("/phones", h.handleAddPhone)
			r.Get("/phones/{phone}", h.handleFindPhone)
			r.Put("/phones/{phone}", h.handleChangePhone)
			r.Delete("/phones/{phone}", h.handleRemovePhone)
			r.Get("/birthday", h.handleShowBirthday)
			r.Put("/birthday", h.handleAddBirthday)
		})
	})
	r.Get("/birthdays/upcoming", h.handleUpcomingBirthdays)
}

func (h *Handler) handleListContacts(w http.ResponseWriter, r *http.Request) {
	records := h.svc.Contacts(r.Context())
	resp := contactListResponse{Contacts: make([]contactResponse, len(records))}
	for i, rec := range records {
		resp.Contacts[i] = toContactResponse(rec)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAddContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req addContactRequest
	if !h.decode(w, r, &req) {
		return
	}
	created, err := h.svc.AddContact(ctx, req.Name, req.Phone)
	if err != nil {
		h.fail(w, r, "add contact", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.respondContact(w, r, req.Name, status, true)
}

func (h *Handler) handleGetContact(w http.ResponseWriter, r *http.Request) {
	h.respondContact(w, r, chi.URLParam(r, "name"), http.StatusOK, false)
}

func (h *Handler) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteContact(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.fail(w, r, "delete contact", err)
		return
	}
	if !h.persist(w, r) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddPhone(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req phoneRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.AddPhone(r.Context(), name, req.Phone); err != nil {
		h.fail(w, r, "add phone", err)
		return
	}
	h.respondContact(w, r, name, http.StatusOK, true)
}

func (h *Handler) handleFindPhone(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	phone := chi.URLParam(r, "phone")
	found, ok, err := h.svc.FindPhone(r.Context(), name, phone)
	if err != nil {
		h.fail(w, r, "find phone", err)
		return
	}
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "phone "+phone+" not found for "+name))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, phoneResponse{Phone: found.String()})
}

func (h *Handler) handleChangePhone(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req phoneRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.ChangePhone(r.Context(), name, chi.URLParam(r, "phone"), req.Phone); err != nil {
		h.fail(w, r, "change phone", err)
		return
	}
	h.respondContact(w, r, name, http.StatusOK, true)
}

func (h *Handler) handleRemovePhone(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemovePhone(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "phone")); err != nil {
		h.fail(w, r, "remove phone", err)
		return
	}
	if !h.persist(w, r) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleShowBirthday(w http.ResponseWriter, r *http.Request) {
	text, err := h.svc.ShowBirthday(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, r, "show birthday", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, birthdayDescriptionResponse{Description: text})
}

func (h *Handler) handleAddBirthday(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req birthdayRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.AddBirthday(r.Context(), name, req.Birthday); err != nil {
		h.fail(w, r, "add birthday", err)
		return
	}
	h.respondContact(w, r, name, http.StatusOK, true)
}

func (h *Handler) handleUpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groups := h.svc.UpcomingBirthdays(ctx)
	resp := upcomingResponse{
		Today:        requestcontext.Now(ctx).Format(models.DateLayout),
		Celebrations: make([]celebrationResponse, len(groups)),
	}
	for i, g := range groups {
		c := celebrationResponse{Date: g.Date.Format(models.DateLayout), Names: make([]string, len(g.Records))}
		for j, rec := range g.Records {
			c.Names[j] = rec.Name()
		}
		resp.Celebrations[i] = c
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// respondContact writes the current state of name; mutated requests save first
// when autosave is on.
func (h *Handler) respondContact(w http.ResponseWriter, r *http.Request, name string, status int, mutated bool) {
	if mutated && !h.persist(w, r) {
		return
	}
	rec, err := h.svc.Contact(r.Context(), name)
	if err != nil {
		h.fail(w, r, "get contact", err)
		return
	}
	httputil.WriteJSON(w, status, toContactResponse(rec))
}

func (h *Handler) persist(w http.ResponseWriter, r *http.Request) bool {
	if !h.autosave {
		return true
	}
	if err := h.svc.Save(r.Context()); err != nil {
		h.fail(w, r, "save directory", err)
		return false
	}
	return true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	ctx := r.Context()
	if err := httputil.DecodeJSON(r, dst); err != nil {
		h.logger.WarnContext(ctx, "invalid request body",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		httputil.WriteError(w, validationError(err))
		return false
	}
	return true
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid request")
	}
	var missing []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return dErrors.New(dErrors.CodeMissingArguments, "missing required fields: "+strings.Join(missing, ", "))
	}
	fe := fieldErrs[0]
	return dErrors.New(dErrors.CodeInvalidInput, fe.Field()+" failed "+fe.Tag()+" validation")
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "failed to "+op,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	} else {
		h.logger.InfoContext(ctx, op+" rejected",
			"request_id", requestcontext.RequestID(ctx),
			"code", string(dErrors.CodeOf(err)),
		)
	}
	httputil.WriteError(w, err)
}

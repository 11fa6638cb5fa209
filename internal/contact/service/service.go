package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	contactmetrics "contactbook/internal/contact/metrics"
	"contactbook/internal/contact/models"
	dErrors "contactbook/pkg/domain-errors"
	"contactbook/pkg/platform/audit"
	"contactbook/pkg/platform/sentinel"
	"contactbook/pkg/requestcontext"
)

// Gateway persists the whole directory as one snapshot.
type Gateway interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Save(ctx context.Context, snapshot models.Snapshot) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

const tracerName = "contactbook/internal/contact/service"

// Service owns the in-process Directory and serializes access to it.
// Records handed out are clones; callers never mutate directory state directly.
type Service struct {
	mu  sync.RWMutex
	dir *models.Directory

	gateway        Gateway
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *contactmetrics.Metrics
	tracer         trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *contactmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// New constructs a Service with an empty directory. Call Load to read the
// persisted state.
func New(gateway Gateway, opts ...Option) (*Service, error) {
	if gateway == nil {
		return nil, errors.New("gateway is required")
	}
	s := &Service{
		dir:     models.NewDirectory(),
		gateway: gateway,
		logger:  slog.New(slog.DiscardHandler),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load replaces the in-process directory with the persisted one.
// A gateway that was never written to yields an empty directory.
func (s *Service) Load(ctx context.Context) (err error) {
	ctx, span := s.start(ctx, "Load")
	defer func() { s.end(span, "load", err) }()

	start := time.Now()
	snap, err := s.gateway.Load(ctx)
	if s.metrics != nil {
		s.metrics.ObserveLoad(start)
	}
	if err != nil {
		if errors.Is(err, sentinel.ErrCorrupt) {
			return dErrors.Wrap(err, dErrors.CodeInvalidInput, "stored directory is unreadable")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load directory")
	}
	dir, err := models.RestoreDirectory(snap)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "stored directory is invalid")
	}

	s.mu.Lock()
	s.dir = dir
	n := dir.Len()
	s.mu.Unlock()

	s.setSize(n)
	s.logger.InfoContext(ctx, "directory loaded", "contacts", n)
	return nil
}

// Save writes the current directory through the gateway.
func (s *Service) Save(ctx context.Context) (err error) {
	ctx, span := s.start(ctx, "Save")
	defer func() { s.end(span, "save", err) }()

	s.mu.RLock()
	snap := s.dir.Snapshot()
	s.mu.RUnlock()

	start := time.Now()
	err = s.gateway.Save(ctx, snap)
	if s.metrics != nil {
		s.metrics.ObserveSave(start)
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save directory")
	}
	s.publish(ctx, []audit.Event{s.event(ctx, audit.EventDirectorySaved, nil, "")})
	s.logger.DebugContext(ctx, "directory saved", "contacts", len(snap.Contacts))
	return nil
}

// AddContact creates name when absent and adds phone to it. The phone is
// validated first, so an invalid phone never leaves a half-created contact.
// created reports whether a new record was inserted.
func (s *Service) AddContact(ctx context.Context, name, phone string) (created bool, err error) {
	ctx, span := s.start(ctx, "AddContact", attribute.String("contact.name", name))
	defer func() { s.end(span, "add_contact", err) }()

	if _, err := models.ParsePhoneNumber(phone); err != nil {
		return false, err
	}

	var events []audit.Event
	defer func() { s.publish(ctx, events) }()
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.dir.Find(name)
	if !ok {
		record, err = models.NewRecord(name)
		if err != nil {
			return false, err
		}
		if err := s.dir.Add(record); err != nil {
			return false, err
		}
		created = true
	}
	// Existing contacts gain the phone as well, not just an "updated" reply.
	if err := record.AddPhone(phone); err != nil {
		return false, err
	}

	if created {
		events = append(events, s.event(ctx, audit.EventContactCreated, record, ""))
		if s.metrics != nil {
			s.metrics.IncrementContactsCreated()
		}
		s.setSize(s.dir.Len())
	}
	events = append(events, s.event(ctx, audit.EventPhoneAdded, record, phone))
	s.phoneChanged("added")
	return created, nil
}

// AddPhone appends phone to an existing contact.
func (s *Service) AddPhone(ctx context.Context, name, phone string) (err error) {
	ctx, span := s.start(ctx, "AddPhone", attribute.String("contact.name", name))
	defer func() { s.end(span, "add_phone", err) }()

	var events []audit.Event
	defer func() { s.publish(ctx, events) }()
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.find(name)
	if err != nil {
		return err
	}
	if err := record.AddPhone(phone); err != nil {
		return err
	}
	events = append(events, s.event(ctx, audit.EventPhoneAdded, record, phone))
	s.phoneChanged("added")
	return nil
}

// ChangePhone replaces old with replacement on name's record. A missing old
// phone leaves the record untouched.
func (s *Service) ChangePhone(ctx context.Context, name, old, replacement string) (err error) {
	ctx, span := s.start(ctx, "ChangePhone", attribute.String("contact.name", name))
	defer func() { s.end(span, "change_phone", err) }()

	var events []audit.Event
	defer func() { s.publish(ctx, events) }()
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.find(name)
	if err != nil {
		return err
	}
	if _, found := record.FindPhone(old); !found {
		return nil
	}
	if err := record.EditPhone(old, replacement); err != nil {
		return err
	}
	events = append(events, s.event(ctx, audit.EventPhoneChanged, record, old+" -> "+replacement))
	s.phoneChanged("changed")
	return nil
}

// RemovePhone drops phone from name's record; an absent phone is a no-op.
func (s *Service) RemovePhone(ctx context.Context, name, phone string) (err error) {
	ctx, span := s.start(ctx, "RemovePhone", attribute.String("contact.name", name))
	defer func() { s.end(span, "remove_phone", err) }()

	var events []audit.Event
	defer func() { s.publish(ctx, events) }()
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.find(name)
	if err != nil {
		return err
	}
	if _, found := record.FindPhone(phone); !found {
		return nil
	}
	record.RemovePhone(phone)
	events = append(events, s.event(ctx, audit.EventPhoneRemoved, record, phone))
	s.phoneChanged("removed")
	return nil
}

// FindPhone reports whether name's record holds phone.
func (s *Service) FindPhone(ctx context.Context, name, phone string) (_ models.PhoneNumber, _ bool, err error) {
	_, span := s.start(ctx, "FindPhone", attribute.String("contact.name", name))
	defer func() { s.end(span, "find_phone", err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, err := s.find(name)
	if err != nil {
		return "", false, err
	}
	p, ok := record.FindPhone(phone)
	return p, ok, nil
}

// Contact returns a copy of name's record.
func (s *Service) Contact(ctx context.Context, name string) (_ *models.Record, err error) {
	_, span := s.start(ctx, "Contact", attribute.String("contact.name", name))
	defer func() { s.end(span, "contact", err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, err := s.find(name)
	if err != nil {
		return nil, err
	}
	return record.Clone(), nil
}

// Contacts returns copies of every record in insertion order.
func (s *Service) Contacts(ctx context.Context) []*models.Record {
	_, span := s.start(ctx, "Contacts")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.dir.All()
	out := make([]*models.Record, len(all))
	for i, r := range all {
		out[i] = r.Clone()
	}
	span.SetAttributes(attribute.Int("contacts.count", len(out)))
	return out
}

// DeleteContact removes name from the directory.
func (s *Service) DeleteContact(ctx context.Context, name string) (err error) {
	ctx, span := s.start(ctx, "DeleteContact", attribute.String("contact.name", name))
	defer func() { s.end(span, "delete_contact", err) }()

	var events []audit.Event
	defer func() { s.publish(ctx, events) }()
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.find(name)
	if err != nil {
		return err
	}
	s.dir.Delete(name)
	events = append(events, s.event(ctx, audit.EventContactDeleted, record, ""))
	if s.metrics != nil {
		s.metrics.IncrementContactsDeleted()
	}
	s.setSize(s.dir.Len())
	return nil
}

// AddBirthday sets name's birthday from a DD-MM-YYYY string.
func (s *Service) AddBirthday(ctx context.Context, name, raw string) (err error) {
	ctx, span := s.start(ctx, "AddBirthday", attribute.String("contact.name", name))
	defer func() { s.end(span, "add_birthday", err) }()

	var events []audit.Event
	defer func() { s.publish(ctx, events) }()
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.find(name)
	if err != nil {
		return err
	}
	if err := record.AddBirthday(raw); err != nil {
		return err
	}
	events = append(events, s.event(ctx, audit.EventBirthdaySet, record, raw))
	if s.metrics != nil {
		s.metrics.IncrementBirthdaysSet()
	}
	return nil
}

// ShowBirthday returns the birthday line for name.
func (s *Service) ShowBirthday(ctx context.Context, name string) (_ string, err error) {
	_, span := s.start(ctx, "ShowBirthday", attribute.String("contact.name", name))
	defer func() { s.end(span, "show_birthday", err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, err := s.find(name)
	if err != nil {
		return "", err
	}
	return record.DescribeBirthday(), nil
}

// UpcomingBirthdays groups the birthdays of the coming week, using the
// request-scoped clock as today.
func (s *Service) UpcomingBirthdays(ctx context.Context) []models.Celebration {
	today := requestcontext.Now(ctx)
	_, span := s.start(ctx, "UpcomingBirthdays", attribute.String("today", today.Format(models.DateLayout)))
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := s.dir.UpcomingBirthdays(today)
	for i := range groups {
		records := make([]*models.Record, len(groups[i].Records))
		for j, r := range groups[i].Records {
			records[j] = r.Clone()
		}
		groups[i].Records = records
	}
	span.SetAttributes(attribute.Int("celebrations.count", len(groups)))
	return groups
}

func (s *Service) find(name string) (*models.Record, error) {
	record, ok := s.dir.Find(name)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "Contact "+name+" does not exist.")
	}
	return record, nil
}

func (s *Service) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "contact."+op, trace.WithAttributes(attrs...))
}

func (s *Service) end(span trace.Span, op string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, dErrors.MessageOf(err))
		if s.metrics != nil {
			s.metrics.IncrementFailure(op, string(dErrors.CodeOf(err)))
		}
	}
	span.End()
}

// event snapshots record into an audit event. Mutations call it under the
// lock and hand the result to publish once the lock is released.
func (s *Service) event(ctx context.Context, action audit.AuditEvent, record *models.Record, detail string) audit.Event {
	event := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Action:    string(action),
		Detail:    detail,
		RequestID: requestcontext.RequestID(ctx),
	}
	if record != nil {
		event.ContactID = record.ID()
		event.Subject = record.Name()
	}
	s.logger.DebugContext(ctx, string(action),
		"name", event.Subject,
		"request_id", event.RequestID,
		"log_type", "audit",
	)
	return event
}

// publish hands events to the audit publisher; failures are logged only.
func (s *Service) publish(ctx context.Context, events []audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	for _, event := range events {
		if err := s.auditPublisher.Emit(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish audit event",
				"action", event.Action,
				"error", err,
			)
		}
	}
}

func (s *Service) phoneChanged(kind string) {
	if s.metrics != nil {
		s.metrics.IncrementPhoneChange(kind)
	}
}

func (s *Service) setSize(n int) {
	if s.metrics != nil {
		s.metrics.SetDirectorySize(n)
	}
}

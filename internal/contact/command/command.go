// Package command implements the line-oriented assistant: it parses one input
// line into a command and arguments, calls the contact service and renders a
// reply.
package command

import (
	"context"
	"log/slog"
	"strings"

	"contactbook/internal/contact/models"
	dErrors "contactbook/pkg/domain-errors"
)

// Replies shown to the user.
const (
	Welcome         = "Welcome to the assistant bot!"
	Prompt          = "Enter a command: "
	ReplyHello      = "How can I help you?"
	ReplyAdded      = "Contact added."
	ReplyUpdated    = "Contact updated."
	ReplyEmpty      = "Address book is empty."
	ReplyBirthday   = "Birthday added."
	ReplyNoBirthday = "There are not birthday people this week."
	ReplyDeleted    = "Contact deleted."
	ReplyRemoved    = "Phone removed."
	ReplyGoodbye    = "Good bye!"
	ReplyInvalid    = "Invalid command."
)

// Service is the subset of the contact service the dispatcher drives.
type Service interface {
	AddContact(ctx context.Context, name, phone string) (bool, error)
	ChangePhone(ctx context.Context, name, old, replacement string) error
	RemovePhone(ctx context.Context, name, phone string) error
	Contact(ctx context.Context, name string) (*models.Record, error)
	Contacts(ctx context.Context) []*models.Record
	DeleteContact(ctx context.Context, name string) error
	AddBirthday(ctx context.Context, name, raw string) error
	ShowBirthday(ctx context.Context, name string) (string, error)
	UpcomingBirthdays(ctx context.Context) []models.Celebration
	Save(ctx context.Context) error
}

// Dispatcher maps commands onto Service calls.
type Dispatcher struct {
	svc      Service
	logger   *slog.Logger
	autosave bool
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithAutosave saves the directory after every successful mutating command.
func WithAutosave() Option {
	return func(d *Dispatcher) {
		d.autosave = true
	}
}

func New(svc Service, opts ...Option) *Dispatcher {
	d := &Dispatcher{svc: svc, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ParseInput splits line on whitespace and lower-cases the command word.
// A blank line yields an empty command.
func ParseInput(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

type handler struct {
	mutates bool
	run     func(d *Dispatcher, ctx context.Context, args []string) (string, error)
}

var handlers = map[string]handler{
	"hello":         {run: (*Dispatcher).hello},
	"add":           {mutates: true, run: (*Dispatcher).addContact},
	"change":        {mutates: true, run: (*Dispatcher).changePhone},
	"phone":         {run: (*Dispatcher).showPhone},
	"all":           {run: (*Dispatcher).listAll},
	"add-birthday":  {mutates: true, run: (*Dispatcher).addBirthday},
	"show-birthday": {run: (*Dispatcher).showBirthday},
	"birthdays":     {run: (*Dispatcher).upcomingBirthdays},
	"bi":            {run: (*Dispatcher).upcomingBirthdays},
	"delete":        {mutates: true, run: (*Dispatcher).deleteContact},
	"remove-phone":  {mutates: true, run: (*Dispatcher).removePhone},
}

// Execute runs one command. exit is true for close and exit.
// Failures are rendered into the reply as "Error: <message>".
func (d *Dispatcher) Execute(ctx context.Context, cmd string, args []string) (reply string, exit bool) {
	switch cmd {
	case "close", "exit":
		return ReplyGoodbye, true
	case "":
		return "", false
	}

	h, ok := handlers[cmd]
	if !ok {
		return ReplyInvalid, false
	}
	reply, err := h.run(d, ctx, args)
	if err == nil && h.mutates && d.autosave {
		err = d.svc.Save(ctx)
	}
	if err != nil {
		d.logger.DebugContext(ctx, "command failed",
			"command", cmd,
			"code", string(dErrors.CodeOf(err)),
			"error", err,
		)
		return "Error: " + dErrors.MessageOf(err), false
	}
	return reply, false
}

func missing(msg string) error {
	return dErrors.New(dErrors.CodeMissingArguments, msg)
}

func (d *Dispatcher) hello(context.Context, []string) (string, error) {
	return ReplyHello, nil
}

func (d *Dispatcher) addContact(ctx context.Context, args []string) (string, error) {
	if len(args) != 2 {
		return "", missing("Give me name and phone please.")
	}
	created, err := d.svc.AddContact(ctx, args[0], args[1])
	if err != nil {
		return "", err
	}
	if created {
		return ReplyAdded, nil
	}
	return ReplyUpdated, nil
}

func (d *Dispatcher) changePhone(ctx context.Context, args []string) (string, error) {
	if len(args) != 3 {
		return "", missing("Give me name, old phone and new phone please.")
	}
	if err := d.svc.ChangePhone(ctx, args[0], args[1], args[2]); err != nil {
		return "", err
	}
	return ReplyUpdated, nil
}

func (d *Dispatcher) showPhone(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", missing("Give me name please.")
	}
	record, err := d.svc.Contact(ctx, args[0])
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return "Unknown contact " + args[0] + ".", nil
	}
	if err != nil {
		return "", err
	}
	return record.String(), nil
}

func (d *Dispatcher) listAll(ctx context.Context, _ []string) (string, error) {
	records := d.svc.Contacts(ctx)
	if len(records) == 0 {
		return ReplyEmpty, nil
	}
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n"), nil
}

func (d *Dispatcher) addBirthday(ctx context.Context, args []string) (string, error) {
	if len(args) != 2 {
		return "", missing("Give me name and birthday please.")
	}
	if err := d.svc.AddBirthday(ctx, args[0], args[1]); err != nil {
		return "", err
	}
	return ReplyBirthday, nil
}

func (d *Dispatcher) showBirthday(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", missing("Give me name please.")
	}
	return d.svc.ShowBirthday(ctx, args[0])
}

func (d *Dispatcher) upcomingBirthdays(ctx context.Context, _ []string) (string, error) {
	groups := d.svc.UpcomingBirthdays(ctx)
	if len(groups) == 0 {
		return ReplyNoBirthday, nil
	}
	var b strings.Builder
	for _, g := range groups {
		b.WriteString(g.Date.Format(models.DateLayout))
		b.WriteString(":\n")
		for _, r := range g.Records {
			b.WriteString("\t")
			b.WriteString(r.Name())
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func (d *Dispatcher) deleteContact(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", missing("Give me name please.")
	}
	if err := d.svc.DeleteContact(ctx, args[0]); err != nil {
		return "", err
	}
	return ReplyDeleted, nil
}

func (d *Dispatcher) removePhone(ctx context.Context, args []string) (string, error) {
	if len(args) != 2 {
		return "", missing("Give me name and phone please.")
	}
	if err := d.svc.RemovePhone(ctx, args[0], args[1]); err != nil {
		return "", err
	}
	return ReplyRemoved, nil
}

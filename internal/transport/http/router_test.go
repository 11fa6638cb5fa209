package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contacthandler "contactbook/internal/contact/handler"
	contactmetrics "contactbook/internal/contact/metrics"
	"contactbook/internal/contact/service"
	"contactbook/internal/contact/store"
	"contactbook/internal/platform/metrics"
	"contactbook/pkg/platform/middleware/requestid"
	"contactbook/pkg/testutil"
)

type healthFunc func(ctx context.Context) error

func (f healthFunc) Health(ctx context.Context) error { return f(ctx) }

func newTestRouter(t *testing.T, health HealthChecker) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := metrics.NewRegistry()
	svc, err := service.New(store.NewInMemory(),
		service.WithLogger(logger),
		service.WithMetrics(contactmetrics.New(reg)),
	)
	require.NoError(t, err)

	return NewRouter(Deps{
		Logger:   logger,
		Registry: reg,
		Contacts: contacthandler.New(svc, logger),
		Health:   health,
		Today:    testutil.MustDate("08-06-2024"),
	})
}

func TestHealth(t *testing.T) {
	t.Run("healthy without checker", func(t *testing.T) {
		rr := testutil.DoRequest(newTestRouter(t, nil), testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	t.Run("unavailable when checker fails", func(t *testing.T) {
		failing := healthFunc(func(context.Context) error { return errors.New("connection refused") })
		rr := testutil.DoRequest(newTestRouter(t, failing), testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		testutil.AssertJSONContains(t, rr, "status", "unavailable")
	})
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t, nil)

	req := testutil.NewRequest(t, http.MethodGet, "/contacts")
	req.Header.Set(requestid.Header, "req-123")
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusOK(t, rr)
	assert.Equal(t, "req-123", rr.Header().Get(requestid.Header))

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/contacts"))
	assert.NotEmpty(t, rr.Header().Get(requestid.Header))
}

func TestPinnedToday(t *testing.T) {
	rr := testutil.DoRequest(newTestRouter(t, nil), testutil.NewRequest(t, http.MethodGet, "/birthdays/upcoming"))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "today", "08-06-2024")
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/contacts",
		map[string]string{"name": "Alice", "phone": "0123456789"}))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatusOK(t, rr)
	body := string(testutil.ReadBody(t, rr))
	assert.Contains(t, body, "contactbook_contacts_created_total 1")
	assert.Contains(t, body, "go_goroutines")
}

func TestWeekendBirthdayScenario(t *testing.T) {
	testutil.Given(t, "a contact born on a Saturday in the coming week", func(t *testing.T) {
		router := newTestRouter(t, nil)
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/contacts",
			map[string]string{"name": "Bob", "phone": "0123456789"}))
		require.Equal(t, http.StatusCreated, rr.Code)
		rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/contacts/Bob/birthday",
			map[string]string{"birthday": "15-06-1985"}))
		require.Equal(t, http.StatusOK, rr.Code)

		testutil.When(t, "the upcoming birthdays are requested", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/birthdays/upcoming"))

			testutil.Then(t, "the celebration moves to Monday", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				body := string(testutil.ReadBody(t, rr))
				assert.Contains(t, body, `{"date":"17-06-2024","names":["Bob"]}`)
			})
		})
	})
}

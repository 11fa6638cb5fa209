package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"

	"contactbook/internal/contact/service"
	"contactbook/internal/contact/store"
	"contactbook/pkg/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type HandlerSuite struct {
	suite.Suite
	gateway *store.InMemory
	router  http.Handler
	today   time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.gateway = store.NewInMemory()
	svc, err := service.New(s.gateway)
	s.Require().NoError(err)
	s.today = testutil.MustDate("10-06-2024")

	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), WithAutosave())
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func (s *HandlerSuite) addContact(name, phone string) {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/contacts",
		map[string]string{"name": name, "phone": phone}))
	s.Require().Contains([]int{http.StatusCreated, http.StatusOK}, rr.Code, rr.Body.String())
}

func (s *HandlerSuite) TestAddContact() {
	s.Run("creates contact", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/contacts",
			map[string]string{"name": "Alice", "phone": "0123456789"}))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)

		resp := testutil.UnmarshalResponse[contactResponse](s.T(), rr)
		s.Equal("Alice", resp.Name)
		s.Equal([]string{"0123456789"}, resp.Phones)
		s.NotEmpty(resp.ID)
		s.Equal(1, s.gateway.Saves())
	})

	s.Run("existing contact gains phone", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/contacts",
			map[string]string{"name": "Alice", "phone": "9876543210"}))
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[contactResponse](s.T(), rr)
		s.Equal([]string{"0123456789", "9876543210"}, resp.Phones)
	})

	s.Run("missing phone", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/contacts",
			map[string]string{"name": "Bob"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "missing_arguments")
	})

	s.Run("invalid phone", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/contacts",
			map[string]string{"name": "Bob", "phone": "12-34"}))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		body := testutil.UnmarshalErrorResponse(s.T(), rr)
		s.Equal("invalid_phone_format", body["error"])
		s.Equal("invalid phone number: 12-34", body["error_description"])
	})

	s.Run("malformed body", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/contacts", `{"name":`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("unknown field", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/contacts",
			`{"name":"Bob","phone":"0123456789","email":"x"}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})
}

func (s *HandlerSuite) TestContactLifecycle() {
	s.addContact("Alice", "0123456789")

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/contacts/Alice"))
	testutil.AssertStatusOK(s.T(), rr)

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/contacts/Alice/phones",
		map[string]string{"phone": "5555555555"}))
	testutil.AssertStatusOK(s.T(), rr)

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, "/contacts/Alice/phones/0123456789",
		map[string]string{"phone": "1111111111"}))
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[contactResponse](s.T(), rr)
	s.Equal([]string{"1111111111", "5555555555"}, resp.Phones)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/contacts/Alice/phones/1111111111"))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "phone", "1111111111")

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/contacts/Alice/phones/5555555555"))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/contacts/Alice/phones/5555555555"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/contacts/Alice"))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/contacts"))
	testutil.AssertStatusOK(s.T(), rr)
	list := testutil.UnmarshalResponse[contactListResponse](s.T(), rr)
	s.Empty(list.Contacts)

	snap, err := s.gateway.Load(context.Background())
	s.Require().NoError(err)
	s.Empty(snap.Contacts)
}

func (s *HandlerSuite) TestUnknownContact() {
	requests := []*http.Request{
		testutil.NewRequest(s.T(), http.MethodGet, "/contacts/Nobody"),
		testutil.NewRequest(s.T(), http.MethodDelete, "/contacts/Nobody"),
		testutil.NewJSONRequest(s.T(), http.MethodPost, "/contacts/Nobody/phones", map[string]string{"phone": "0123456789"}),
		testutil.NewRequest(s.T(), http.MethodGet, "/contacts/Nobody/birthday"),
		testutil.NewJSONRequest(s.T(), http.MethodPut, "/contacts/Nobody/birthday", map[string]string{"birthday": "01-01-1990"}),
	}
	for _, req := range requests {
		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusNotFound, rr.Code, req.Method+" "+req.URL.Path)
	}
	s.Equal(0, s.gateway.Saves())
}

func (s *HandlerSuite) TestBirthdays() {
	s.addContact("Alice", "0123456789")
	s.addContact("Bob", "0123456789")
	s.addContact("Carl", "0123456789")

	for name, day := range map[string]string{"Alice": "12-06-1990", "Bob": "15-06-1985", "Carl": "20-06-2000"} {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, "/contacts/"+name+"/birthday",
			map[string]string{"birthday": day}))
		testutil.AssertStatusOK(s.T(), rr)
	}

	s.Run("second birthday conflicts", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, "/contacts/Alice/birthday",
			map[string]string{"birthday": "01-01-2000"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "birthday_already_set")
	})

	s.Run("invalid date", func() {
		s.addContact("Dana", "0123456789")
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, "/contacts/Dana/birthday",
			map[string]string{"birthday": "2000-01-01"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_date_format")
	})

	s.Run("show", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/contacts/Alice/birthday"))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "description", "Birthday: 12-06-1990")
	})

	s.Run("upcoming", func() {
		req := testutil.WithToday(testutil.NewRequest(s.T(), http.MethodGet, "/birthdays/upcoming"), s.today)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusOK(s.T(), rr)

		body := testutil.UnmarshalResponse[upcomingResponse](s.T(), rr)
		s.Equal("10-06-2024", body.Today)
		s.Equal([]celebrationResponse{
			{Date: "12-06-2024", Names: []string{"Alice"}},
			{Date: "17-06-2024", Names: []string{"Bob"}},
		}, body.Celebrations)
	})
}

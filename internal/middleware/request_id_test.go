package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type RequestIDTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func (s *RequestIDTestSuite) SetupTest() {
	s.echo = echo.New()
}

func TestRequestIDTestSuite(t *testing.T) {
	suite.Run(t, new(RequestIDTestSuite))
}

type observedTraceIDs struct {
	echoContext    string
	requestContext string
	header         string
}

func (s *RequestIDTestSuite) run(headers map[string]string) observedTraceIDs {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	var seen observedTraceIDs
	handler := RequestID()(func(c echo.Context) error {
		seen.echoContext = GetTraceID(c)
		seen.requestContext = TraceIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusCreated)
	})

	s.Require().NoError(handler(c))
	seen.header = rec.Header().Get(TraceIDHeader)
	return seen
}

func (s *RequestIDTestSuite) TestGeneratedTraceIDIsSharedEverywhere() {
	seen := s.run(nil)

	s.Regexp(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, seen.header)
	s.Equal(seen.header, seen.echoContext)
	s.Equal(seen.header, seen.requestContext)
}

func (s *RequestIDTestSuite) TestGeneratedTraceIDsDiffer() {
	s.NotEqual(s.run(nil).header, s.run(nil).header)
}

func (s *RequestIDTestSuite) TestCallerSuppliedTraceID() {
	testCases := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{
			name:     "trace header reused",
			headers:  map[string]string{TraceIDHeader: "0b8f7c1e-3a52-4d7e-9c61-2f4a8e9d1b07"},
			expected: "0b8f7c1e-3a52-4d7e-9c61-2f4a8e9d1b07",
		},
		{
			name:     "upper case is canonicalised",
			headers:  map[string]string{TraceIDHeader: "0B8F7C1E-3A52-4D7E-9C61-2F4A8E9D1B07"},
			expected: "0b8f7c1e-3a52-4d7e-9c61-2f4a8e9d1b07",
		},
		{
			name:     "request id header as fallback",
			headers:  map[string]string{echo.HeaderXRequestID: "6f1d2c3b-8a9e-4b7c-a1d2-e3f4a5b6c7d8"},
			expected: "6f1d2c3b-8a9e-4b7c-a1d2-e3f4a5b6c7d8",
		},
		{
			name: "trace header wins over request id",
			headers: map[string]string{
				TraceIDHeader:         "0b8f7c1e-3a52-4d7e-9c61-2f4a8e9d1b07",
				echo.HeaderXRequestID: "6f1d2c3b-8a9e-4b7c-a1d2-e3f4a5b6c7d8",
			},
			expected: "0b8f7c1e-3a52-4d7e-9c61-2f4a8e9d1b07",
		},
		{
			name: "malformed trace header falls through to request id",
			headers: map[string]string{
				TraceIDHeader:         "<script>alert(1)</script>",
				echo.HeaderXRequestID: "6f1d2c3b-8a9e-4b7c-a1d2-e3f4a5b6c7d8",
			},
			expected: "6f1d2c3b-8a9e-4b7c-a1d2-e3f4a5b6c7d8",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			seen := s.run(tc.headers)

			s.Equal(tc.expected, seen.header)
			s.Equal(tc.expected, seen.echoContext)
			s.Equal(tc.expected, seen.requestContext)
		})
	}
}

func (s *RequestIDTestSuite) TestMalformedTraceIDIsReplaced() {
	seen := s.run(map[string]string{TraceIDHeader: "session-42"})

	s.NotEqual("session-42", seen.header)
	s.Len(seen.header, 36)
}

func (s *RequestIDTestSuite) TestOutsideTracedRequest() {
	c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	s.Empty(GetTraceID(c))
	s.Empty(TraceIDFromContext(c.Request().Context()))
}

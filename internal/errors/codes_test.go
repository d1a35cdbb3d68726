package errors

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CodesTestSuite struct {
	suite.Suite
}

func TestCodesTestSuite(t *testing.T) {
	suite.Run(t, new(CodesTestSuite))
}

// codeFamilies lists every declared code under its prefix
var codeFamilies = map[string][]ErrorCode{
	"VALIDATION": {
		ValidationGeneral, ValidationRequiredField, ValidationInvalidFormat,
		ValidationOutOfRange, ValidationInvalidDate, ValidationInvalidCredit,
		ValidationInvalidSort, ValidationInvalidPage, ValidationInvalidExport,
	},
	"QUERY":   {QueryFetchFailed, QueryMalformedRecord, QueryInProgress, QueryExportFailed},
	"SESSION": {SessionNotFound, SessionInvalidID, SessionLimitReached},
	"SYSTEM": {
		SystemInternalError, SystemDatabaseError, SystemServiceUnavailable,
		SystemConfigurationError, SystemUnexpectedError, SystemRateLimitExceeded,
		SystemRouteNotFound,
	},
}

var codePattern = regexp.MustCompile(`^([A-Z]+)_(\d{3})$`)

func (s *CodesTestSuite) TestFamiliesAreNumberedFromOne() {
	for family, codes := range codeFamilies {
		s.Run(family, func() {
			for i, code := range codes {
				match := codePattern.FindStringSubmatch(string(code))
				s.Require().NotNil(match, "malformed code %q", code)
				s.Equal(family, match[1])
				s.Equal(i+1, atoi(match[2]), "%s is out of sequence", code)
			}
		})
	}
}

func (s *CodesTestSuite) TestEveryDeclaredCodeIsRegistered() {
	declared := 0
	for _, codes := range codeFamilies {
		for _, code := range codes {
			declared++
			s.True(IsValidErrorCode(code), code)
			s.NotEqual("An error occurred", GetErrorMessage(code), "%s has no specific message", code)
		}
	}
	s.Equal(len(errorMessages), declared, "a registered code is missing from codeFamilies")
}

func (s *CodesTestSuite) TestQueryMessages() {
	s.Equal("An error occurred while fetching the data. Please try again.", GetErrorMessage(QueryFetchFailed))
	s.Equal("A query is already in progress for this session", GetErrorMessage(QueryInProgress))
	s.Equal("Query session not found", GetErrorMessage(SessionNotFound))
	s.True(strings.HasSuffix(GetErrorMessage(SystemInternalError), "trace ID"))
}

func (s *CodesTestSuite) TestUnknownCodes() {
	for _, code := range []ErrorCode{"", "QUERY_999", "query_001", "AUTH_001"} {
		s.False(IsValidErrorCode(code), code)
		s.Equal("An error occurred", GetErrorMessage(code))
	}
}

func atoi(digits string) int {
	n := 0
	for _, d := range digits {
		n = n*10 + int(d-'0')
	}
	return n
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"transaction-query/internal/dto"
	"transaction-query/internal/models"
	"transaction-query/internal/repositories/repository_mocks"
	"transaction-query/internal/services/service_mocks"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type DevHandlerTestSuite struct {
	suite.Suite
	echo                *echo.Echo
	ctrl                *gomock.Controller
	mockTransactionRepo *repository_mocks.MockTransactionRepositoryInterface
	mockGenerator       *service_mocks.MockTransactionGeneratorInterface
	handler             *DevHandler
}

func TestDevHandlerSuite(t *testing.T) {
	suite.Run(t, new(DevHandlerTestSuite))
}

func (s *DevHandlerTestSuite) SetupTest() {
	s.echo = newTestEcho()
	s.ctrl = gomock.NewController(s.T())
	s.mockTransactionRepo = repository_mocks.NewMockTransactionRepositoryInterface(s.ctrl)
	s.mockGenerator = service_mocks.NewMockTransactionGeneratorInterface(s.ctrl)
	s.handler = NewDevHandler(s.mockTransactionRepo, s.mockGenerator)
}

func (s *DevHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *DevHandlerTestSuite) generated(n int) []models.TransactionRecord {
	records := make([]models.TransactionRecord, n)
	for i := range records {
		records[i] = models.TransactionRecord{
			TransactionID: gofakeit.UUID(),
			Timestamp:     gofakeit.DateRange(time.Now().AddDate(0, -1, 0), time.Now()),
			Credit:        decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
			Detail:        "Purchase at " + gofakeit.Company(),
		}
	}
	return records
}

func (s *DevHandlerTestSuite) TestGenerateTestData_UsesRequestedWindow() {
	records := s.generated(3)
	s.handler.now = func() time.Time { return time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC) }

	s.mockGenerator.EXPECT().
		GenerateTransactions(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC), 250).
		Return(records)
	s.mockTransactionRepo.EXPECT().CreateBatch(gomock.Any(), records).Return(int64(3), nil)
	s.mockTransactionRepo.EXPECT().Count(gomock.Any()).Return(int64(13), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dev/transactions/generate?count=250&days=30", nil)
	rec := httptest.NewRecorder()

	s.NoError(s.handler.GenerateTestData(s.echo.NewContext(req, rec)))
	s.Equal(http.StatusOK, rec.Code)

	var body dto.GenerateTransactionsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(int64(3), body.TransactionsCreated)
	s.Equal(int64(13), body.TotalTransactions)
	s.Equal(dto.DateRange{Start: "2024-06-01T12:00:00Z", End: "2024-07-01T12:00:00Z"}, body.DateRange)
}

func (s *DevHandlerTestSuite) TestGenerateTestData_Defaults() {
	s.mockGenerator.EXPECT().
		GenerateTransactions(gomock.Any(), gomock.Any(), dto.DefaultGenerateCount).
		DoAndReturn(func(start, end time.Time, count int) []models.TransactionRecord {
			s.Equal(dto.DefaultGenerateDays, int(end.Sub(start).Hours()/24))
			return s.generated(1)
		})
	s.mockTransactionRepo.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(int64(1), nil)
	s.mockTransactionRepo.EXPECT().Count(gomock.Any()).Return(int64(1), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dev/transactions/generate", nil)
	rec := httptest.NewRecorder()

	s.NoError(s.handler.GenerateTestData(s.echo.NewContext(req, rec)))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *DevHandlerTestSuite) TestGenerateTestData_OutOfRange() {
	for _, query := range []string{"count=5000", "days=9999", "count=-1"} {
		s.Run(query, func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/dev/transactions/generate?"+query, nil)

			err := s.handler.GenerateTestData(s.echo.NewContext(req, httptest.NewRecorder()))

			var validationErrs validator.ValidationErrors
			s.True(errors.As(err, &validationErrs))
		})
	}
}

func (s *DevHandlerTestSuite) TestGenerateTestData_NotANumber() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dev/transactions/generate?count=abc", nil)
	rec := httptest.NewRecorder()

	s.NoError(s.handler.GenerateTestData(s.echo.NewContext(req, rec)))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "VALIDATION_001")
}

func (s *DevHandlerTestSuite) TestGenerateTestData_RepositoryError() {
	s.mockGenerator.EXPECT().GenerateTransactions(gomock.Any(), gomock.Any(), gomock.Any()).Return(s.generated(2))
	s.mockTransactionRepo.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("disk full"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dev/transactions/generate", nil)
	rec := httptest.NewRecorder()

	s.NoError(s.handler.GenerateTestData(s.echo.NewContext(req, rec)))
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Contains(rec.Body.String(), "SYSTEM_001")
	s.NotContains(rec.Body.String(), "disk full")
}

func (s *DevHandlerTestSuite) TestGenerateTestData_CountError() {
	s.mockGenerator.EXPECT().GenerateTransactions(gomock.Any(), gomock.Any(), gomock.Any()).Return(s.generated(2))
	s.mockTransactionRepo.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(int64(2), nil)
	s.mockTransactionRepo.EXPECT().Count(gomock.Any()).Return(int64(0), errors.New("statement timeout"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dev/transactions/generate?count=2", nil)
	rec := httptest.NewRecorder()

	s.NoError(s.handler.GenerateTestData(s.echo.NewContext(req, rec)))
	s.Equal(http.StatusInternalServerError, rec.Code)
}

package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"transaction-query/internal/models"
	"transaction-query/internal/services"
	"transaction-query/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type SessionStoreTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	query   *service_mocks.MockQueryServiceInterface
	metrics *service_mocks.MockMetricsRecorderInterface
	store   services.SessionStoreInterface
	now     time.Time
}

func TestSessionStoreSuite(t *testing.T) {
	suite.Run(t, new(SessionStoreTestSuite))
}

func (s *SessionStoreTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.query = service_mocks.NewMockQueryServiceInterface(s.ctrl)
	s.metrics = service_mocks.NewMockMetricsRecorderInterface(s.ctrl)
	s.store = services.NewSessionStore(s.query, s.metrics, services.SessionStoreConfig{
		MaxSessions: 3,
		IdleTimeout: 10 * time.Minute,
	})
	s.now = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	services.SetSessionClock(s.store, func() time.Time { return s.now })
}

func (s *SessionStoreTestSuite) create() *services.QuerySession {
	session, err := s.store.Create()
	s.Require().NoError(err)
	return session
}

func (s *SessionStoreTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *SessionStoreTestSuite) TestSessionStore_CreateGetDelete() {
	gomock.InOrder(
		s.metrics.EXPECT().RecordGauge("sessions.active", float64(1), gomock.Nil()),
		s.metrics.EXPECT().RecordGauge("sessions.active", float64(0), gomock.Nil()),
	)

	session := s.create()
	s.Require().NotNil(session)
	_, err := uuid.Parse(session.ID())
	s.NoError(err)
	s.Equal(1, s.store.Len())

	found, err := s.store.Get(session.ID())
	s.Require().NoError(err)
	s.Same(session, found)

	s.NoError(s.store.Delete(session.ID()))
	s.Equal(0, s.store.Len())

	_, err = s.store.Get(session.ID())
	s.ErrorIs(err, services.ErrSessionNotFound)
}

func (s *SessionStoreTestSuite) TestSessionStore_UnknownAndInvalidIDs() {
	_, err := s.store.Get(uuid.New().String())
	s.ErrorIs(err, services.ErrSessionNotFound)

	_, err = s.store.Get("not-a-uuid")
	s.ErrorIs(err, services.ErrInvalidSessionID)

	s.ErrorIs(s.store.Delete(uuid.New().String()), services.ErrSessionNotFound)
	s.ErrorIs(s.store.Delete(""), services.ErrInvalidSessionID)
}

func (s *SessionStoreTestSuite) TestSessionStore_ConcurrentCreate() {
	s.store = services.NewSessionStore(s.query, s.metrics, services.SessionStoreConfig{})
	s.metrics.EXPECT().RecordGauge("sessions.active", gomock.Any(), gomock.Any()).Times(20)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Create()
			s.NoError(err)
		}()
	}
	wg.Wait()

	s.Equal(20, s.store.Len())
}

func (s *SessionStoreTestSuite) TestSessionStore_SweepClosesIdleSessions() {
	s.metrics.EXPECT().RecordGauge("sessions.active", gomock.Any(), gomock.Nil()).Times(2)
	s.metrics.EXPECT().RecordGauge("sessions.active", float64(1), gomock.Nil()).Times(1)

	idle := s.create()
	used := s.create()

	s.now = s.now.Add(8 * time.Minute)
	_, err := s.store.Get(used.ID())
	s.Require().NoError(err)

	s.now = s.now.Add(5 * time.Minute)
	s.Equal(1, s.store.Sweep())
	s.Equal(1, s.store.Len())

	_, err = s.store.Get(idle.ID())
	s.ErrorIs(err, services.ErrSessionNotFound)
	_, err = s.store.Get(used.ID())
	s.NoError(err)

	s.Equal(0, s.store.Sweep())
}

func (s *SessionStoreTestSuite) TestSessionStore_SweepKeepsLoadingSession() {
	s.metrics.EXPECT().RecordGauge("sessions.active", gomock.Any(), gomock.Any()).AnyTimes()

	started := make(chan struct{})
	release := make(chan struct{})
	s.query.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, models.FilterRequest) ([]models.TransactionRecord, error) {
			close(started)
			<-release
			return []models.TransactionRecord{}, nil
		}).Times(1)

	session := s.create()
	done := make(chan error, 1)
	go func() { done <- session.Submit(context.Background(), models.FilterRequest{}) }()
	<-started

	s.now = s.now.Add(time.Hour)
	s.Equal(0, s.store.Sweep())
	s.Equal(1, s.store.Len())

	close(release)
	s.NoError(<-done)

	s.Equal(1, s.store.Sweep())
	s.Equal(0, s.store.Len())
}

func (s *SessionStoreTestSuite) TestSessionStore_LimitReached() {
	s.metrics.EXPECT().RecordGauge("sessions.active", gomock.Any(), gomock.Nil()).Times(3)

	for i := 0; i < 3; i++ {
		s.create()
	}

	session, err := s.store.Create()
	s.ErrorIs(err, services.ErrSessionLimitReached)
	s.Nil(session)
	s.Equal(3, s.store.Len())
}

func (s *SessionStoreTestSuite) TestSessionStore_FullStoreSweepsBeforeRefusing() {
	s.metrics.EXPECT().RecordGauge("sessions.active", gomock.Any(), gomock.Nil()).AnyTimes()

	stale := s.create()
	s.now = s.now.Add(11 * time.Minute)
	s.create()
	s.create()

	session, err := s.store.Create()
	s.Require().NoError(err)
	s.NotNil(session)
	s.Equal(3, s.store.Len())

	_, err = s.store.Get(stale.ID())
	s.ErrorIs(err, services.ErrSessionNotFound)
}

func (s *SessionStoreTestSuite) TestSessionStore_CleanupSweepsUntilCancelled() {
	s.store = services.NewSessionStore(s.query, s.metrics, services.SessionStoreConfig{IdleTimeout: 20 * time.Millisecond})
	s.metrics.EXPECT().RecordGauge("sessions.active", gomock.Any(), gomock.Nil()).AnyTimes()

	s.create()

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		s.store.Cleanup(ctx)
		close(stopped)
	}()

	s.Eventually(func() bool { return s.store.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	s.Eventually(func() bool {
		select {
		case <-stopped:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

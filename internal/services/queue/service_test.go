package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/storage/memory"
	"github.com/mcoot/betsim/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) enqueue(ids ...string) {
	for _, id := range ids {
		s.Require().NoError(s.service.Enqueue(s.ctx, id))
	}
}

func (s *ServiceSuite) TestDequeueIsFIFO() {
	s.enqueue("A", "B", "C")

	for _, want := range []string{"A", "B", "C"} {
		got, err := s.service.Dequeue(s.ctx)
		s.Require().NoError(err)
		s.Equal(want, got)
	}
}

func (s *ServiceSuite) TestDequeueEmpty() {
	_, err := s.service.Dequeue(s.ctx)
	s.ErrorIs(err, model.ErrEmptyQueue)
}

func (s *ServiceSuite) TestDequeueAfterDrain() {
	s.enqueue("A")
	_, err := s.service.Dequeue(s.ctx)
	s.Require().NoError(err)

	_, err = s.service.Dequeue(s.ctx)
	s.ErrorIs(err, model.ErrEmptyQueue)
}

func (s *ServiceSuite) TestEnqueueAllowsDuplicates() {
	s.enqueue("A", "A")

	all, err := s.service.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"A", "A"}, all)
}

func (s *ServiceSuite) TestEnqueueDoesNotCheckLedger() {
	s.enqueue("NOT-A-PLAYER")

	front, err := s.service.Peek(s.ctx)
	s.Require().NoError(err)
	s.Equal("NOT-A-PLAYER", front)
}

func (s *ServiceSuite) TestPeekDoesNotRemove() {
	s.enqueue("A", "B")

	front, err := s.service.Peek(s.ctx)
	s.Require().NoError(err)
	s.Equal("A", front)

	n, err := s.service.Len(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *ServiceSuite) TestPeekEmpty() {
	_, err := s.service.Peek(s.ctx)
	s.ErrorIs(err, model.ErrEmptyQueue)
}

func (s *ServiceSuite) TestGetAllEmpty() {
	all, err := s.service.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *ServiceSuite) TestClear() {
	s.enqueue("A", "B")
	s.Require().NoError(s.service.Clear(s.ctx))

	empty, err := s.service.IsEmpty(s.ctx)
	s.Require().NoError(err)
	s.True(empty)
}

func (s *ServiceSuite) TestIsEmpty() {
	empty, err := s.service.IsEmpty(s.ctx)
	s.Require().NoError(err)
	s.True(empty)

	s.enqueue("A")
	empty, err = s.service.IsEmpty(s.ctx)
	s.Require().NoError(err)
	s.False(empty)
}

func (s *ServiceSuite) TestCorruptQueueIsNotReset() {
	s.storage.SetRawQueue([]byte(`{"not": "a list"}`))

	err := s.service.Enqueue(s.ctx, "A")
	s.ErrorIs(err, model.ErrIO)

	_, err = s.service.Len(s.ctx)
	s.ErrorIs(err, model.ErrIO)
}

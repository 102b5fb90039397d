package auditlog_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dalemusser/clubhub/internal/app/store/audit"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type memSink struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

func (s *memSink) Log(_ context.Context, ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, ev)
	return nil
}

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(context.Background(), audit.Event{EventType: "test"})
	logger.LoginSuccess(context.Background(), req, "u1", "a@b.co", "admin")
	logger.Logout(context.Background(), req, "u1")
}

func TestLogger_ConfigOff(t *testing.T) {
	sink := &memSink{}
	logger := auditlog.New(sink, zap.NewNop(), auditlog.Config{Auth: "off", Admin: "off"})
	req := httptest.NewRequest("POST", "/login", nil)

	logger.LoginSuccess(context.Background(), req, "u1", "a@b.co", "admin")
	logger.RecordDeleted(context.Background(), req, "members", "m1")

	assert.Empty(t, sink.events)
}

func TestLogger_ConfigLogOnly(t *testing.T) {
	sink := &memSink{}
	core, logs := observer.New(zap.InfoLevel)
	logger := auditlog.New(sink, zap.New(core), auditlog.Config{Auth: "log"})
	req := httptest.NewRequest("POST", "/login", nil)

	logger.LoginSuccess(context.Background(), req, "u1", "a@b.co", "admin")

	assert.Empty(t, sink.events)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "audit event", logs.All()[0].Message)
}

func TestLogger_CategoriesConfiguredSeparately(t *testing.T) {
	sink := &memSink{}
	logger := auditlog.New(sink, zap.NewNop(), auditlog.Config{Auth: "off", Admin: "db"})
	req := httptest.NewRequest("POST", "/members/m1/delete", nil)

	logger.Logout(context.Background(), req, "u1")
	logger.RecordDeleted(context.Background(), req, "members", "m1")

	require.Len(t, sink.events, 1)
	assert.Equal(t, audit.EventRecordDeleted, sink.events[0].EventType)
	assert.Equal(t, "members", sink.events[0].Resource)
	assert.Equal(t, "m1", sink.events[0].ResourceID)
}

func TestLogger_ActorFromSession(t *testing.T) {
	sink := &memSink{}
	logger := auditlog.New(sink, zap.NewNop(), auditlog.Config{Admin: "db"})

	req := httptest.NewRequest("POST", "/classes/c1/enroll", nil)
	req.RemoteAddr = "10.0.0.5:12345"
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "staff-1", Email: "s@club.test", Role: "classes"})

	logger.MemberEnrolled(context.Background(), req, "c1", "m9")

	require.Len(t, sink.events, 1)
	ev := sink.events[0]
	assert.Equal(t, "staff-1", ev.ActorID)
	assert.Equal(t, "classes", ev.ActorRole)
	assert.Equal(t, "m9", ev.UserID)
	assert.Equal(t, "10.0.0.5", ev.IP)
	assert.True(t, ev.Success)
}

func TestLogger_FailuresCarryReason(t *testing.T) {
	sink := &memSink{}
	logger := auditlog.New(sink, zap.NewNop(), auditlog.Config{Auth: "db", Admin: "db"})
	req := httptest.NewRequest("POST", "/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.195")

	logger.LoginFailed(context.Background(), req, "x@club.test", "Invalid credentials")
	logger.DeleteFailed(context.Background(), req, "clubs", "k1", "Club has members")

	require.Len(t, sink.events, 2)
	assert.False(t, sink.events[0].Success)
	assert.Equal(t, "Invalid credentials", sink.events[0].FailureReason)
	assert.Equal(t, "203.0.113.195", sink.events[0].IP)
	assert.Equal(t, "Club has members", sink.events[1].FailureReason)
}

func TestLogger_SinkErrorIsLogged(t *testing.T) {
	sink := &memSink{err: errors.New("mongo down")}
	core, logs := observer.New(zap.ErrorLevel)
	logger := auditlog.New(sink, zap.New(core), auditlog.Config{Admin: "db"})

	logger.MembersExported(context.Background(), httptest.NewRequest("GET", "/members/export", nil), 12)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "failed to store audit event", logs.All()[0].Message)
}

package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aulaflow/scheduler/internal/config"
	"github.com/aulaflow/scheduler/internal/model"
	"github.com/aulaflow/scheduler/internal/repository/inmem"
)

type fixture struct {
	svc      *Service
	sessions *inmem.SessionStore
	teachers *inmem.TeacherStore
	students *inmem.StudentStore
	now      time.Time
	teacher  *model.Teacher
	student  *model.Student
}

func newFixture(t *testing.T, maxDaily int) *fixture {
	t.Helper()

	db := inmem.Open()
	f := &fixture{
		sessions: inmem.NewSessionStore(db),
		teachers: inmem.NewTeacherStore(db),
		students: inmem.NewStudentStore(db),
		now:      time.Date(2026, time.March, 10, 10, 0, 0, 0, time.Local),
	}

	cfg := &config.Config{
		MaxDailySessions: maxDaily,
		MinLeadTime:      config.DefaultMinLeadTime,
	}
	f.svc = NewService(f.sessions, f.teachers, f.students, cfg, zap.NewNop())
	f.svc.now = func() time.Time { return f.now }

	f.teacher = &model.Teacher{CPF: "11122233344", Name: "Ana Souza", Specialty: "English", Active: true}
	require.NoError(t, f.teachers.Create(context.Background(), f.teacher))

	f.student = &model.Student{CPF: "55566677788", Name: "Bruno Lima", City: "Recife", WhatsApp: "+5581999990000"}
	require.NoError(t, f.students.Create(context.Background(), f.student))

	return f
}

func (f *fixture) create(t *testing.T, at time.Time) *model.Session {
	t.Helper()
	sess, err := f.svc.Create(context.Background(), CreateInput{
		TeacherID:   f.teacher.ID,
		StudentID:   f.student.ID,
		ScheduledAt: at,
		Content:     "Irregular verbs",
	})
	require.NoError(t, err)
	return sess
}

func TestCreateLeadTimeBoundary(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	tests := []struct {
		name     string
		at       time.Time
		wantKind Kind
	}{
		{"one second short", f.now.Add(24*time.Hour - time.Second), KindLeadTime},
		{"exactly at the boundary", f.now.Add(24 * time.Hour), KindLeadTime},
		{"one second past", f.now.Add(24*time.Hour + time.Second), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, CreateInput{
				TeacherID:   f.teacher.ID,
				StudentID:   f.student.ID,
				ScheduledAt: tt.at,
				Content:     "Irregular verbs",
			})
			if tt.wantKind == KindUnknown {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantKind, KindOf(err))
			}
		})
	}
}

func TestCreateCapacity(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	day := f.now.Add(48 * time.Hour)

	f.create(t, day)
	second := f.create(t, day.Add(time.Hour))

	// cap reached
	_, err := f.svc.Create(ctx, CreateInput{
		TeacherID:   f.teacher.ID,
		StudentID:   f.student.ID,
		ScheduledAt: day.Add(2 * time.Hour),
		Content:     "Irregular verbs",
	})
	assert.Equal(t, KindCapacity, KindOf(err))

	// another day is unaffected
	f.create(t, day.Add(24*time.Hour))

	// cancelled sessions do not count against the cap
	_, err = f.svc.Cancel(ctx, second.ID)
	require.NoError(t, err)
	f.create(t, day.Add(2*time.Hour))
}

func TestCreateUnknownParticipants(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()
	at := f.now.Add(48 * time.Hour)

	_, err := f.svc.Create(ctx, CreateInput{TeacherID: 999, StudentID: f.student.ID, ScheduledAt: at, Content: "x"})
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = f.svc.Create(ctx, CreateInput{TeacherID: f.teacher.ID, StudentID: 999, ScheduledAt: at, Content: "x"})
	assert.Equal(t, KindNotFound, KindOf(err))

	// nothing was persisted by the failed calls
	all, err := f.sessions.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateRequiresContent(t *testing.T) {
	f := newFixture(t, 4)

	_, err := f.svc.Create(context.Background(), CreateInput{
		TeacherID:   f.teacher.ID,
		StudentID:   f.student.ID,
		ScheduledAt: f.now.Add(48 * time.Hour),
		Content:     "   ",
	})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCreateResolvesDisplayData(t *testing.T) {
	f := newFixture(t, 4)

	sess := f.create(t, f.now.Add(48*time.Hour))
	assert.Equal(t, model.StatusScheduled, sess.Status)
	assert.Equal(t, "Ana Souza", sess.TeacherName)
	assert.Equal(t, "English", sess.TeacherSpecialty)
	assert.Equal(t, "Bruno Lima", sess.StudentName)
	assert.Equal(t, "+5581999990000", sess.StudentWhatsApp)
}

func TestReschedulePatchesOnlyGivenFields(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	sess := f.create(t, f.now.Add(48*time.Hour))

	newAt := f.now.Add(72 * time.Hour)
	content := "Past simple"
	got, err := f.svc.Reschedule(ctx, sess.ID, Patch{ScheduledAt: &newAt, Content: &content})
	require.NoError(t, err)

	assert.True(t, got.ScheduledAt.Equal(newAt))
	assert.Equal(t, "Past simple", got.Content)
	assert.Equal(t, sess.TeacherID, got.TeacherID)
	assert.Equal(t, sess.StudentID, got.StudentID)
	assert.Equal(t, model.StatusScheduled, got.Status)
}

func TestRescheduleLeadTime(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	sess := f.create(t, f.now.Add(48*time.Hour))

	tooSoon := f.now.Add(12 * time.Hour)
	_, err := f.svc.Reschedule(ctx, sess.ID, Patch{ScheduledAt: &tooSoon})
	assert.Equal(t, KindLeadTime, KindOf(err))

	// the stored session keeps its original time
	stored, err := f.svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, stored.ScheduledAt.Equal(sess.ScheduledAt))
}

func TestRescheduleUnknownTeacher(t *testing.T) {
	f := newFixture(t, 4)

	sess := f.create(t, f.now.Add(48*time.Hour))

	badTeacher := int64(999)
	_, err := f.svc.Reschedule(context.Background(), sess.ID, Patch{TeacherID: &badTeacher})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestRescheduleMissingSession(t *testing.T) {
	f := newFixture(t, 4)

	_, err := f.svc.Reschedule(context.Background(), uuid.New(), Patch{})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestTerminalSessionsAreImmutable(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	finalized := f.create(t, f.now.Add(48*time.Hour))
	_, err := f.svc.Finalize(ctx, finalized.ID, "covered chapters 1-3")
	require.NoError(t, err)

	cancelled := f.create(t, f.now.Add(50*time.Hour))
	_, err = f.svc.Cancel(ctx, cancelled.ID)
	require.NoError(t, err)

	newAt := f.now.Add(96 * time.Hour)
	for _, sess := range []*model.Session{finalized, cancelled} {
		_, err = f.svc.Reschedule(ctx, sess.ID, Patch{ScheduledAt: &newAt})
		assert.Equal(t, KindTerminalState, KindOf(err))

		_, err = f.svc.Cancel(ctx, sess.ID)
		assert.Equal(t, KindTerminalState, KindOf(err))

		_, err = f.svc.Finalize(ctx, sess.ID, "again")
		assert.Equal(t, KindTerminalState, KindOf(err))
	}

	// stored state is untouched by the rejected calls
	stored, err := f.svc.Get(ctx, finalized.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFinalized, stored.Status)
	assert.Equal(t, "covered chapters 1-3", stored.Notes)

	stored, err = f.svc.Get(ctx, cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, stored.Status)
	assert.Empty(t, stored.Notes)
}

func TestCancelMessagesDistinguishTerminalStates(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	finalized := f.create(t, f.now.Add(48*time.Hour))
	_, err := f.svc.Finalize(ctx, finalized.ID, "done")
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, finalized.ID)
	require.Error(t, err)
	assert.EqualError(t, err, "cannot cancel a finalized session")

	cancelled := f.create(t, f.now.Add(50*time.Hour))
	_, err = f.svc.Cancel(ctx, cancelled.ID)
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, cancelled.ID)
	require.Error(t, err)
	assert.EqualError(t, err, "session is already cancelled")
}

func TestFinalizeRequiresNotes(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	sess := f.create(t, f.now.Add(48*time.Hour))

	_, err := f.svc.Finalize(ctx, sess.ID, "")
	assert.Equal(t, KindValidation, KindOf(err))

	stored, err := f.svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusScheduled, stored.Status)
}

func TestDayDualListOrdering(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	day := model.DayOf(f.now.Add(48 * time.Hour))
	afternoon := f.create(t, day.Add(14*time.Hour))
	morning := f.create(t, day.Add(9*time.Hour))

	// seed 11 finalized sessions on 11 distinct earlier dates, bypassing the
	// engine since past bookings cannot be created through it
	for i := 1; i <= 11; i++ {
		sess := &model.Session{
			ID:          uuid.New(),
			TeacherID:   f.teacher.ID,
			StudentID:   f.student.ID,
			ScheduledAt: f.now.AddDate(0, 0, -i),
			Content:     "past lesson",
			Status:      model.StatusFinalized,
			Notes:       "ok",
		}
		require.NoError(t, f.sessions.InsertGuarded(ctx, sess, 100))
	}

	view, err := f.svc.Day(ctx, f.teacher.ID, day)
	require.NoError(t, err)

	require.Len(t, view.Today, 2)
	assert.Equal(t, morning.ID, view.Today[0].ID)
	assert.Equal(t, afternoon.ID, view.Today[1].ID)

	require.Len(t, view.History, 10)
	for i := 1; i < len(view.History); i++ {
		assert.True(t, view.History[i].ScheduledAt.Before(view.History[i-1].ScheduledAt),
			"history must be ordered most recent first")
	}
}

func TestDayUnknownTeacher(t *testing.T) {
	f := newFixture(t, 4)

	_, err := f.svc.Day(context.Background(), 999, f.now)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	sess, err := f.svc.Create(ctx, CreateInput{
		TeacherID:   f.teacher.ID,
		StudentID:   f.student.ID,
		ScheduledAt: f.now.Add(48 * time.Hour),
		Content:     "Verbs To Be",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusScheduled, sess.Status)

	done, err := f.svc.Finalize(ctx, sess.ID, "Good progress")
	require.NoError(t, err)
	assert.Equal(t, model.StatusFinalized, done.Status)
	assert.Equal(t, "Good progress", done.Notes)

	_, err = f.svc.Cancel(ctx, sess.ID)
	assert.Equal(t, KindTerminalState, KindOf(err))
}

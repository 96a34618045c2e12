// Package inmem provides map-backed store implementations used by tests.
// They honor the same contracts as the Postgres repositories, including the
// guarded insert (serialized here by the database mutex).
package inmem

import (
	"sync"

	"github.com/google/uuid"

	"github.com/aulaflow/scheduler/internal/model"
)

type DB struct {
	mu            sync.RWMutex
	sessions      map[uuid.UUID]*model.Session
	teachers      map[int64]*model.Teacher
	students      map[int64]*model.Student
	nextTeacherID int64
	nextStudentID int64
}

func Open() *DB {
	return &DB{
		sessions: make(map[uuid.UUID]*model.Session),
		teachers: make(map[int64]*model.Teacher),
		students: make(map[int64]*model.Student),
	}
}

func cloneSession(s *model.Session) *model.Session {
	c := *s
	return &c
}

func cloneTeacher(t *model.Teacher) *model.Teacher {
	c := *t
	return &c
}

func cloneStudent(st *model.Student) *model.Student {
	c := *st
	return &c
}

// resolveDisplay fills the joined directory fields the Postgres queries
// produce with JOINs. Callers must hold db.mu.
func (db *DB) resolveDisplay(s *model.Session) {
	if t, ok := db.teachers[s.TeacherID]; ok {
		s.TeacherName = t.Name
		s.TeacherSpecialty = t.Specialty
	}
	if st, ok := db.students[s.StudentID]; ok {
		s.StudentName = st.Name
		s.StudentWhatsApp = st.WhatsApp
	}
}

package service

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/lhp-attendance-api/internal/models"
	"github.com/noah-isme/lhp-attendance-api/internal/repository"
	"github.com/noah-isme/lhp-attendance-api/pkg/sheets"
)

func sameDate(a, b datatypes.Date) bool {
	return time.Time(a).Equal(time.Time(b))
}

func dateInRange(d datatypes.Date, from, to time.Time) bool {
	day := time.Time(d)
	lower := time.Time(models.DateOf(from))
	upper := time.Time(models.DateOf(to))
	return !day.Before(lower) && day.Before(upper)
}

type stubUsers struct {
	users  map[uint]models.User
	nextID uint
}

func newStubUsers(users ...models.User) *stubUsers {
	s := &stubUsers{users: make(map[uint]models.User), nextID: 1}
	for _, user := range users {
		if user.ID >= s.nextID {
			s.nextID = user.ID + 1
		}
		s.users[user.ID] = user
	}
	return s
}

func (s *stubUsers) GetByID(_ context.Context, id uint) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *stubUsers) Create(_ context.Context, user *models.User) error {
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = *user
	return nil
}

func (s *stubUsers) Update(_ context.Context, user *models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.users[user.ID] = *user
	return nil
}

func (s *stubUsers) Delete(_ context.Context, id uint) error {
	delete(s.users, id)
	return nil
}

func (s *stubUsers) AdminExists(_ context.Context) (bool, error) {
	for _, user := range s.users {
		if user.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}

type stubTeachers struct {
	teachers map[uint]models.Teacher
	nextID   uint
}

func newStubTeachers(teachers ...models.Teacher) *stubTeachers {
	s := &stubTeachers{teachers: make(map[uint]models.Teacher), nextID: 1}
	for _, teacher := range teachers {
		if teacher.ID >= s.nextID {
			s.nextID = teacher.ID + 1
		}
		s.teachers[teacher.ID] = teacher
	}
	return s
}

func (s *stubTeachers) List(_ context.Context, activeOnly bool) ([]models.Teacher, error) {
	var out []models.Teacher
	for _, teacher := range s.teachers {
		if activeOnly && !teacher.Active {
			continue
		}
		out = append(out, teacher)
	}
	return out, nil
}

func (s *stubTeachers) GetByID(_ context.Context, id uint) (models.Teacher, error) {
	teacher, ok := s.teachers[id]
	if !ok {
		return models.Teacher{}, gorm.ErrRecordNotFound
	}
	return teacher, nil
}

func (s *stubTeachers) GetByEmail(_ context.Context, email string) (models.Teacher, error) {
	for _, teacher := range s.teachers {
		if teacher.Email == email {
			return teacher, nil
		}
	}
	return models.Teacher{}, gorm.ErrRecordNotFound
}

func (s *stubTeachers) GetActiveByEmail(_ context.Context, email string) (models.Teacher, error) {
	for _, teacher := range s.teachers {
		if teacher.Email == email && teacher.Active {
			return teacher, nil
		}
	}
	return models.Teacher{}, gorm.ErrRecordNotFound
}

func (s *stubTeachers) GetByUserID(_ context.Context, userID uint) (models.Teacher, error) {
	for _, teacher := range s.teachers {
		if teacher.UserID != nil && *teacher.UserID == userID {
			return teacher, nil
		}
	}
	return models.Teacher{}, gorm.ErrRecordNotFound
}

func (s *stubTeachers) Create(_ context.Context, teacher *models.Teacher) error {
	for _, existing := range s.teachers {
		if existing.Email == teacher.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	teacher.ID = s.nextID
	s.nextID++
	s.teachers[teacher.ID] = *teacher
	return nil
}

func (s *stubTeachers) Update(_ context.Context, teacher *models.Teacher) error {
	if _, ok := s.teachers[teacher.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.teachers[teacher.ID] = *teacher
	return nil
}

func (s *stubTeachers) Delete(_ context.Context, id uint) error {
	delete(s.teachers, id)
	return nil
}

type stubStudents struct {
	students map[uint]models.Student
	nextID   uint
}

func newStubStudents(students ...models.Student) *stubStudents {
	s := &stubStudents{students: make(map[uint]models.Student), nextID: 1}
	for _, student := range students {
		if student.ID >= s.nextID {
			s.nextID = student.ID + 1
		}
		s.students[student.ID] = student
	}
	return s
}

func (s *stubStudents) List(_ context.Context, activeOnly bool) ([]models.Student, error) {
	var out []models.Student
	for _, student := range s.students {
		if activeOnly && !student.Active {
			continue
		}
		out = append(out, student)
	}
	return out, nil
}

func (s *stubStudents) GetByID(_ context.Context, id uint) (models.Student, error) {
	student, ok := s.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (s *stubStudents) Create(_ context.Context, student *models.Student) error {
	student.ID = s.nextID
	s.nextID++
	s.students[student.ID] = *student
	return nil
}

func (s *stubStudents) Update(_ context.Context, student *models.Student) error {
	if _, ok := s.students[student.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.students[student.ID] = *student
	return nil
}

func (s *stubStudents) Delete(_ context.Context, id uint) error {
	delete(s.students, id)
	return nil
}

func (s *stubStudents) Count(_ context.Context) (int64, error) {
	return int64(len(s.students)), nil
}

func (s *stubStudents) CountActive(_ context.Context) (int64, error) {
	var count int64
	for _, student := range s.students {
		if student.Active {
			count++
		}
	}
	return count, nil
}

type stubShifts struct {
	shifts map[uint]models.Shift
	nextID uint
}

func newStubShifts(shifts ...models.Shift) *stubShifts {
	s := &stubShifts{shifts: make(map[uint]models.Shift), nextID: 1}
	for _, shift := range shifts {
		if shift.ID >= s.nextID {
			s.nextID = shift.ID + 1
		}
		s.shifts[shift.ID] = shift
	}
	return s
}

func (s *stubShifts) List(_ context.Context) ([]models.Shift, error) {
	out := make([]models.Shift, 0, len(s.shifts))
	for id := uint(1); id < s.nextID; id++ {
		if shift, ok := s.shifts[id]; ok {
			out = append(out, shift)
		}
	}
	return out, nil
}

func (s *stubShifts) ListActive(_ context.Context) ([]models.Shift, error) {
	var out []models.Shift
	for id := uint(1); id < s.nextID; id++ {
		if shift, ok := s.shifts[id]; ok && shift.Active {
			out = append(out, shift)
		}
	}
	return out, nil
}

func (s *stubShifts) GetByCode(_ context.Context, code string) (models.Shift, error) {
	for _, shift := range s.shifts {
		if shift.Code == code {
			return shift, nil
		}
	}
	return models.Shift{}, gorm.ErrRecordNotFound
}

func (s *stubShifts) Create(_ context.Context, shift *models.Shift) error {
	shift.ID = s.nextID
	s.nextID++
	s.shifts[shift.ID] = *shift
	return nil
}

func (s *stubShifts) Update(_ context.Context, shift *models.Shift) error {
	if _, ok := s.shifts[shift.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.shifts[shift.ID] = *shift
	return nil
}

type stubTeacherLedger struct {
	records map[uint]models.TeacherAttendance
	nextID  uint
}

func newStubTeacherLedger(records ...models.TeacherAttendance) *stubTeacherLedger {
	s := &stubTeacherLedger{records: make(map[uint]models.TeacherAttendance), nextID: 1}
	for _, record := range records {
		if record.ID >= s.nextID {
			s.nextID = record.ID + 1
		}
		s.records[record.ID] = record
	}
	return s
}

func (s *stubTeacherLedger) Create(_ context.Context, record *models.TeacherAttendance) error {
	for _, existing := range s.records {
		if existing.TeacherID == record.TeacherID && sameDate(existing.Date, record.Date) && existing.ShiftID == record.ShiftID {
			return gorm.ErrDuplicatedKey
		}
	}
	record.ID = s.nextID
	s.nextID++
	s.records[record.ID] = *record
	return nil
}

func (s *stubTeacherLedger) GetByID(_ context.Context, id uint) (models.TeacherAttendance, error) {
	record, ok := s.records[id]
	if !ok {
		return models.TeacherAttendance{}, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (s *stubTeacherLedger) Delete(_ context.Context, id uint) error {
	delete(s.records, id)
	return nil
}

func (s *stubTeacherLedger) SetSheetRow(_ context.Context, id uint, row int64) error {
	record, ok := s.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	record.SheetRow = &row
	s.records[id] = record
	return nil
}

func (s *stubTeacherLedger) Exists(_ context.Context, teacherID uint, date datatypes.Date, shiftID uint) (bool, error) {
	for _, record := range s.records {
		if record.TeacherID == teacherID && sameDate(record.Date, date) && record.ShiftID == shiftID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubTeacherLedger) ListByDate(_ context.Context, date datatypes.Date) ([]models.TeacherAttendance, error) {
	var out []models.TeacherAttendance
	for id := uint(1); id < s.nextID; id++ {
		if record, ok := s.records[id]; ok && sameDate(record.Date, date) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *stubTeacherLedger) ListByTeacherRange(_ context.Context, teacherID uint, from, to time.Time) ([]models.TeacherAttendance, error) {
	var out []models.TeacherAttendance
	for id := uint(1); id < s.nextID; id++ {
		if record, ok := s.records[id]; ok && record.TeacherID == teacherID && dateInRange(record.Date, from, to) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *stubTeacherLedger) CountByShiftForRange(_ context.Context, teacherID uint, from, to time.Time) ([]repository.ShiftCount, error) {
	counts := make(map[uint]int64)
	for _, record := range s.records {
		if record.TeacherID == teacherID && dateInRange(record.Date, from, to) {
			counts[record.ShiftID]++
		}
	}

	out := make([]repository.ShiftCount, 0, len(counts))
	for shiftID, count := range counts {
		out = append(out, repository.ShiftCount{ShiftID: shiftID, Count: count})
	}
	return out, nil
}

func (s *stubTeacherLedger) ListTeachersOnShifts(_ context.Context, date datatypes.Date, shiftIDs []uint) ([]models.Teacher, error) {
	allowed := make(map[uint]struct{}, len(shiftIDs))
	for _, id := range shiftIDs {
		allowed[id] = struct{}{}
	}

	seen := make(map[uint]struct{})
	var out []models.Teacher
	for _, record := range s.records {
		if !sameDate(record.Date, date) {
			continue
		}
		if _, ok := allowed[record.ShiftID]; !ok {
			continue
		}
		if _, ok := seen[record.TeacherID]; ok {
			continue
		}
		seen[record.TeacherID] = struct{}{}
		out = append(out, record.Teacher)
	}
	return out, nil
}

func (s *stubTeacherLedger) CountByTeacher(_ context.Context, teacherID uint) (int64, error) {
	var count int64
	for _, record := range s.records {
		if record.TeacherID == teacherID {
			count++
		}
	}
	return count, nil
}

type stubStudentLedger struct {
	records map[uint]models.StudentAttendance
	nextID  uint
}

func newStubStudentLedger(records ...models.StudentAttendance) *stubStudentLedger {
	s := &stubStudentLedger{records: make(map[uint]models.StudentAttendance), nextID: 1}
	for _, record := range records {
		if record.ID >= s.nextID {
			s.nextID = record.ID + 1
		}
		s.records[record.ID] = record
	}
	return s
}

func (s *stubStudentLedger) Create(_ context.Context, record *models.StudentAttendance) error {
	for _, existing := range s.records {
		if existing.StudentID == record.StudentID && sameDate(existing.Date, record.Date) {
			return gorm.ErrDuplicatedKey
		}
	}
	record.ID = s.nextID
	s.nextID++
	s.records[record.ID] = *record
	return nil
}

func (s *stubStudentLedger) GetByID(_ context.Context, id uint) (models.StudentAttendance, error) {
	record, ok := s.records[id]
	if !ok {
		return models.StudentAttendance{}, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (s *stubStudentLedger) Delete(_ context.Context, id uint) error {
	delete(s.records, id)
	return nil
}

func (s *stubStudentLedger) SetSheetRow(_ context.Context, id uint, row int64) error {
	record, ok := s.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	record.SheetRow = &row
	s.records[id] = record
	return nil
}

func (s *stubStudentLedger) Exists(_ context.Context, studentID uint, date datatypes.Date) (bool, error) {
	for _, record := range s.records {
		if record.StudentID == studentID && sameDate(record.Date, date) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubStudentLedger) ListByDate(_ context.Context, date datatypes.Date) ([]models.StudentAttendance, error) {
	var out []models.StudentAttendance
	for id := uint(1); id < s.nextID; id++ {
		if record, ok := s.records[id]; ok && sameDate(record.Date, date) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *stubStudentLedger) ListByStudentRange(_ context.Context, studentID uint, from, to time.Time) ([]models.StudentAttendance, error) {
	var out []models.StudentAttendance
	for id := uint(1); id < s.nextID; id++ {
		if record, ok := s.records[id]; ok && record.StudentID == studentID && dateInRange(record.Date, from, to) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *stubStudentLedger) CountByDate(_ context.Context, date datatypes.Date) (int64, error) {
	var count int64
	for _, record := range s.records {
		if sameDate(record.Date, date) {
			count++
		}
	}
	return count, nil
}

func (s *stubStudentLedger) CountByDayForRange(_ context.Context, from, to time.Time) ([]repository.DayCount, error) {
	counts := make(map[string]repository.DayCount)
	for _, record := range s.records {
		if !dateInRange(record.Date, from, to) {
			continue
		}
		key := models.FormatDate(record.Date)
		entry := counts[key]
		entry.Date = record.Date
		entry.Count++
		counts[key] = entry
	}

	out := make([]repository.DayCount, 0, len(counts))
	for _, entry := range counts {
		out = append(out, entry)
	}
	return out, nil
}

func (s *stubStudentLedger) CountByStudent(_ context.Context, studentID uint) (int64, error) {
	var count int64
	for _, record := range s.records {
		if record.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

type stubMirror struct {
	appendRef   int64
	appendErr   error
	deleteErr   error
	appendCalls int
	deleteCalls int
	lastRow     int64
}

func (m *stubMirror) Append(_ context.Context, _ sheets.Row) (int64, error) {
	m.appendCalls++
	if m.appendErr != nil {
		return 0, m.appendErr
	}
	return m.appendRef, nil
}

func (m *stubMirror) Delete(_ context.Context, row int64) (bool, error) {
	m.deleteCalls++
	m.lastRow = row
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	return true, nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lhp-attendance-api/internal/clock"
	"github.com/noah-isme/lhp-attendance-api/internal/dto"
	"github.com/noah-isme/lhp-attendance-api/internal/models"
	"github.com/noah-isme/lhp-attendance-api/internal/repository"
)

// DashboardService produces the admin "who is here now" view. The result is
// cached briefly in Redis; monthly reports are never cached.
type DashboardService interface {
	Overview(ctx context.Context) (dto.DashboardResponse, error)
}

type dashboardService struct {
	teacherLedger repository.TeacherAttendanceRepository
	studentLedger repository.StudentAttendanceRepository
	students      repository.StudentRepository
	shifts        repository.ShiftRepository
	policy        ShiftPolicy
	clock         clock.Clock
	cache         *redis.Client
	cacheTTL      time.Duration
	logger        zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator. The cache client may be nil.
func NewDashboardService(
	teacherLedger repository.TeacherAttendanceRepository,
	studentLedger repository.StudentAttendanceRepository,
	students repository.StudentRepository,
	shifts repository.ShiftRepository,
	policy ShiftPolicy,
	clk clock.Clock,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) DashboardService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &dashboardService{
		teacherLedger: teacherLedger,
		studentLedger: studentLedger,
		students:      students,
		shifts:        shifts,
		policy:        policy,
		clock:         clk,
		cache:         cache,
		cacheTTL:      ttl,
		logger:        logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) Overview(ctx context.Context) (dto.DashboardResponse, error) {
	now := s.clock.Now()
	date := models.DateOf(now)
	cacheKey := fmt.Sprintf("dashboard:admin:v1:%s:%s", models.FormatDate(date), models.WallClock(now))

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	response := dto.DashboardResponse{
		Date:    models.FormatDate(date),
		RestDay: s.policy.IsRestDay(now),
	}

	presentStudents, err := s.studentLedger.CountByDate(ctx, date)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	response.PresentStudents = presentStudents

	totalStudents, err := s.students.CountActive(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	response.TotalStudents = totalStudents

	shifts, err := s.shifts.ListActive(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	open := s.policy.OpenShifts(shifts, now)
	response.OpenShifts = dto.NewShiftResponseSlice(open)

	shiftIDs := make([]uint, 0, len(open))
	for _, shift := range open {
		shiftIDs = append(shiftIDs, shift.ID)
	}

	teachers, err := s.teacherLedger.ListTeachersOnShifts(ctx, date, shiftIDs)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	response.WorkingTeachers = dto.NewTeacherResponseSlice(teachers)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

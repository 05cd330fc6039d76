package availability

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	professionalID = uuid.MustParse("6f1c3a0e-8a3b-4b52-9a56-3c1f3f0d9a11")
	serviceID      = uuid.MustParse("b7a4c2d1-2e5f-4c8a-8d3e-1a2b3c4d5e6f")
	monday         = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
)

type fakeSource struct {
	rules        []model.WeeklyAvailability
	blocks       []model.BlockedSlot
	appointments []model.Appointment
	services     map[uuid.UUID]*model.Service

	rulesErr, blocksErr, appointmentsErr, serviceErr error

	calls atomic.Int32
}

func (f *fakeSource) WeeklyAvailability(_ context.Context, pid uuid.UUID, weekday int) ([]model.WeeklyAvailability, error) {
	f.calls.Add(1)
	if f.rulesErr != nil {
		return nil, f.rulesErr
	}
	var out []model.WeeklyAvailability
	for _, r := range f.rules {
		if r.ProfessionalID == pid && r.DayOfWeek == weekday {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSource) BlockedSlots(_ context.Context, pid uuid.UUID, date time.Time) ([]model.BlockedSlot, error) {
	f.calls.Add(1)
	if f.blocksErr != nil {
		return nil, f.blocksErr
	}
	var out []model.BlockedSlot
	for _, b := range f.blocks {
		if b.ProfessionalID == pid && b.Date.Equal(date) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeSource) Appointments(_ context.Context, pid uuid.UUID, date time.Time, exclude ...model.AppointmentStatus) ([]model.Appointment, error) {
	f.calls.Add(1)
	if f.appointmentsErr != nil {
		return nil, f.appointmentsErr
	}
	var out []model.Appointment
	for _, a := range f.appointments {
		sameDay := a.StartsAt.Year() == date.Year() && a.StartsAt.YearDay() == date.YearDay()
		if a.ProfessionalID == pid && sameDay && !slices.Contains(exclude, a.Status) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeSource) Service(_ context.Context, id uuid.UUID) (*model.Service, error) {
	f.calls.Add(1)
	if f.serviceErr != nil {
		return nil, f.serviceErr
	}
	return f.services[id], nil
}

func tod(t *testing.T, s string) model.TimeOfDay {
	t.Helper()
	v, err := model.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func rule(t *testing.T, weekday int, start, end string, available bool) model.WeeklyAvailability {
	return model.WeeklyAvailability{
		ID:             uuid.New(),
		ProfessionalID: professionalID,
		DayOfWeek:      weekday,
		StartTime:      tod(t, start),
		EndTime:        tod(t, end),
		IsAvailable:    available,
	}
}

func appointmentAt(t *testing.T, at string, status model.AppointmentStatus, minutes int) model.Appointment {
	return model.Appointment{
		ID:              uuid.New(),
		ProfessionalID:  professionalID,
		ServiceID:       serviceID,
		StartsAt:        tod(t, at).On(monday),
		Status:          status,
		DurationMinutes: minutes,
	}
}

// scenarioA: понедельник 09:00-12:00, услуга 60 минут, записей нет.
func scenarioA(t *testing.T) *fakeSource {
	return &fakeSource{
		rules: []model.WeeklyAvailability{rule(t, int(time.Monday), "09:00", "12:00", true)},
		services: map[uuid.UUID]*model.Service{
			serviceID: {ID: serviceID, ProfessionalID: professionalID, DurationMinutes: 60, Price: 5000, IsActive: true},
		},
	}
}

func slotTimes(slots []model.Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Time.String())
	}
	return out
}

func unavailableTimes(slots []model.Slot) []string {
	var out []string
	for _, s := range slots {
		if !s.Available {
			out = append(out, s.Time.String())
		}
	}
	return out
}

func TestComputeAvailableSlots_Scenarios(t *testing.T) {
	allTimes := []string{"09:00", "09:30", "10:00", "10:30", "11:00"}

	tests := []struct {
		name            string
		setup           func(src *fakeSource)
		wantTimes       []string
		wantUnavailable []string
	}{
		{
			name:      "A: open window, no blocks, no appointments",
			setup:     func(*fakeSource) {},
			wantTimes: allTimes,
		},
		{
			name: "B: confirmed appointment at 10:00",
			setup: func(src *fakeSource) {
				src.appointments = append(src.appointments, appointmentAt(t, "10:00", model.AppointmentStatusConfirmed, 60))
			},
			wantTimes:       allTimes,
			wantUnavailable: []string{"10:00"},
		},
		{
			name: "C: lunch block 10:00-11:00",
			setup: func(src *fakeSource) {
				src.blocks = append(src.blocks, model.BlockedSlot{
					ProfessionalID: professionalID,
					Date:           monday,
					StartTime:      tod(t, "10:00"),
					EndTime:        tod(t, "11:00"),
					Reason:         "lunch",
				})
			},
			wantTimes:       allTimes,
			wantUnavailable: []string{"10:00", "10:30"},
		},
		{
			name: "D: rule not available that weekday",
			setup: func(src *fakeSource) {
				src.rules[0].IsAvailable = false
				src.appointments = append(src.appointments, appointmentAt(t, "10:00", model.AppointmentStatusConfirmed, 60))
				src.blocks = append(src.blocks, model.BlockedSlot{
					ProfessionalID: professionalID, Date: monday,
					StartTime: tod(t, "09:00"), EndTime: tod(t, "10:00"),
				})
			},
			wantTimes: []string{},
		},
		{
			name: "E: cancelled appointment at 10:00 never occupies",
			setup: func(src *fakeSource) {
				src.appointments = append(src.appointments, appointmentAt(t, "10:00", model.AppointmentStatusCancelled, 60))
			},
			wantTimes: allTimes,
		},
		{
			name: "pending and completed appointments occupy",
			setup: func(src *fakeSource) {
				src.appointments = append(src.appointments,
					appointmentAt(t, "09:00", model.AppointmentStatusPending, 60),
					appointmentAt(t, "11:00", model.AppointmentStatusCompleted, 60),
				)
			},
			wantTimes:       allTimes,
			wantUnavailable: []string{"09:00", "11:00"},
		},
		{
			name: "overlapping blocks are checked independently",
			setup: func(src *fakeSource) {
				src.blocks = append(src.blocks,
					model.BlockedSlot{ProfessionalID: professionalID, Date: monday, StartTime: tod(t, "09:00"), EndTime: tod(t, "09:45")},
					model.BlockedSlot{ProfessionalID: professionalID, Date: monday, StartTime: tod(t, "09:15"), EndTime: tod(t, "10:15")},
				)
			},
			wantTimes:       allTimes,
			wantUnavailable: []string{"09:00", "09:30", "10:00"},
		},
		{
			name: "block on another date is ignored",
			setup: func(src *fakeSource) {
				src.blocks = append(src.blocks, model.BlockedSlot{
					ProfessionalID: professionalID, Date: monday.AddDate(0, 0, 7),
					StartTime: tod(t, "09:00"), EndTime: tod(t, "12:00"),
				})
			},
			wantTimes: allTimes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := scenarioA(t)
			tt.setup(src)

			slots, err := NewEngine(src).ComputeAvailableSlots(context.Background(), professionalID, monday, serviceID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTimes, slotTimes(slots))
			assert.Equal(t, tt.wantUnavailable, unavailableTimes(slots))
		})
	}
}

func TestComputeAvailableSlots_EmptyWhenNothingBookable(t *testing.T) {
	tests := []struct {
		name  string
		setup func(src *fakeSource)
	}{
		{"no rule for weekday", func(src *fakeSource) { src.rules[0].DayOfWeek = int(time.Tuesday) }},
		{"no rules at all", func(src *fakeSource) { src.rules = nil }},
		{"service not found", func(src *fakeSource) { src.services = nil }},
		{"service inactive", func(src *fakeSource) { src.services[serviceID].IsActive = false }},
		{"service of another professional", func(src *fakeSource) { src.services[serviceID].ProfessionalID = uuid.New() }},
		{"service longer than window", func(src *fakeSource) { src.services[serviceID].DurationMinutes = 240 }},
		{"inverted window", func(src *fakeSource) { src.rules[0].StartTime, src.rules[0].EndTime = src.rules[0].EndTime, src.rules[0].StartTime }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := scenarioA(t)
			tt.setup(src)

			slots, err := NewEngine(src).ComputeAvailableSlots(context.Background(), professionalID, monday, serviceID)
			require.NoError(t, err)
			assert.Empty(t, slots)
		})
	}
}

func TestComputeAvailableSlots_SlotBounds(t *testing.T) {
	for _, minutes := range []int{15, 30, 45, 60, 90, 120, 180} {
		src := scenarioA(t)
		src.services[serviceID].DurationMinutes = minutes

		slots, err := NewEngine(src).ComputeAvailableSlots(context.Background(), professionalID, monday, serviceID)
		require.NoError(t, err)
		require.NotEmpty(t, slots, "duration %d", minutes)

		start, end := src.rules[0].StartTime, src.rules[0].EndTime
		last := end - model.TimeOfDay(minutes)
		for i, s := range slots {
			assert.GreaterOrEqual(t, s.Time, start)
			assert.LessOrEqual(t, s.Time, last, "duration %d slot %s overflows", minutes, s.Time)
			assert.Equal(t, 0, int(s.Time-start)%30, "slot %s is off the 30 minute grid", s.Time)
			if i > 0 {
				assert.Less(t, slots[i-1].Time, s.Time)
			}
		}
	}
}

func TestComputeAvailableSlots_Idempotent(t *testing.T) {
	src := scenarioA(t)
	src.appointments = append(src.appointments, appointmentAt(t, "10:30", model.AppointmentStatusPending, 60))
	engine := NewEngine(src)

	first, err := engine.ComputeAvailableSlots(context.Background(), professionalID, monday, serviceID)
	require.NoError(t, err)
	second, err := engine.ComputeAvailableSlots(context.Background(), professionalID, monday, serviceID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeAvailableSlots_IgnoresTimeOfDayOfDate(t *testing.T) {
	src := scenarioA(t)
	slots, err := NewEngine(src).ComputeAvailableSlots(context.Background(), professionalID, monday.Add(17*time.Hour+5*time.Minute), serviceID)
	require.NoError(t, err)
	assert.Len(t, slots, 5)
}

func TestComputeAvailableSlots_MergesMultipleRules(t *testing.T) {
	src := scenarioA(t)
	src.rules = append(src.rules,
		rule(t, int(time.Monday), "14:00", "15:30", true),
		rule(t, int(time.Monday), "11:00", "12:30", true), // пересекается с первым окном
		rule(t, int(time.Monday), "18:00", "20:00", false),
	)

	slots, err := NewEngine(src).ComputeAvailableSlots(context.Background(), professionalID, monday, serviceID)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "14:00", "14:30"},
		slotTimes(slots))
}

func TestComputeAvailableSlots_ExactStartMissesLongAppointment(t *testing.T) {
	src := scenarioA(t)
	src.appointments = append(src.appointments, appointmentAt(t, "09:45", model.AppointmentStatusConfirmed, 90))

	slots, err := NewEngine(src).ComputeAvailableSlots(context.Background(), professionalID, monday, serviceID)
	require.NoError(t, err)
	assert.Empty(t, unavailableTimes(slots), "exact start matching only blocks identical start times")
}

func TestComputeAvailableSlots_OverlapPolicy(t *testing.T) {
	src := scenarioA(t)
	src.appointments = append(src.appointments, appointmentAt(t, "10:00", model.AppointmentStatusConfirmed, 90))
	src.blocks = append(src.blocks, model.BlockedSlot{
		ProfessionalID: professionalID, Date: monday,
		StartTime: tod(t, "08:30"), EndTime: tod(t, "09:15"),
	})

	exact, err := NewEngine(src).ComputeAvailableSlots(context.Background(), professionalID, monday, serviceID)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, unavailableTimes(exact))

	overlap, err := NewEngine(src, WithConflictPolicy(ConflictOverlap)).ComputeAvailableSlots(context.Background(), professionalID, monday, serviceID)
	require.NoError(t, err)
	// 09:00 попадает в блокировку, 09:30..11:00 пересекают запись 10:00-11:30.
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, unavailableTimes(overlap))
}

func TestComputeAvailableSlots_OverlapPolicyUnknownDurationFallsBack(t *testing.T) {
	src := scenarioA(t)
	src.appointments = append(src.appointments, appointmentAt(t, "10:30", model.AppointmentStatusConfirmed, 0))

	slots, err := NewEngine(src, WithConflictPolicy(ConflictOverlap)).ComputeAvailableSlots(context.Background(), professionalID, monday, serviceID)
	require.NoError(t, err)
	// Без длительности запись занимает только своё время начала.
	assert.Equal(t, []string{"10:30"}, unavailableTimes(slots))
}

func TestComputeAvailableSlots_CustomStep(t *testing.T) {
	src := scenarioA(t)
	slots, err := NewEngine(src, WithStep(time.Hour)).ComputeAvailableSlots(context.Background(), professionalID, monday, serviceID)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, slotTimes(slots))

	slots, err = NewEngine(src, WithStep(0)).ComputeAvailableSlots(context.Background(), professionalID, monday, serviceID)
	require.NoError(t, err)
	assert.Len(t, slots, 5, "invalid step falls back to 30 minutes")
}

func TestComputeAvailableSlots_DataAccessFailures(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name  string
		setup func(src *fakeSource)
		op    string
	}{
		{"rules", func(src *fakeSource) { src.rulesErr = boom }, "get weekly availability"},
		{"service", func(src *fakeSource) { src.serviceErr = boom }, "get service"},
		{"blocks", func(src *fakeSource) { src.blocksErr = boom }, "get blocked slots"},
		{"appointments", func(src *fakeSource) { src.appointmentsErr = boom }, "get appointments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := scenarioA(t)
			tt.setup(src)

			slots, err := NewEngine(src).ComputeAvailableSlots(context.Background(), professionalID, monday, serviceID)
			require.Error(t, err)
			assert.Nil(t, slots)
			assert.True(t, IsDataAccess(err))
			assert.ErrorIs(t, err, boom)

			var dae *DataAccessError
			require.ErrorAs(t, err, &dae)
			assert.Equal(t, tt.op, dae.Op)
		})
	}
}

func TestComputeAvailableSlots_FetchTimeout(t *testing.T) {
	src := &slowSource{fakeSource: scenarioA(t), delay: 200 * time.Millisecond}

	_, err := NewEngine(src, WithFetchTimeout(10*time.Millisecond)).ComputeAvailableSlots(context.Background(), professionalID, monday, serviceID)
	require.Error(t, err)
	assert.True(t, IsDataAccess(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type slowSource struct {
	*fakeSource
	delay time.Duration
}

func (s *slowSource) WeeklyAvailability(ctx context.Context, pid uuid.UUID, weekday int) ([]model.WeeklyAvailability, error) {
	select {
	case <-time.After(s.delay):
		return s.fakeSource.WeeklyAvailability(ctx, pid, weekday)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestComputeAvailableSlots_InvalidInputSkipsFetches(t *testing.T) {
	tests := []struct {
		name string
		pid  uuid.UUID
		sid  uuid.UUID
		date time.Time
	}{
		{"nil professional", uuid.Nil, serviceID, monday},
		{"nil service", professionalID, uuid.Nil, monday},
		{"zero date", professionalID, serviceID, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := scenarioA(t)
			_, err := NewEngine(src).ComputeAvailableSlots(context.Background(), tt.pid, tt.date, tt.sid)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.False(t, IsDataAccess(err))
			assert.Zero(t, src.calls.Load())
		})
	}
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest(professionalID.String(), "2026-10-19", " "+serviceID.String())
	require.NoError(t, err)
	assert.Equal(t, professionalID, req.ProfessionalID)
	assert.Equal(t, serviceID, req.ServiceID)
	assert.Equal(t, time.Monday, req.Date.Weekday())

	slots, err := NewEngine(scenarioA(t)).Compute(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, slots, 5)

	for _, bad := range [][3]string{
		{"not-a-uuid", "2026-10-19", serviceID.String()},
		{professionalID.String(), "19/10/2026", serviceID.String()},
		{professionalID.String(), "2026-02-30", serviceID.String()},
		{professionalID.String(), "2026-10-19", ""},
	} {
		_, err := ParseRequest(bad[0], bad[1], bad[2])
		assert.ErrorIs(t, err, ErrInvalidInput, "%v", bad)
	}
}

func TestParseConflictPolicy(t *testing.T) {
	p, err := ParseConflictPolicy("")
	require.NoError(t, err)
	assert.Equal(t, ConflictExactStart, p)

	p, err = ParseConflictPolicy("Overlap")
	require.NoError(t, err)
	assert.Equal(t, ConflictOverlap, p)
	assert.Equal(t, "overlap", p.String())

	_, err = ParseConflictPolicy("fuzzy")
	assert.Error(t, err)
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shift_scheduler_backend/internal/models"
)

func TestCanMutateShift(t *testing.T) {
	shift := &models.Shift{ID: 1, EmployeeID: "alice"}

	tests := []struct {
		name      string
		principal string
		shift     *models.Shift
		want      bool
	}{
		{"owner", "alice", shift, true},
		{"other user", "bob", shift, false},
		{"anonymous", "", shift, false},
		{"anonymous against unowned shift", "", &models.Shift{ID: 2}, false},
		{"missing shift", "alice", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMutateShift(tt.principal, tt.shift))
		})
	}
}

func TestCanManageShift(t *testing.T) {
	shift := &models.Shift{ID: 1, EmployeeID: "alice"}
	assert.True(t, CanManageShift(Principal{UserID: "alice", Role: models.RoleEmployee}, shift))
	assert.True(t, CanManageShift(Principal{UserID: "boss", Role: models.RoleManager}, shift))
	assert.False(t, CanManageShift(Principal{UserID: "bob", Role: models.RoleEmployee}, shift))
	assert.False(t, CanManageShift(Principal{Role: models.RoleManager}, shift), "a role claim without a user is anonymous")
	assert.False(t, CanManageShift(Principal{UserID: "boss", Role: models.RoleManager}, nil))
}

func TestParseDateTime(t *testing.T) {
	want := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	for _, in := range []string{"2024-03-04T09:30:00Z", "2024-03-04T09:30:00", "2024-03-04T09:30", " 2024-03-04 09:30 "} {
		got, ok := parseDateTime(in)
		assert.True(t, ok, in)
		assert.True(t, want.Equal(got), in)
	}

	offset, ok := parseDateTime("2024-03-04T11:30:00+02:00")
	assert.True(t, ok)
	assert.True(t, want.Equal(offset))

	_, ok = parseDateTime("04/03/2024")
	assert.False(t, ok)
}

func TestValidationErrorIs(t *testing.T) {
	verr := &ValidationError{}
	assert.NoError(t, verr.orNil())
	verr.add("task_type", "The TaskType field is required.")
	verr.add("task_type", "ignored")
	err := verr.orNil()
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "The TaskType field is required.", verr.Fields["task_type"])
}

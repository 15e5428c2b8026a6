package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"shift_scheduler_backend/internal/models"
)

// --- Errors shared by every service ---
var (
	ErrForbidden        = errors.New("caller is not allowed to modify this record")
	ErrConcurrentUpdate = errors.New("record was changed by another request")
	ErrValidation       = errors.New("validation failed")

	// ErrAccountGone is returned when a still-valid session names a user that
	// has since been deleted.
	ErrAccountGone = errors.New("signed-in account no longer exists")
)

// ValidationError carries one message per offending field, keyed by the
// field's json name. errors.Is(err, ErrValidation) holds for it.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// add records msg for field unless the field already has a message.
func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// orNil returns e when it holds at least one field error.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Principal is the authenticated caller as resolved by the session middleware.
// The zero value is the anonymous caller.
type Principal struct {
	UserID   string
	Username string
	Role     string
}

func (p Principal) IsAnonymous() bool { return p.UserID == "" }

func (p Principal) IsManager() bool { return p.UserID != "" && p.Role == models.RoleManager }

// CanMutateShift reports whether principalID may create, edit or delete
// shift details under shift. Only the shift's owner may.
func CanMutateShift(principalID string, shift *models.Shift) bool {
	if shift == nil || principalID == "" {
		return false
	}
	return shift.EmployeeID == principalID
}

// CanManageShift extends CanMutateShift to managers, who may edit or delete
// any shift itself.
func CanManageShift(p Principal, shift *models.Shift) bool {
	if shift == nil {
		return false
	}
	return p.IsManager() || CanMutateShift(p.UserID, shift)
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseDateTime accepts RFC3339 or a zone-less local timestamp, which is
// taken as UTC.
func parseDateTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseDate accepts a plain date or anything parseDateTime does.
func parseDate(value string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(value)); err == nil {
		return t, true
	}
	return parseDateTime(value)
}

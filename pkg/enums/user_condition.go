package enums

import "fmt"

// UserCondition captures the account lifecycle. Accounts are never deleted
// physically, only flagged.
type UserCondition string

const (
	UserConditionActive            UserCondition = "active"
	UserConditionDeactivated       UserCondition = "deactivated"
	UserConditionMarkedForDeletion UserCondition = "marked_for_deletion"
)

var validUserConditions = []UserCondition{
	UserConditionActive,
	UserConditionDeactivated,
	UserConditionMarkedForDeletion,
}

// String implements fmt.Stringer.
func (u UserCondition) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserCondition.
func (u UserCondition) IsValid() bool {
	for _, candidate := range validUserConditions {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserCondition converts raw input into a UserCondition.
func ParseUserCondition(value string) (UserCondition, error) {
	for _, candidate := range validUserConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user condition %q", value)
}

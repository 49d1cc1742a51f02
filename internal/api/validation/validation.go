package validation

import (
	"regexp"
	"time"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	// VIN: 17 chars, no I, O, or Q
	vinRegex = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)
)

// IsValidEmail checks if the string is a valid email format
func IsValidEmail(email string) bool {
	if len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsValidUUID checks if the string is a valid UUID format
func IsValidUUID(id string) bool {
	return uuidRegex.MatchString(id)
}

// IsValidVIN checks a 17-character vehicle identification number.
func IsValidVIN(vin string) bool {
	return vinRegex.MatchString(vin)
}

// IsValidLogDate checks a YYYY-MM-DD usage-log date.
func IsValidLogDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

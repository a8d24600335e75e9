package validator

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Fields returns the distinct field names, sorted.
func (v ValidationErrors) Fields() []string {
	seen := make(map[string]bool, len(v))
	var fields []string
	for _, err := range v {
		if !seen[err.Field] {
			seen[err.Field] = true
			fields = append(fields, err.Field)
		}
	}
	sort.Strings(fields)
	return fields
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// UUIDv7 regex: version 7 (the 15th character must be '7'), all lowercase hex digits.
var uuidv7Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// UUIDv7 validation
func IsValidUUID(uuid string) bool {
	return uuidv7Regex.MatchString(strings.ToLower(uuid))
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	return date, err == nil
}

// KRA PIN: one letter, nine digits, one letter (e.g. A123456789Z).
var kraPinRegex = regexp.MustCompile(`^[A-Za-z][0-9]{9}[A-Za-z]$`)

func IsValidKRAPin(pin string) bool {
	return kraPinRegex.MatchString(strings.TrimSpace(pin))
}

// Phone number validation, Kenyan mobile and landline formats:
// 07XXXXXXXX, 01XXXXXXXX, 2547XXXXXXXX, +2541XXXXXXXX.
func IsValidPhoneNumber(phone string) bool {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")

	switch {
	case strings.HasPrefix(phone, "+254"):
		phone = "0" + strings.TrimPrefix(phone, "+254")
	case strings.HasPrefix(phone, "254"):
		phone = "0" + strings.TrimPrefix(phone, "254")
	}

	if len(phone) != 10 || !IsNumeric(phone) {
		return false
	}
	return strings.HasPrefix(phone, "07") || strings.HasPrefix(phone, "01") || strings.HasPrefix(phone, "02")
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

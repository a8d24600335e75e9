package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // not v7
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", " 2024-02-29 "}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidKRAPin(t *testing.T) {
	valid := []string{"A123456789Z", "p051234567k"}
	invalid := []string{"A12345678Z", "1234567890Z", "A123456789", ""}
	for _, pin := range valid {
		if !IsValidKRAPin(pin) {
			t.Errorf("IsValidKRAPin(%q) = false, want true", pin)
		}
	}
	for _, pin := range invalid {
		if IsValidKRAPin(pin) {
			t.Errorf("IsValidKRAPin(%q) = true, want false", pin)
		}
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	valid := []string{"0712345678", "0112345678", "254712345678", "+254712345678", "0712 345 678", "0712-345-678"}
	invalid := []string{"071234567", "07123456789", "0812345678", "abc0712345", "+1712345678"}
	for _, phone := range valid {
		if !IsValidPhoneNumber(phone) {
			t.Errorf("IsValidPhoneNumber(%q) = false, want true", phone)
		}
	}
	for _, phone := range invalid {
		if IsValidPhoneNumber(phone) {
			t.Errorf("IsValidPhoneNumber(%q) = true, want false", phone)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "workEmail", Message: "must be a valid email"},
		{Field: "firstName", Message: "is required"},
	}
	got := errs.Error()
	want := "workEmail: must be a valid email; firstName: is required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMapAndFields(t *testing.T) {
	errs := ValidationErrors{
		{Field: "lastName", Message: "is required"},
		{Field: "firstName", Message: "is required"},
		{Field: "lastName", Message: "too long"},
	}
	got := errs.ToMap()
	if len(got) != 2 {
		t.Errorf("ValidationErrors.ToMap() length = %d, want 2", len(got))
	}
	fields := errs.Fields()
	if len(fields) != 2 || fields[0] != "firstName" || fields[1] != "lastName" {
		t.Errorf("ValidationErrors.Fields() = %v, want [firstName lastName]", fields)
	}
}

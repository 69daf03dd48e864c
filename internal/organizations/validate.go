package organizations

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Profile carries the validated fields of an organization profile, shared by
// the register and update flows so both enforce identical rules.
type Profile struct {
	Name         string
	OrgType      string
	Description  string
	FocusAreas   string
	ContactEmail string
	Phone        string
	Website      string
	Address      string
}

// ValidateProfile checks an organization profile for both registration and
// update. Returns a human-readable error naming the first invalid field.
// Length caps count runes so multibyte text is not penalized.
func ValidateProfile(p Profile) error {
	if s := strings.TrimSpace(p.Name); s == "" || utf8.RuneCountInString(s) > 200 {
		return fmt.Errorf("name required (max 200 chars)")
	}
	if s := strings.TrimSpace(p.OrgType); s == "" || utf8.RuneCountInString(s) > 50 {
		return fmt.Errorf("organization type required (max 50 chars)")
	}
	if s := strings.TrimSpace(p.Description); s == "" || utf8.RuneCountInString(s) > 2000 {
		return fmt.Errorf("description required (max 2000 chars)")
	}
	if utf8.RuneCountInString(p.FocusAreas) > 500 {
		return fmt.Errorf("focus areas too long (max 500 chars)")
	}
	if _, err := mail.ParseAddress(p.ContactEmail); err != nil {
		return fmt.Errorf("valid contact email required")
	}
	if s := strings.TrimSpace(p.Phone); s == "" || utf8.RuneCountInString(s) > 20 {
		return fmt.Errorf("phone required (max 20 chars)")
	}
	if utf8.RuneCountInString(p.Website) > 300 {
		return fmt.Errorf("website too long (max 300 chars)")
	}
	if s := strings.TrimSpace(p.Address); s == "" || utf8.RuneCountInString(s) > 500 {
		return fmt.Errorf("address required (max 500 chars)")
	}
	return nil
}

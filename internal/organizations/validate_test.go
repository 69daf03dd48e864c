package organizations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProfile() Profile {
	return Profile{
		Name:         "Green Hands",
		OrgType:      "ngo",
		Description:  "Community clean-up crew",
		FocusAreas:   "environment,education",
		ContactEmail: "hello@greenhands.org",
		Phone:        "0901234567",
		Website:      "https://greenhands.org",
		Address:      "12 Tran Phu, Da Nang",
	}
}

func TestValidateProfileAcceptsValid(t *testing.T) {
	assert.NoError(t, ValidateProfile(validProfile()))

	// Optional fields may be empty.
	p := validProfile()
	p.FocusAreas = ""
	p.Website = ""
	assert.NoError(t, ValidateProfile(p))

	// Caps count runes, so a 200-rune multibyte name passes even though it
	// is longer than 200 bytes.
	p = validProfile()
	p.Name = strings.Repeat("ễ", 200)
	assert.NoError(t, ValidateProfile(p))
}

func TestValidateProfileRejectsInvalid(t *testing.T) {
	mutate := map[string]func(*Profile){
		"empty name":        func(p *Profile) { p.Name = "  " },
		"name too long":     func(p *Profile) { p.Name = strings.Repeat("a", 201) },
		"name 201 runes":    func(p *Profile) { p.Name = strings.Repeat("ễ", 201) },
		"empty org type":    func(p *Profile) { p.OrgType = "" },
		"empty description": func(p *Profile) { p.Description = "" },
		"bad email":         func(p *Profile) { p.ContactEmail = "not-an-email" },
		"empty email":       func(p *Profile) { p.ContactEmail = "" },
		"empty phone":       func(p *Profile) { p.Phone = "" },
		"phone too long":    func(p *Profile) { p.Phone = strings.Repeat("9", 21) },
		"website too long":  func(p *Profile) { p.Website = "https://" + strings.Repeat("x", 300) },
		"empty address":     func(p *Profile) { p.Address = "" },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			p := validProfile()
			fn(&p)
			assert.Error(t, ValidateProfile(p))
		})
	}
}

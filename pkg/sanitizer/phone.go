package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

type PhoneNormalizer struct {
	regions []string
}

// NewPhoneNormalizer tries regions in order for numbers written without a country code.
func NewPhoneNormalizer(regions []string) *PhoneNormalizer {
	return &PhoneNormalizer{regions: regions}
}

// Normalize returns phone in E.164 form, or "" when no region yields a valid number.
func (n *PhoneNormalizer) Normalize(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	regions := n.regions
	if strings.HasPrefix(phone, "+") {
		regions = []string{"ZZ"}
	}

	for _, region := range regions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil || !phonenumbers.IsValidNumber(parsed) {
			continue
		}
		return phonenumbers.Format(parsed, phonenumbers.E164)
	}
	return ""
}

package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Regions tried, in order, for numbers written without a country code.
var supportedRegions = []string{
	"TW",
	"US",
}

func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsedNumber, err := phonenumbers.Parse(phone, region)
		if err == nil && phonenumbers.IsPossibleNumber(parsedNumber) {
			return phonenumbers.Format(parsedNumber, phonenumbers.E164)
		}
	}
	return ""
}

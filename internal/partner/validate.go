package partner

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone accepts any formatting as long as the number carries at least ten digits.
func ValidPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= 10
}

// ValidINN reports whether inn is a ten-digit taxpayer number.
func ValidINN(inn string) bool {
	if len(inn) != 10 {
		return false
	}
	for _, r := range inn {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseRating parses a non-negative integer rating.
func ParseRating(raw string) (int, bool) {
	rating, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || rating < 0 {
		return 0, false
	}
	return rating, true
}

// Validate returns every problem found in p, or nil when p can be saved.
func Validate(p Partner) []string {
	var problems []string

	if strings.TrimSpace(p.CompanyName) == "" {
		problems = append(problems, "company name is required")
	}
	if strings.TrimSpace(p.DirectorName) == "" {
		problems = append(problems, "director name is required")
	}
	if strings.TrimSpace(p.LegalAddress) == "" {
		problems = append(problems, "legal address is required")
	}
	if p.Rating < 0 {
		problems = append(problems, "rating must be a non-negative integer")
	}
	if !ValidEmail(strings.TrimSpace(p.Email)) {
		problems = append(problems, "email is malformed")
	}
	if !ValidPhone(p.Phone) {
		problems = append(problems, "phone must contain at least 10 digits")
	}
	if !ValidINN(strings.TrimSpace(p.INN)) {
		problems = append(problems, "INN must consist of 10 digits")
	}
	if p.PartnerTypeID <= 0 {
		problems = append(problems, "partner type is required")
	}

	return problems
}

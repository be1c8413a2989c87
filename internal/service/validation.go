package service

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/idna"

	"github.com/octobees/lead-capture/api/internal/dto"
)

var (
	localPartPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+$`)
	idnaProfile      = idna.Lookup
)

const (
	maxNameLength      = 200
	maxEmailLength     = 254
	maxSessionIDLength = 128
)

// Industries is the fixed set of values accepted for a lead's industry.
var Industries = []string{
	"technology",
	"finance",
	"healthcare",
	"retail",
	"manufacturing",
	"education",
	"real_estate",
	"hospitality",
	"other",
}

var industrySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Industries))
	for _, industry := range Industries {
		set[industry] = struct{}{}
	}
	return set
}()

// ValidateSubmission normalizes the request and reports field-level problems.
// It performs no I/O.
func ValidateSubmission(req dto.SubmissionRequest) (dto.SubmissionRequest, ValidationErrors) {
	errs := ValidationErrors{}

	req.Name = strings.Join(strings.Fields(req.Name), " ")
	switch {
	case req.Name == "":
		errs["name"] = "name is required"
	case !isPrintable(req.Name):
		errs["name"] = "name contains invalid characters"
	case utf8.RuneCountInString(req.Name) > maxNameLength:
		errs["name"] = "name is too long"
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		errs["email"] = "email is required"
	} else if normalized, ok := normalizeEmail(req.Email); !ok {
		errs["email"] = "email is not a valid address"
	} else {
		req.Email = normalized
	}

	req.Industry = NormalizeIndustry(req.Industry)
	if req.Industry == "" {
		errs["industry"] = "industry is required"
	} else if !IsKnownIndustry(req.Industry) {
		errs["industry"] = "industry must be one of: " + strings.Join(Industries, ", ")
	}

	req.SessionID = strings.TrimSpace(req.SessionID)
	switch {
	case len(req.SessionID) > maxSessionIDLength:
		errs["session_id"] = "session_id is too long"
	case !isPrintable(req.SessionID):
		errs["session_id"] = "session_id contains invalid characters"
	}

	if req.SubmittedAt != nil && req.SubmittedAt.IsZero() {
		req.SubmittedAt = nil
	}
	if req.SubmittedAt != nil {
		utc := req.SubmittedAt.UTC()
		req.SubmittedAt = &utc
	}

	if len(errs) > 0 {
		return req, errs
	}
	return req, nil
}

// NormalizeIndustry lowercases the value and folds spaces and hyphens to underscores.
func NormalizeIndustry(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(value)
}

// IsKnownIndustry reports whether value is part of Industries.
func IsKnownIndustry(value string) bool {
	_, ok := industrySet[value]
	return ok
}

// isPrintable rejects invalid UTF-8 and control characters, NUL included.
func isPrintable(value string) bool {
	if !utf8.ValidString(value) {
		return false
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func normalizeEmail(email string) (string, bool) {
	if len(email) > maxEmailLength {
		return "", false
	}
	local, domain, found := strings.Cut(email, "@")
	if !found || local == "" || strings.Contains(domain, "@") {
		return "", false
	}
	if !localPartPattern.MatchString(local) || strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return "", false
	}
	asciiDomain, err := idnaProfile.ToASCII(domain)
	if err != nil || !isDomainValid(asciiDomain) {
		return "", false
	}
	return local + "@" + asciiDomain, true
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	tld := parts[len(parts)-1]
	return len(tld) >= 2 && strings.Trim(tld, "0123456789") != ""
}

func submittedAt(req dto.SubmissionRequest, now time.Time) time.Time {
	if req.SubmittedAt != nil {
		return *req.SubmittedAt
	}
	return now.UTC()
}

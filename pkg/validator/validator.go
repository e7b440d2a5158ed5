package validator

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
	objectIDRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`)
)

const (
	maxShortText = 100
	maxLongText  = 2000
)

// ValidateProfile checks the verify-profile form. The avatar must have been
// uploaded first.
func ValidateProfile(name, username, github, linkedin, bio, avatarBlobID string) ValidationErrors {
	errs := make(ValidationErrors)

	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Name is required")
	} else if len(name) > maxShortText {
		errs.Add("name", "Name is too long")
	}

	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) < 3 {
		errs.Add("username", "Username must be at least 3 characters")
	} else if len(username) > 50 {
		errs.Add("username", "Username is too long")
	} else if !usernameRegex.MatchString(username) {
		errs.Add("username", "Username can only contain letters, numbers, _, . and -")
	} else if strings.HasPrefix(username, "0x") {
		errs.Add("username", "Username cannot look like an address")
	}

	validateOptionalURL("github", github, errs)
	validateOptionalURL("linkedin", linkedin, errs)

	if len(bio) > maxLongText {
		errs.Add("bio", "Bio is too long")
	}

	if strings.TrimSpace(avatarBlobID) == "" {
		errs.Add("avatarBlobId", "Please upload an avatar first")
	}

	return errs
}

func ValidateProject(profileID, title, description string, technologies []string, githubLink, youtubeLink string) ValidationErrors {
	errs := make(ValidationErrors)

	validateObjectID("profileId", profileID, errs)

	title = strings.TrimSpace(title)
	if title == "" {
		errs.Add("title", "Title is required")
	} else if len(title) > maxShortText {
		errs.Add("title", "Title is too long")
	}

	description = strings.TrimSpace(description)
	if description == "" {
		errs.Add("description", "Description is required")
	} else if len(description) > maxLongText {
		errs.Add("description", "Description is too long")
	}

	hasTech := false
	for _, t := range technologies {
		if strings.TrimSpace(t) != "" {
			hasTech = true
			break
		}
	}
	if !hasTech {
		errs.Add("technologies", "At least one technology is required")
	}

	validateOptionalURL("githubLink", githubLink, errs)
	validateOptionalURL("youtubeLink", youtubeLink, errs)

	return errs
}

func ValidateCertificate(profileID, title, organization, issueDate, expiryDate, verifyLink string) ValidationErrors {
	errs := make(ValidationErrors)

	validateObjectID("profileId", profileID, errs)

	if strings.TrimSpace(title) == "" {
		errs.Add("title", "Title is required")
	}
	if strings.TrimSpace(organization) == "" {
		errs.Add("organization", "Organization is required")
	}

	issued, issuedOK := parseDate(issueDate)
	if strings.TrimSpace(issueDate) == "" {
		errs.Add("issueDate", "Issue date is required")
	} else if !issuedOK {
		errs.Add("issueDate", "Issue date must be YYYY-MM-DD")
	}

	if strings.TrimSpace(expiryDate) != "" {
		expires, ok := parseDate(expiryDate)
		if !ok {
			errs.Add("expiryDate", "Expiry date must be YYYY-MM-DD")
		} else if issuedOK && expires.Before(issued) {
			errs.Add("expiryDate", "Expiry date must be after the issue date")
		}
	}

	validateOptionalURL("verifyLink", verifyLink, errs)

	return errs
}

func ValidateObjectID(field, id string) ValidationErrors {
	errs := make(ValidationErrors)
	validateObjectID(field, id, errs)
	return errs
}

func validateObjectID(field, id string, errs ValidationErrors) {
	id = strings.TrimSpace(id)
	if id == "" {
		errs.Add(field, "Object id is required")
	} else if !objectIDRegex.MatchString(id) {
		errs.Add(field, "Object id must be 0x-prefixed hex")
	}
}

func validateOptionalURL(field, raw string, errs ValidationErrors) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs.Add(field, "Must be an http(s) link")
	}
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	return t, err == nil
}

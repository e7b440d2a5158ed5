package domain

import (
	"strings"
	"time"
)

const (
	StatusValid   = "Valid"
	StatusExpired = "Expired"
)

// CertificateFields mirrors the on-chain certificate object.
type CertificateFields struct {
	ID           UID     `json:"id"`
	Owner        Address `json:"owner"`
	Title        string  `json:"title"`
	Organization string  `json:"organization"`
	Date         string  `json:"date"`
	ExpiryDate   string  `json:"expiry_date"`
	VerifyLink   string  `json:"verify_link"`
	ImageBlobID  string  `json:"img_cer_blods_id"`
}

type Certificate struct {
	ID           ObjectID `json:"id"`
	Owner        Address  `json:"owner"`
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	IssueDate    string   `json:"issueDate"`
	ExpiryDate   string   `json:"expiryDate,omitempty"`
	VerifyLink   string   `json:"verifyLink,omitempty"`
	ImageBlobID  string   `json:"imageBlobId,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Status       string   `json:"status,omitempty"`
}

func (f CertificateFields) ToCertificate(aggregator string, now time.Time) Certificate {
	return Certificate{
		ID:           f.ID.ID,
		Owner:        f.Owner,
		Title:        f.Title,
		Organization: f.Organization,
		IssueDate:    f.Date,
		ExpiryDate:   f.ExpiryDate,
		VerifyLink:   f.VerifyLink,
		ImageBlobID:  f.ImageBlobID,
		ImageURL:     BlobURL(aggregator, f.ImageBlobID),
		Status:       ExpiryStatus(f.ExpiryDate, now),
	}
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04"}

// ParseDate parses the date formats certificate forms submit.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ExpiryStatus returns "" for certificates without an expiry date, Expired
// when the date lies before now and Valid otherwise. Dates that do not parse
// never count as expired.
func ExpiryStatus(expiry string, now time.Time) string {
	if strings.TrimSpace(expiry) == "" {
		return ""
	}
	t, ok := ParseDate(expiry)
	if ok && t.Before(now) {
		return StatusExpired
	}
	return StatusValid
}

// ABOUTME: Instance form values as entered by the user
// ABOUTME: Converts date strings to the API payload and enforces required fields

package console

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/centerops/cms-console/internal/client"
)

// DateLayout is the license date format used by forms and flags
const DateLayout = "2006-01-02"

var (
	ErrLicenseDatesRequired = errors.New(FailLicenseRequired)
	ErrCompanyRequired      = errors.New("Company is required")
	ErrProgramRequired      = errors.New("Program is required")
	ErrInvalidStatus        = errors.New("status must be active, suspended, or expired")
)

// Statuses lists the instance status values in display order
var Statuses = []string{client.StatusActive, client.StatusSuspended, client.StatusExpired}

// ValidStatus reports whether s is one of Statuses
func ValidStatus(s string) bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// InstanceForm holds the instance fields as text. A blank APIPassword keeps
// the stored password on update.
type InstanceForm struct {
	Company       string
	Program       string
	LicenseStart  string
	LicenseExpire string
	APIURL        string
	APIUsername   string
	APIPassword   string
	Status        string
}

// NewInstanceForm returns an empty form with the default status
func NewInstanceForm() InstanceForm {
	return InstanceForm{Status: client.StatusActive}
}

// InstanceFormFrom prefills a form for editing inst. The password is never
// prefilled.
func InstanceFormFrom(inst client.ProgramInstance) InstanceForm {
	status := inst.Status
	if status == "" {
		status = client.StatusActive
	}
	return InstanceForm{
		Company:       inst.Company.ID,
		Program:       inst.Program.ID,
		LicenseStart:  datePart(inst.LicenseStart),
		LicenseExpire: datePart(inst.LicenseExpire),
		APIURL:        inst.APIURL,
		APIUsername:   inst.APIUsername,
		Status:        status,
	}
}

// Input validates the form and builds the API payload
func (f InstanceForm) Input() (client.InstanceInput, error) {
	startText := strings.TrimSpace(f.LicenseStart)
	expireText := strings.TrimSpace(f.LicenseExpire)
	if startText == "" || expireText == "" {
		return client.InstanceInput{}, ErrLicenseDatesRequired
	}
	if strings.TrimSpace(f.Company) == "" {
		return client.InstanceInput{}, ErrCompanyRequired
	}
	if strings.TrimSpace(f.Program) == "" {
		return client.InstanceInput{}, ErrProgramRequired
	}

	start, err := ParseDate(startText)
	if err != nil {
		return client.InstanceInput{}, fmt.Errorf("license start: %w", err)
	}
	expire, err := ParseDate(expireText)
	if err != nil {
		return client.InstanceInput{}, fmt.Errorf("license expire: %w", err)
	}

	status := f.Status
	if status == "" {
		status = client.StatusActive
	}
	if !ValidStatus(status) {
		return client.InstanceInput{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	return client.InstanceInput{
		Company:       strings.TrimSpace(f.Company),
		Program:       strings.TrimSpace(f.Program),
		LicenseStart:  start,
		LicenseExpire: expire,
		APIURL:        strings.TrimSpace(f.APIURL),
		APIUsername:   strings.TrimSpace(f.APIUsername),
		APIPassword:   f.APIPassword,
		Status:        status,
	}, nil
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ValidateDate is a form validator accepting blank or YYYY-MM-DD input
func ValidateDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := ParseDate(strings.TrimSpace(s))
	return err
}

// datePart returns the YYYY-MM-DD prefix of an API timestamp
func datePart(ts string) string {
	if len(ts) >= len(DateLayout) {
		return ts[:len(DateLayout)]
	}
	return ts
}

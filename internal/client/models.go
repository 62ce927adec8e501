// ABOUTME: Wire types for the Center Management System API
// ABOUTME: Records, write payloads, and the {data: ...} response envelope

package client

import (
	"bytes"
	"encoding/json"
	"time"
)

// envelope is the {data: ...} wrapper every resource endpoint returns
type envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents an API error body
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
}

// LoginRequest represents credentials for authentication
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the account block some deployments return alongside the tokens
type User struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// LoginResponse represents the /auth/login response body
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user,omitempty"`
	Message      string `json:"message,omitempty"`
}

// DisplayName returns the best user-facing name from the response
func (r *LoginResponse) DisplayName() string {
	if r == nil || r.User == nil {
		return ""
	}
	if r.User.Name != "" {
		return r.User.Name
	}
	return r.User.Email
}

// logoutRequest is the /auth/logout request body
type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Company represents a customer company record
type Company struct {
	ID            string `json:"_id,omitempty"`
	CompanyName   string `json:"companyName"`
	CompanyEmail  string `json:"companyEmail"`
	ContactPerson string `json:"contactPerson"`
	Country       string `json:"country"`
	About         string `json:"about"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// CompanyInput is the create/update payload for a company
type CompanyInput struct {
	CompanyName   string `json:"companyName"`
	CompanyEmail  string `json:"companyEmail"`
	ContactPerson string `json:"contactPerson"`
	Country       string `json:"country"`
	About         string `json:"about"`
}

// Input returns the editable fields of the company
func (c Company) Input() CompanyInput {
	return CompanyInput{
		CompanyName:   c.CompanyName,
		CompanyEmail:  c.CompanyEmail,
		ContactPerson: c.ContactPerson,
		Country:       c.Country,
		About:         c.About,
	}
}

// Program represents a software program offered to companies
type Program struct {
	ID             string `json:"_id,omitempty"`
	Name           string `json:"name"`
	Code           string `json:"code"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	CurrentVersion string `json:"currentVersion"`
	CreatedAt      string `json:"createdAt,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

// ProgramInput is the create/update payload for a program
type ProgramInput struct {
	Name           string `json:"name"`
	Code           string `json:"code"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	CurrentVersion string `json:"currentVersion"`
}

// Input returns the editable fields of the program
func (p Program) Input() ProgramInput {
	return ProgramInput{
		Name:           p.Name,
		Code:           p.Code,
		Description:    p.Description,
		Category:       p.Category,
		CurrentVersion: p.CurrentVersion,
	}
}

// Instance status values accepted by the API
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusExpired   = "expired"
)

// CompanyRef is an instance's company, either populated or a bare id
type CompanyRef struct {
	ID          string `json:"_id"`
	CompanyName string `json:"companyName,omitempty"`
}

func (r *CompanyRef) UnmarshalJSON(data []byte) error {
	id, ok, err := bareID(data)
	if err != nil || ok {
		r.ID = id
		return err
	}
	type plain CompanyRef
	return json.Unmarshal(data, (*plain)(r))
}

// ProgramRef is an instance's program, either populated or a bare id
type ProgramRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
	Code string `json:"code,omitempty"`
}

func (r *ProgramRef) UnmarshalJSON(data []byte) error {
	id, ok, err := bareID(data)
	if err != nil || ok {
		r.ID = id
		return err
	}
	type plain ProgramRef
	return json.Unmarshal(data, (*plain)(r))
}

// bareID decodes a JSON string or null reference. ok is false when data is
// an object that the caller should decode itself.
func bareID(data []byte) (string, bool, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return "", true, nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var id string
		err := json.Unmarshal(trimmed, &id)
		return id, true, err
	}
	return "", false, nil
}

// ProgramInstance is a licensed deployment of a program for a company
type ProgramInstance struct {
	ID            string     `json:"_id,omitempty"`
	Company       CompanyRef `json:"company"`
	Program       ProgramRef `json:"program"`
	LicenseStart  string     `json:"licenseStart"`
	LicenseExpire string     `json:"licenseExpire"`
	APIURL        string     `json:"apiUrl"`
	APIUsername   string     `json:"apiUsername"`
	Status        string     `json:"status"`
	CreatedAt     string     `json:"createdAt,omitempty"`
	UpdatedAt     string     `json:"updatedAt,omitempty"`
}

// InstanceInput is the create/update payload for a program instance.
// APIPassword is omitted when blank so updates keep the stored password.
type InstanceInput struct {
	Company       string    `json:"company"`
	Program       string    `json:"program"`
	LicenseStart  time.Time `json:"licenseStart"`
	LicenseExpire time.Time `json:"licenseExpire"`
	APIURL        string    `json:"apiUrl"`
	APIUsername   string    `json:"apiUsername"`
	APIPassword   string    `json:"apiPassword,omitempty"`
	Status        string    `json:"status"`
}

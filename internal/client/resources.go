// ABOUTME: CRUD endpoints for companies, programs, and program instances
// ABOUTME: Each call unwraps the {data: ...} envelope returned by the API

package client

import (
	"context"
	"net/http"
)

const (
	companiesPath = "/companies"
	programsPath  = "/programs"
	instancesPath = "/program-instances"
)

// ListCompanies calls GET /companies
func (c *Client) ListCompanies(ctx context.Context) ([]Company, error) {
	return list[Company](ctx, c, companiesPath)
}

// GetCompany calls GET /companies/{id}
func (c *Client) GetCompany(ctx context.Context, id string) (*Company, error) {
	return fetch[Company](ctx, c, http.MethodGet, resourcePath(companiesPath, id), nil)
}

// CreateCompany calls POST /companies
func (c *Client) CreateCompany(ctx context.Context, input CompanyInput) (*Company, error) {
	return fetch[Company](ctx, c, http.MethodPost, companiesPath, input)
}

// UpdateCompany calls PUT /companies/{id}
func (c *Client) UpdateCompany(ctx context.Context, id string, input CompanyInput) (*Company, error) {
	return fetch[Company](ctx, c, http.MethodPut, resourcePath(companiesPath, id), input)
}

// DeleteCompany calls DELETE /companies/{id}
func (c *Client) DeleteCompany(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, resourcePath(companiesPath, id), nil, nil)
}

// ListPrograms calls GET /programs
func (c *Client) ListPrograms(ctx context.Context) ([]Program, error) {
	return list[Program](ctx, c, programsPath)
}

// GetProgram calls GET /programs/{id}
func (c *Client) GetProgram(ctx context.Context, id string) (*Program, error) {
	return fetch[Program](ctx, c, http.MethodGet, resourcePath(programsPath, id), nil)
}

// CreateProgram calls POST /programs
func (c *Client) CreateProgram(ctx context.Context, input ProgramInput) (*Program, error) {
	return fetch[Program](ctx, c, http.MethodPost, programsPath, input)
}

// UpdateProgram calls PUT /programs/{id}
func (c *Client) UpdateProgram(ctx context.Context, id string, input ProgramInput) (*Program, error) {
	return fetch[Program](ctx, c, http.MethodPut, resourcePath(programsPath, id), input)
}

// DeleteProgram calls DELETE /programs/{id}
func (c *Client) DeleteProgram(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, resourcePath(programsPath, id), nil, nil)
}

// ListInstances calls GET /program-instances
func (c *Client) ListInstances(ctx context.Context) ([]ProgramInstance, error) {
	return list[ProgramInstance](ctx, c, instancesPath)
}

// GetInstance calls GET /program-instances/{id}
func (c *Client) GetInstance(ctx context.Context, id string) (*ProgramInstance, error) {
	return fetch[ProgramInstance](ctx, c, http.MethodGet, resourcePath(instancesPath, id), nil)
}

// CreateInstance calls POST /program-instances
func (c *Client) CreateInstance(ctx context.Context, input InstanceInput) (*ProgramInstance, error) {
	return fetch[ProgramInstance](ctx, c, http.MethodPost, instancesPath, input)
}

// UpdateInstance calls PUT /program-instances/{id}
func (c *Client) UpdateInstance(ctx context.Context, id string, input InstanceInput) (*ProgramInstance, error) {
	return fetch[ProgramInstance](ctx, c, http.MethodPut, resourcePath(instancesPath, id), input)
}

// DeleteInstance calls DELETE /program-instances/{id}
func (c *Client) DeleteInstance(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, resourcePath(instancesPath, id), nil, nil)
}

// list fetches a collection; a missing or null data field is an empty list
func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var env envelope[[]T]
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []T{}, nil
	}
	return env.Data, nil
}

// fetch sends a single-record request and unwraps the data field
func fetch[T any](ctx context.Context, c *Client, method, path string, in interface{}) (*T, error) {
	var env envelope[T]
	if err := c.do(ctx, method, path, in, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

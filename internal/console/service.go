// ABOUTME: Console service shared by the CLI and TUI
// ABOUTME: Loads, caches, saves, and deletes companies, programs, and instances

package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/centerops/cms-console/internal/client"
	"github.com/centerops/cms-console/internal/qrcrypt"
)

// ErrNotFound is returned when a lookup matches no record
var ErrNotFound = errors.New("not found")

// Cache keys for the session-scoped lists
const (
	keyCompanies = "companies"
	keyPrograms  = "programs"
	keyInstances = "instances"
)

// API is the subset of the CMS client used by the console
type API interface {
	ListCompanies(ctx context.Context) ([]client.Company, error)
	GetCompany(ctx context.Context, id string) (*client.Company, error)
	CreateCompany(ctx context.Context, input client.CompanyInput) (*client.Company, error)
	UpdateCompany(ctx context.Context, id string, input client.CompanyInput) (*client.Company, error)
	DeleteCompany(ctx context.Context, id string) error

	ListPrograms(ctx context.Context) ([]client.Program, error)
	GetProgram(ctx context.Context, id string) (*client.Program, error)
	CreateProgram(ctx context.Context, input client.ProgramInput) (*client.Program, error)
	UpdateProgram(ctx context.Context, id string, input client.ProgramInput) (*client.Program, error)
	DeleteProgram(ctx context.Context, id string) error

	ListInstances(ctx context.Context) ([]client.ProgramInstance, error)
	GetInstance(ctx context.Context, id string) (*client.ProgramInstance, error)
	CreateInstance(ctx context.Context, input client.InstanceInput) (*client.ProgramInstance, error)
	UpdateInstance(ctx context.Context, id string, input client.InstanceInput) (*client.ProgramInstance, error)
	DeleteInstance(ctx context.Context, id string) error
}

// Scratch is session-scoped storage for fetched lists. internal/cache.Cache
// satisfies it.
type Scratch interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Clear(key string)
}

// Data is everything the instances page needs
type Data struct {
	Instances []client.ProgramInstance
	Companies []client.Company
	Programs  []client.Program
}

// Service implements the console operations over the API
type Service struct {
	api     API
	scratch Scratch
	qr      qrcrypt.Obfuscator
	now     func() time.Time
}

// NewService creates a service. scratch may be nil to disable caching.
func NewService(api API, scratch Scratch, qr qrcrypt.Obfuscator) *Service {
	return &Service{
		api:     api,
		scratch: scratch,
		qr:      qr,
		now:     time.Now,
	}
}

// Now returns the service clock
func (s *Service) Now() time.Time {
	return s.now()
}

// LoadAll fetches instances, companies, and programs in parallel. The first
// failure cancels the other requests.
func (s *Service) LoadAll(ctx context.Context) (*Data, error) {
	var data Data
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		data.Instances, err = s.Instances(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.Companies, err = s.Companies(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.Programs, err = s.Programs(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Companies fetches the company list and caches it
func (s *Service) Companies(ctx context.Context) ([]client.Company, error) {
	companies, err := s.api.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	s.store(keyCompanies, companies)
	return companies, nil
}

// Programs fetches the program list and caches it
func (s *Service) Programs(ctx context.Context) ([]client.Program, error) {
	programs, err := s.api.ListPrograms(ctx)
	if err != nil {
		return nil, err
	}
	s.store(keyPrograms, programs)
	return programs, nil
}

// Instances fetches the program instance list and caches it
func (s *Service) Instances(ctx context.Context) ([]client.ProgramInstance, error) {
	instances, err := s.api.ListInstances(ctx)
	if err != nil {
		return nil, err
	}
	s.store(keyInstances, instances)
	return instances, nil
}

// Company fetches one company
func (s *Service) Company(ctx context.Context, id string) (*client.Company, error) {
	return s.api.GetCompany(ctx, id)
}

// Program fetches one program
func (s *Service) Program(ctx context.Context, id string) (*client.Program, error) {
	return s.api.GetProgram(ctx, id)
}

// Instance fetches one program instance
func (s *Service) Instance(ctx context.Context, id string) (*client.ProgramInstance, error) {
	return s.api.GetInstance(ctx, id)
}

// SaveCompany creates the company when id is empty, otherwise updates it.
// It returns the success message to show.
func (s *Service) SaveCompany(ctx context.Context, id string, input client.CompanyInput) (*client.Company, string, error) {
	var (
		saved *client.Company
		err   error
		msg   string
	)
	if id == "" {
		saved, err = s.api.CreateCompany(ctx, input)
		msg = MsgCompanyCreated
	} else {
		saved, err = s.api.UpdateCompany(ctx, id, input)
		msg = MsgCompanyUpdated
	}
	if err != nil {
		return nil, "", err
	}
	s.invalidate(keyCompanies, keyInstances)
	return saved, msg, nil
}

// SaveProgram creates the program when id is empty, otherwise updates it
func (s *Service) SaveProgram(ctx context.Context, id string, input client.ProgramInput) (*client.Program, string, error) {
	var (
		saved *client.Program
		err   error
		msg   string
	)
	if id == "" {
		saved, err = s.api.CreateProgram(ctx, input)
		msg = MsgProgramCreated
	} else {
		saved, err = s.api.UpdateProgram(ctx, id, input)
		msg = MsgProgramUpdated
	}
	if err != nil {
		return nil, "", err
	}
	s.invalidate(keyPrograms, keyInstances)
	return saved, msg, nil
}

// SaveInstance validates the form and creates or updates the instance.
// Nothing is sent when the license dates are missing or malformed.
func (s *Service) SaveInstance(ctx context.Context, id string, form InstanceForm) (*client.ProgramInstance, string, error) {
	input, err := form.Input()
	if err != nil {
		return nil, "", err
	}

	var (
		saved *client.ProgramInstance
		msg   string
	)
	if id == "" {
		saved, err = s.api.CreateInstance(ctx, input)
		msg = MsgInstanceCreated
	} else {
		saved, err = s.api.UpdateInstance(ctx, id, input)
		msg = MsgInstanceUpdated
	}
	if err != nil {
		return nil, "", err
	}
	s.invalidate(keyInstances)
	return saved, msg, nil
}

// DeleteCompany removes a company
func (s *Service) DeleteCompany(ctx context.Context, id string) (string, error) {
	if err := s.api.DeleteCompany(ctx, id); err != nil {
		return "", err
	}
	s.invalidate(keyCompanies, keyInstances)
	return MsgCompanyDeleted, nil
}

// DeleteProgram removes a program
func (s *Service) DeleteProgram(ctx context.Context, id string) (string, error) {
	if err := s.api.DeleteProgram(ctx, id); err != nil {
		return "", err
	}
	s.invalidate(keyPrograms, keyInstances)
	return MsgProgramDeleted, nil
}

// DeleteInstance removes a program instance
func (s *Service) DeleteInstance(ctx context.Context, id string) (string, error) {
	if err := s.api.DeleteInstance(ctx, id); err != nil {
		return "", err
	}
	s.invalidate(keyInstances)
	return MsgInstanceDeleted, nil
}

// ResolveCompany maps an id or company name (case-insensitive) to an id
func (s *Service) ResolveCompany(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	companies, err := cachedOr(s, keyCompanies, func() ([]client.Company, error) { return s.Companies(ctx) })
	if err != nil {
		return "", err
	}
	for _, c := range companies {
		if c.ID == ref || strings.EqualFold(c.CompanyName, ref) {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("company %q: %w", ref, ErrNotFound)
}

// ResolveProgram maps an id, program code, or name to an id
func (s *Service) ResolveProgram(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	programs, err := cachedOr(s, keyPrograms, func() ([]client.Program, error) { return s.Programs(ctx) })
	if err != nil {
		return "", err
	}
	for _, p := range programs {
		if p.ID == ref || strings.EqualFold(p.Code, ref) || strings.EqualFold(p.Name, ref) {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("program %q: %w", ref, ErrNotFound)
}

func (s *Service) store(key string, value interface{}) {
	if s.scratch != nil {
		s.scratch.Set(key, value)
	}
}

func (s *Service) invalidate(keys ...string) {
	if s.scratch == nil {
		return
	}
	for _, k := range keys {
		s.scratch.Clear(k)
	}
}

// cachedOr returns the cached list under key or calls fetch on a miss
func cachedOr[T any](s *Service, key string, fetch func() ([]T, error)) ([]T, error) {
	if s.scratch != nil {
		if v, ok := s.scratch.Get(key); ok {
			if list, ok := v.([]T); ok {
				slog.Debug("Using cached list", "key", key)
				return list, nil
			}
		}
	}
	return fetch()
}

package service

import (
	"context"
	"sort"
	"strings"

	"velto-memory-be/internal/entity"
	"velto-memory-be/internal/pkg/logger"
	"velto-memory-be/internal/repository/contract"
	"velto-memory-be/internal/repository/specification"
	"velto-memory-be/internal/repository/unitofwork"
	"velto-memory-be/pkg/ai"

	"github.com/google/uuid"
)

// In-memory repositories interpreting the same specifications the GORM
// implementations translate to SQL.

type memContextRepo struct {
	items map[uuid.UUID]*entity.Context
}

func newMemContextRepo() *memContextRepo {
	return &memContextRepo{items: make(map[uuid.UUID]*entity.Context)}
}

func (r *memContextRepo) Create(ctx context.Context, c *entity.Context) error {
	clone := *c
	r.items[c.Id] = &clone
	return nil
}

func (r *memContextRepo) Update(ctx context.Context, c *entity.Context) error {
	clone := *c
	r.items[c.Id] = &clone
	return nil
}

func (r *memContextRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *memContextRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Context, error) {
	for _, c := range r.items {
		if contextMatches(c, specs) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memContextRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Context, error) {
	var matched []*entity.Context
	for _, c := range r.items {
		if contextMatches(c, specs) {
			clone := *c
			matched = append(matched, &clone)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	for _, spec := range specs {
		if p, ok := spec.(specification.Pagination); ok {
			if p.Offset >= len(matched) {
				return nil, nil
			}
			end := p.Offset + p.Limit
			if end > len(matched) {
				end = len(matched)
			}
			matched = matched[p.Offset:end]
		}
	}
	return matched, nil
}

func (r *memContextRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	for _, c := range r.items {
		if contextMatches(c, specs) {
			count++
		}
	}
	return count, nil
}

func contextMatches(c *entity.Context, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if c.Id != s.ID {
				return false
			}
		case specification.OwnedBy:
			if c.UserId != s.UserID {
				return false
			}
		case specification.ByProjectID:
			if c.ProjectId == nil || *c.ProjectId != s.ProjectID {
				return false
			}
		case specification.ByContextType:
			if string(c.Type) != s.Type {
				return false
			}
		case specification.ByContextTypes:
			found := false
			for _, t := range s.Types {
				if string(c.Type) == t {
					found = true
				}
			}
			if !found {
				return false
			}
		case specification.TagsAnyOf:
			found := false
			for _, want := range s.Tags {
				for _, have := range c.Tags {
					if want == have {
						found = true
					}
				}
			}
			if !found {
				return false
			}
		case specification.CreatedBetween:
			if s.After != nil && c.CreatedAt.Before(*s.After) {
				return false
			}
			if s.Before != nil && c.CreatedAt.After(*s.Before) {
				return false
			}
		case specification.NotArchived:
			if c.IsArchived {
				return false
			}
		}
	}
	return true
}

type memProjectRepo struct {
	items map[uuid.UUID]*entity.Project
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{items: make(map[uuid.UUID]*entity.Project)}
}

func (r *memProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	clone := *p
	r.items[p.Id] = &clone
	return nil
}

func (r *memProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	clone := *p
	r.items[p.Id] = &clone
	return nil
}

func (r *memProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *memProjectRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Project, error) {
	for _, p := range r.items {
		if projectMatches(p, specs) {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memProjectRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Project, error) {
	var matched []*entity.Project
	for _, p := range r.items {
		if projectMatches(p, specs) {
			clone := *p
			matched = append(matched, &clone)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (r *memProjectRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	for _, p := range r.items {
		if projectMatches(p, specs) {
			count++
		}
	}
	return count, nil
}

func projectMatches(p *entity.Project, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if p.Id != s.ID {
				return false
			}
		case specification.MemberOf:
			if !p.IsMember(s.UserID) {
				return false
			}
		case specification.ByPublic:
			if p.IsPublic != s.IsPublic {
				return false
			}
		case specification.TagsAnyOf:
			found := false
			for _, want := range s.Tags {
				for _, have := range p.Tags {
					if want == have {
						found = true
					}
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

type memGraphRepo struct{}

func (r *memGraphRepo) FindByScope(ctx context.Context, projectId, userId uuid.UUID) (*entity.ContextGraph, error) {
	return nil, nil
}
func (r *memGraphRepo) Create(ctx context.Context, g *entity.ContextGraph) error { return nil }
func (r *memGraphRepo) DeleteByScope(ctx context.Context, projectId, userId uuid.UUID) error {
	return nil
}

type memUow struct {
	contexts *memContextRepo
	projects *memProjectRepo
}

func newMemUow() *memUow {
	return &memUow{
		contexts: newMemContextRepo(),
		projects: newMemProjectRepo(),
	}
}

func (u *memUow) Begin(ctx context.Context) error                          { return nil }
func (u *memUow) Commit() error                                            { return nil }
func (u *memUow) Rollback() error                                          { return nil }
func (u *memUow) ContextRepository() contract.ContextRepository            { return u.contexts }
func (u *memUow) ProjectRepository() contract.ProjectRepository            { return u.projects }
func (u *memUow) ContextGraphRepository() contract.ContextGraphRepository  { return &memGraphRepo{} }

type memFactory struct {
	uow *memUow
}

func (f *memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// stubProvider returns canned embeddings keyed by keyword occurrence, so
// semantic similarity in tests is controlled by content, not by a model.
type stubProvider struct {
	generateAnswer string
	embedErr       error
	generateErr    error
	embedCalls     int
}

func (p *stubProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	p.embedCalls++
	if p.embedErr != nil {
		return nil, p.embedErr
	}
	lower := strings.ToLower(text)
	vec := []float32{0.05, 0.05, 0.05}
	if strings.Contains(lower, "milk") {
		vec[0] = 1
	}
	if strings.Contains(lower, "grocery") {
		vec[1] = 1
	}
	if strings.Contains(lower, "roadmap") {
		vec[2] = 1
	}
	return vec, nil
}

func (p *stubProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.generateErr != nil {
		return "", p.generateErr
	}
	return p.generateAnswer, nil
}

func (p *stubProvider) Analyze(ctx context.Context, title, content string) (*ai.Analysis, error) {
	return &ai.Analysis{
		Summary:    "summary of " + title,
		Topics:     []string{"test"},
		Sentiment:  "neutral",
		Complexity: 2,
	}, nil
}

// recordingPublisher captures every rebuild payload.
type recordingPublisher struct {
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

// nopLogger satisfies logger.ILogger for services under test.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

// Package catalog loads sample interviews from YAML and seeds them through
// the interview service.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/services"
	"gopkg.in/yaml.v3"
)

type File struct {
	Interviews []Interview `yaml:"interviews"`
}

type Interview struct {
	Role        string     `yaml:"role"`
	Level       string     `yaml:"level"`
	Type        string     `yaml:"type"`
	TechStack   []string   `yaml:"techstack"`
	Description string     `yaml:"description"`
	Questions   []Question `yaml:"questions"`
}

type Question struct {
	Type          string   `yaml:"type"`
	Question      string   `yaml:"question"`
	Options       []string `yaml:"options"`
	CorrectAnswer string   `yaml:"correct_answer"`
	Explanation   string   `yaml:"explanation"`
	Points        int      `yaml:"points"`
}

// Load decodes a catalog file. Unknown keys are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func LoadFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer file.Close()
	return Load(file)
}

func (f *File) validate() error {
	for i, iv := range f.Interviews {
		if iv.Role == "" || iv.Level == "" || iv.Type == "" {
			return fmt.Errorf("interview %d: role, level and type are required", i+1)
		}
		for j, q := range iv.Questions {
			if q.Question == "" {
				return fmt.Errorf("interview %d question %d: question text is required", i+1, j+1)
			}
		}
	}
	return nil
}

// Seeder creates catalog interviews that do not exist yet.
type Seeder struct {
	interviews services.InterviewService
	logger     *slog.Logger
}

func NewSeeder(interviews services.InterviewService, logger *slog.Logger) *Seeder {
	return &Seeder{interviews: interviews, logger: logger}
}

// Seed creates every interview in f whose role, level and type do not
// match an existing one. It returns the created interviews.
func (s *Seeder) Seed(ctx context.Context, f *File) ([]*models.Interview, error) {
	existing, err := s.interviews.ListLatestInterviews(ctx, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, iv := range existing {
		seen[key(iv.Role, iv.Level, iv.Type)] = struct{}{}
	}

	var created []*models.Interview
	for _, iv := range f.Interviews {
		k := key(iv.Role, iv.Level, iv.Type)
		if _, ok := seen[k]; ok {
			s.logger.Debug("Catalog interview already present", "role", iv.Role, "level", iv.Level, "type", iv.Type)
			continue
		}

		interview, err := s.interviews.CreateInterview(ctx, iv.request())
		if err != nil {
			return created, fmt.Errorf("failed to seed %s %s interview: %w", iv.Level, iv.Role, err)
		}
		seen[k] = struct{}{}
		created = append(created, interview)
		s.logger.Info("Seeded interview",
			"interview_id", interview.ID,
			"role", interview.Role,
			"questions", len(interview.Questions))
	}
	return created, nil
}

// SeedFile loads path and seeds it.
func (s *Seeder) SeedFile(ctx context.Context, path string) ([]*models.Interview, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return s.Seed(ctx, f)
}

func (iv Interview) request() *services.CreateInterviewRequest {
	req := &services.CreateInterviewRequest{
		Role:      iv.Role,
		Level:     iv.Level,
		Type:      iv.Type,
		TechStack: iv.TechStack,
		Questions: make([]services.CreateQuestionRequest, 0, len(iv.Questions)),
	}
	if iv.Description != "" {
		req.Description = &iv.Description
	}
	for _, q := range iv.Questions {
		qr := services.CreateQuestionRequest{
			Type:    models.QuestionType(q.Type),
			Prompt:  q.Question,
			Options: q.Options,
			Points:  q.Points,
		}
		if q.CorrectAnswer != "" {
			answer := q.CorrectAnswer
			qr.CorrectAnswer = &answer
		}
		if q.Explanation != "" {
			explanation := q.Explanation
			qr.Explanation = &explanation
		}
		req.Questions = append(req.Questions, qr)
	}
	return req
}

func key(role, level, kind string) string {
	return strings.ToLower(role) + "|" + strings.ToLower(level) + "|" + strings.ToLower(kind)
}

// Package workflow drives the step-by-step story creation flow. Each step
// validates its input before the flow advances, and finishing the flow
// always yields a persisted story: when the model endpoint fails, a local
// template generator takes over silently.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lunanest/storytime/internal/client"
	"github.com/lunanest/storytime/internal/generator"
	"github.com/lunanest/storytime/internal/model"
)

type Step string

const (
	StepAge       Step = "age"
	StepGender    Step = "gender"
	StepInterests Step = "interests"
	StepStyle     Step = "style"
	StepLesson    Step = "lesson"
	StepStory     Step = "story"
)

var (
	ErrAgeOutOfRange     = errors.New("age must be between 2 and 12")
	ErrInterestsRequired = errors.New("select at least one interest")
	ErrWrongStep         = errors.New("input does not match the current step")
	ErrNotReady          = errors.New("workflow has not collected all attributes yet")
)

// Persister saves the finished story. *client.Client satisfies it.
type Persister interface {
	CreateStory(ctx context.Context, token string, req client.CreateStoryRequest) (*model.Story, error)
}

type Workflow struct {
	step      Step
	params    generator.Params
	primary   generator.TextGenerator
	fallback  generator.TextGenerator
	persister Persister
}

func New(primary, fallback generator.TextGenerator, persister Persister) *Workflow {
	return &Workflow{
		step:      StepAge,
		primary:   primary,
		fallback:  fallback,
		persister: persister,
	}
}

func (w *Workflow) Step() Step {
	return w.step
}

func (w *Workflow) Params() generator.Params {
	return w.params
}

func (w *Workflow) SetAge(age int) error {
	if w.step != StepAge {
		return ErrWrongStep
	}
	if age < 2 || age > 12 {
		return ErrAgeOutOfRange
	}

	w.params.Age = age
	w.step = StepGender

	return nil
}

// SetGender accepts any value including empty; the attribute is optional.
func (w *Workflow) SetGender(gender string) error {
	if w.step != StepGender {
		return ErrWrongStep
	}

	w.params.Gender = strings.TrimSpace(gender)
	w.step = StepInterests

	return nil
}

func (w *Workflow) SetInterests(interests []string) error {
	if w.step != StepInterests {
		return ErrWrongStep
	}

	cleaned := make([]string, 0, len(interests))
	for _, interest := range interests {
		interest = strings.TrimSpace(interest)
		if interest != "" {
			cleaned = append(cleaned, interest)
		}
	}
	if len(cleaned) == 0 {
		return ErrInterestsRequired
	}

	w.params.Interests = cleaned
	w.step = StepStyle

	return nil
}

func (w *Workflow) SetStyle(style string) error {
	if w.step != StepStyle {
		return ErrWrongStep
	}

	w.params.Style = strings.TrimSpace(style)
	w.step = StepLesson

	return nil
}

func (w *Workflow) SetLesson(lesson string) error {
	if w.step != StepLesson {
		return ErrWrongStep
	}

	w.params.Lesson = strings.TrimSpace(lesson)
	w.step = StepStory

	return nil
}

// Finish generates the story and persists it. A generation failure is not an
// error: the local template generator covers it and only the persistence
// call can fail the flow.
func (w *Workflow) Finish(ctx context.Context, token string) (*model.Story, error) {
	if w.step != StepStory {
		return nil, ErrNotReady
	}

	result, err := w.primary.Generate(ctx, w.params)
	if err != nil {
		slog.Warn("story generation failed, using local template", "error", err)

		result, err = w.fallback.Generate(ctx, w.params)
		if err != nil {
			// The template generator cannot fail in practice; treat it
			// like a persistence failure if it somehow does.
			return nil, fmt.Errorf("fallback generation failed: %w", err)
		}
	}

	story, err := w.persister.CreateStory(ctx, token, client.CreateStoryRequest{
		Title: result.Title,
		Story: result.Story,
		Age:   &w.params.Age,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save story: %w", err)
	}

	return story, nil
}

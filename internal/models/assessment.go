package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Question types as they appear in the assessment yaml.
const (
	QuestionOpen   = "open"
	QuestionChoice = "choice"
)

// Question is one prompt within an assessment definition.
type Question struct {
	ID       string   `yaml:"id" json:"id"`
	Text     string   `yaml:"text" json:"text"`
	Type     string   `yaml:"type" json:"type"`
	Options  []Option `yaml:"options,omitempty" json:"options,omitempty"`
	Points   int      `yaml:"points,omitempty" json:"points,omitempty"`
	Required bool     `yaml:"required,omitempty" json:"required,omitempty"`
}

// Option is one selectable choice for a choice-type question.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Assessment is the definition of a timed exam: its questions and the
// duration students are allotted, in minutes.
type Assessment struct {
	ID        string     `yaml:"id" json:"id"`
	Title     string     `yaml:"title" json:"title"`
	Duration  int        `yaml:"duration" json:"duration"`
	Questions []Question `yaml:"questions" json:"questions"`
}

// QuestionByID returns the question with the given ID, if present.
func (a *Assessment) QuestionByID(id string) (*Question, bool) {
	for i := range a.Questions {
		if a.Questions[i].ID == id {
			return &a.Questions[i], true
		}
	}
	return nil, false
}

// LoadAssessment reads and parses an assessment definition yaml file.
func LoadAssessment(path string) (*Assessment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read assessment file: %w", err)
	}

	var assessment Assessment
	if err := yaml.Unmarshal(data, &assessment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assessment YAML: %w", err)
	}

	return &assessment, nil
}

package bank

import (
	"context"
	"fmt"
	"os"

	"github.com/uxforge/maestro/pkg/domain"
	"gopkg.in/yaml.v3"
)

// FileLoader reads a question catalog from a single YAML file:
//
//	questions:
//	  - id: q_intent_main
//	    category: intent
//	    text: "What would you like to create?"
//	    type: single_choice
//	    required: true
//	    options:
//	      - id: opt_new_design
//	        label: "A new design"
type FileLoader struct {
	Path string
}

type catalogFile struct {
	Questions []domain.Question `yaml:"questions"`
}

// LoadQuestions implements ports.BankLoader.
func (l *FileLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", l.Path, err)
	}
	if len(file.Questions) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no questions", l.Path)
	}
	return file.Questions, nil
}

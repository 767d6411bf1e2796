package definition

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Task types accepted in documents.
const (
	TypeActivity = "activity"
	TypeChoice   = "choice"
)

// ErrInvalid indicates a document that failed validation.
var ErrInvalid = errors.New("invalid definition")

// Document is a declarative workflow graph.
type Document struct {
	Name  string `yaml:"name" json:"name" validate:"required"`
	Start string `yaml:"start,omitempty" json:"start,omitempty"`
	Tasks []Task `yaml:"tasks" json:"tasks" validate:"required,min=1,dive"`
}

// Task declares one activity or choice.
type Task struct {
	Name string `yaml:"name" json:"name" validate:"task_name"`
	Type string `yaml:"type" json:"type" validate:"required,oneof=activity choice"`

	// Fn names a registered step function. Choices may use Expr instead.
	Fn   string `yaml:"fn,omitempty" json:"fn,omitempty"`
	Expr string `yaml:"expr,omitempty" json:"expr,omitempty"`

	Then    string   `yaml:"then,omitempty" json:"then,omitempty"`
	Catch   []Catch  `yaml:"catch,omitempty" json:"catch,omitempty" validate:"dive"`
	Choices []Choice `yaml:"choices,omitempty" json:"choices,omitempty" validate:"dive"`
}

// Catch routes failures matching Pattern to Then.
type Catch struct {
	Pattern string `yaml:"pattern" json:"pattern" validate:"required"`
	Then    string `yaml:"then,omitempty" json:"then,omitempty"`
}

// Choice routes the choice key Key to Then.
type Choice struct {
	Key  string `yaml:"key" json:"key" validate:"required"`
	Then string `yaml:"then,omitempty" json:"then,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("task_name", validateTaskName); err != nil {
		panic(fmt.Sprintf("definition: register validation: %v", err))
	}
	return v
}

// validateTaskName rejects empty names and names with surrounding space.
func validateTaskName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return name != "" && strings.TrimSpace(name) == name
}

// Parse decodes and validates a YAML document. JSON input is accepted as
// YAML.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseJSON decodes and validates a JSON document.
func ParseJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads a document from a file, choosing the format by extension.
// Supported extensions: .yaml, .yml, .json
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return Parse(data)
	case ".json":
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported definition file extension: %s", ext)
	}
}

// Validate checks field constraints and the relations between tasks:
// unique names, a known start task, and rules that fit each task's type.
// Successor names are not checked here; see stepgraph.Validate.
func (d *Document) Validate() error {
	var errs []error

	if err := validate.Struct(d); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fmt.Errorf("%s: failed %q", fe.Namespace(), fe.Tag()))
		}
	}

	seen := make(map[string]bool, len(d.Tasks))
	for _, t := range d.Tasks {
		if t.Name != "" && seen[t.Name] {
			errs = append(errs, fmt.Errorf("duplicate task %q", t.Name))
		}
		seen[t.Name] = true
		errs = append(errs, t.check()...)
	}

	if d.Start != "" && !seen[d.Start] {
		errs = append(errs, fmt.Errorf("start task %q is not declared", d.Start))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

func (t Task) check() []error {
	var errs []error
	switch t.Type {
	case TypeActivity:
		if t.Expr != "" {
			errs = append(errs, fmt.Errorf("task %q: expr is only valid on choices", t.Name))
		}
		if len(t.Choices) > 0 {
			errs = append(errs, fmt.Errorf("task %q: choices are only valid on choices", t.Name))
		}
	case TypeChoice:
		if t.Fn != "" && t.Expr != "" {
			errs = append(errs, fmt.Errorf("task %q: fn and expr are mutually exclusive", t.Name))
		}
		if t.Then != "" || len(t.Catch) > 0 {
			errs = append(errs, fmt.Errorf("task %q: choices take no then or catch rules", t.Name))
		}
		if len(t.Choices) == 0 {
			errs = append(errs, fmt.Errorf("task %q: choice has no branches", t.Name))
		}
		keys := make(map[string]bool, len(t.Choices))
		for _, c := range t.Choices {
			if keys[c.Key] {
				errs = append(errs, fmt.Errorf("task %q: duplicate choice key %q", t.Name, c.Key))
			}
			keys[c.Key] = true
		}
	}
	return errs
}

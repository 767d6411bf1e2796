package definition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderYAML = `
name: orders
start: validate
tasks:
  - name: validate
    type: activity
    fn: validate
    then: route
    catch:
      - pattern: "*invalid*"
        then: reject
  - name: route
    type: choice
    expr: "total > 100"
    choices:
      - key: "true"
        then: review
      - key: "false"
        then: ship
  - name: review
    type: activity
    fn: review
    then: ship
  - name: ship
    type: activity
    fn: ship
  - name: reject
    type: activity
    fn: reject
`

const orderJSON = `{
  "name": "orders",
  "tasks": [
    {"name": "validate", "type": "activity", "fn": "validate", "then": "ship"},
    {"name": "ship", "type": "activity", "fn": "ship"}
  ]
}`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(orderYAML))
	require.NoError(t, err)

	assert.Equal(t, "orders", doc.Name)
	assert.Equal(t, "validate", doc.Start)
	require.Len(t, doc.Tasks, 5)

	validate := doc.Tasks[0]
	assert.Equal(t, TypeActivity, validate.Type)
	assert.Equal(t, "route", validate.Then)
	assert.Equal(t, []Catch{{Pattern: "*invalid*", Then: "reject"}}, validate.Catch)

	route := doc.Tasks[1]
	assert.Equal(t, TypeChoice, route.Type)
	assert.Equal(t, "total > 100", route.Expr)
	assert.Equal(t, []Choice{{Key: "true", Then: "review"}, {Key: "false", Then: "ship"}}, route.Choices)

	assert.Empty(t, doc.Tasks[3].Then)
}

func TestParse_JSONAsYAML(t *testing.T) {
	doc, err := Parse([]byte(orderJSON))
	require.NoError(t, err)
	assert.Len(t, doc.Tasks, 2)
}

func TestParseJSON(t *testing.T) {
	doc, err := ParseJSON([]byte(orderJSON))
	require.NoError(t, err)
	assert.Equal(t, "orders", doc.Name)
	assert.Equal(t, "ship", doc.Tasks[0].Then)

	_, err = ParseJSON([]byte("{"))
	assert.ErrorContains(t, err, "parse definition")
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("name: [unclosed"))
	assert.ErrorContains(t, err, "parse definition")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr []string
	}{
		{
			name: "valid",
			doc: Document{Name: "ok", Tasks: []Task{
				{Name: "a", Type: TypeActivity, Fn: "a"},
			}},
		},
		{
			name:    "missing name and tasks",
			doc:     Document{},
			wantErr: []string{"Document.Name", "Document.Tasks"},
		},
		{
			name: "bad type",
			doc: Document{Name: "x", Tasks: []Task{
				{Name: "a", Type: "parallel"},
			}},
			wantErr: []string{"Document.Tasks[0].Type", "oneof"},
		},
		{
			name: "padded task name",
			doc: Document{Name: "x", Tasks: []Task{
				{Name: " a ", Type: TypeActivity},
			}},
			wantErr: []string{"task_name"},
		},
		{
			name: "duplicate task",
			doc: Document{Name: "x", Tasks: []Task{
				{Name: "a", Type: TypeActivity},
				{Name: "a", Type: TypeActivity},
			}},
			wantErr: []string{`duplicate task "a"`},
		},
		{
			name: "unknown start",
			doc: Document{Name: "x", Start: "b", Tasks: []Task{
				{Name: "a", Type: TypeActivity},
			}},
			wantErr: []string{`start task "b" is not declared`},
		},
		{
			name: "empty catch pattern",
			doc: Document{Name: "x", Tasks: []Task{
				{Name: "a", Type: TypeActivity, Catch: []Catch{{Then: "b"}}},
			}},
			wantErr: []string{"Pattern"},
		},
		{
			name: "activity with choice fields",
			doc: Document{Name: "x", Tasks: []Task{
				{Name: "a", Type: TypeActivity, Expr: "ok", Choices: []Choice{{Key: "k"}}},
			}},
			wantErr: []string{"expr is only valid on choices", "choices are only valid on choices"},
		},
		{
			name: "choice misuse",
			doc: Document{Name: "x", Tasks: []Task{
				{Name: "c", Type: TypeChoice, Fn: "f", Expr: "ok", Then: "a"},
			}},
			wantErr: []string{"mutually exclusive", "no then or catch", "no branches"},
		},
		{
			name: "duplicate choice key",
			doc: Document{Name: "x", Tasks: []Task{
				{Name: "c", Type: TypeChoice, Fn: "f", Choices: []Choice{{Key: "k"}, {Key: "k"}}},
			}},
			wantErr: []string{`duplicate choice key "k"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "orders.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(orderYAML), 0o600))
	doc, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Len(t, doc.Tasks, 5)

	jsonPath := filepath.Join(dir, "orders.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(orderJSON), 0o600))
	doc, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Len(t, doc.Tasks, 2)

	txtPath := filepath.Join(dir, "orders.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte(orderYAML), 0o600))
	_, err = Load(txtPath)
	assert.ErrorContains(t, err, "unsupported definition file extension")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read definition")
}

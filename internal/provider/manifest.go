package provider

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"sigs.k8s.io/yaml"

	"github.com/griffnb/core-endpoints/internal/domain"
)

// Manifest is the serialized form of the descriptors of a run. It can be
// compiled without the Go sources that produced it.
type Manifest struct {
	Methods []*domain.MethodDescriptor `json:"methods"`
	Models  []ModelEntry               `json:"models,omitempty"`
}

// ModelEntry is a model with its fields in declaration order.
type ModelEntry struct {
	Name   string       `json:"name"`
	Doc    string       `json:"doc,omitempty"`
	Fields []FieldEntry `json:"fields"`
}

// FieldEntry is one model property.
type FieldEntry struct {
	Name string         `json:"name"`
	Type domain.TypeRef `json:"type"`
}

// NewManifest captures methods and every model of store, sorted by name.
func NewManifest(methods []*domain.MethodDescriptor, store *domain.MemoryStore) *Manifest {
	m := &Manifest{Methods: methods}
	for _, name := range store.Names() {
		model, _ := store.FindModel(name)
		entry := ModelEntry{Name: model.Name, Doc: model.Doc}
		_ = model.RangeFields(func(field string, t domain.TypeRef) error {
			entry.Fields = append(entry.Fields, FieldEntry{Name: field, Type: t})
			return nil
		})
		m.Models = append(m.Models, entry)
	}
	return m
}

// Store builds a model store from the manifest models.
func (m *Manifest) Store() *domain.MemoryStore {
	store := domain.NewMemoryStore()
	for _, entry := range m.Models {
		model := domain.NewModel(entry.Name)
		model.Doc = entry.Doc
		for _, f := range entry.Fields {
			model.AddField(f.Name, f.Type)
		}
		store.Add(model)
	}
	return store
}

// Marshal encodes the manifest as indented JSON with sorted map keys.
func (m *Manifest) Marshal() ([]byte, error) {
	return json.Marshal(m, json.Deterministic(true), jsontext.WithIndent("  "))
}

// MarshalYAML encodes the manifest as YAML.
func (m *Manifest) MarshalYAML() ([]byte, error) {
	b, err := m.Marshal()
	if err != nil {
		return nil, err
	}
	return yaml.JSONToYAML(b)
}

// ParseManifest decodes a JSON or YAML manifest. YAML is a superset of JSON,
// so both go through the YAML converter.
func ParseManifest(data []byte) (*Manifest, error) {
	b, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	for i, method := range m.Methods {
		if method == nil || method.Name == "" {
			return nil, fmt.Errorf("manifest: method %d has no name", i)
		}
	}
	sort.SliceStable(m.Models, func(i, j int) bool {
		return m.Models[i].Name < m.Models[j].Name
	})
	return &m, nil
}

// LoadManifest reads a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data)
}

// WriteManifest writes m to path, as YAML when the extension says so.
func WriteManifest(path string, m *Manifest) error {
	var (
		b   []byte
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		b, err = m.MarshalYAML()
	default:
		b, err = m.Marshal()
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

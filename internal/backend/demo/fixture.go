package demo

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/arcticroofing/arctic-portal/internal/models"
)

//go:embed fixture.yaml
var fixtureYAML []byte

// Fixture is the single sample project the demo serves.
type Fixture struct {
	Project   models.ProjectRecord         `yaml:"project"`
	Property  models.PropertyRecord        `yaml:"property"`
	Timeline  []models.TimelineEventRecord `yaml:"timeline"`
	Photos    []models.PhotoRecord         `yaml:"photos"`
	Documents []models.DocumentRecord      `yaml:"documents"`
	Messages  []models.MessageRow          `yaml:"messages"`
}

// LoadFixture parses the embedded sample project.
func LoadFixture() (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(fixtureYAML, &f); err != nil {
		return nil, fmt.Errorf("parse demo fixture: %w", err)
	}
	if f.Project.ID == "" {
		return nil, fmt.Errorf("demo fixture has no project id")
	}
	for i := range f.Timeline {
		f.Timeline[i].ProjectID = f.Project.ID
	}
	for i := range f.Photos {
		f.Photos[i].ProjectID = f.Project.ID
	}
	for i := range f.Documents {
		f.Documents[i].ProjectID = f.Project.ID
	}
	for i := range f.Messages {
		f.Messages[i].ProjectID = f.Project.ID
	}
	return &f, nil
}

// Row returns the fixture project joined with its property.
func (f *Fixture) Row() models.ProjectRow {
	prop := f.Property
	return models.ProjectRow{ProjectRecord: f.Project, Property: &prop}
}

package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/finsight/kpiscan/internal/model"
)

// overlayFile is the on-disk shape of a catalog overlay.
type overlayFile struct {
	Patterns []overlayPattern `yaml:"patterns"`
}

// overlayPattern is one user-supplied descriptor.
type overlayPattern struct {
	Type            string   `yaml:"type"`
	IndustryHint    string   `yaml:"industry_hint"`
	Templates       []string `yaml:"templates"`
	UnitClasses     []string `yaml:"unit_classes"`
	ContextKeywords []string `yaml:"context_keywords"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

// Load returns the default catalog extended with descriptors from the YAML
// overlay at path. An empty path returns the default catalog unchanged.
func Load(path string) (*Catalog, error) {
	base := Default()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read overlay %s", path)
	}

	var file overlayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrapf(err, "catalog: parse overlay %s", path)
	}

	extra := make([]Pattern, 0, len(file.Patterns))
	for i, op := range file.Patterns {
		if op.Type == "" {
			return nil, eris.Errorf("catalog: overlay pattern %d has empty type", i)
		}
		templates := make([]Template, 0, len(op.Templates))
		for _, expr := range op.Templates {
			t, err := CompileTemplate(expr)
			if err != nil {
				return nil, eris.Wrapf(err, "catalog: overlay pattern %q", op.Type)
			}
			templates = append(templates, t)
		}
		extra = append(extra, Pattern{
			Type:            model.KPIType(op.Type),
			IndustryHint:    op.IndustryHint,
			Templates:       templates,
			UnitClasses:     op.UnitClasses,
			ContextKeywords: op.ContextKeywords,
			ExcludeKeywords: op.ExcludeKeywords,
		})
	}

	return New(append(base.patterns, extra...))
}

// Package catalog holds the declarative KPI pattern registry. New metrics are
// added by appending descriptors (in code or via a YAML overlay), never by
// branching extraction logic.
package catalog

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/finsight/kpiscan/internal/model"
)

// Named capture groups every template must use. This is the structural
// contract between templates and the normalizer: "mag" is the numeric
// magnitude, "unit" the optional scale/unit token.
const (
	GroupMagnitude = "mag"
	GroupUnit      = "unit"
)

// Template is one compiled matching rule.
type Template struct {
	expr    string
	re      *regexp.Regexp
	magIdx  int
	unitIdx int // -1 when the template has no unit group
}

// CompileTemplate compiles a template expression and verifies the capture
// group contract. The expression must contain a (?P<mag>...) group; a
// (?P<unit>...) group is optional.
func CompileTemplate(expr string) (Template, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Template{}, eris.Wrapf(err, "catalog: compile template %q", expr)
	}

	t := Template{expr: expr, re: re, magIdx: -1, unitIdx: -1}
	for i, name := range re.SubexpNames() {
		switch name {
		case GroupMagnitude:
			t.magIdx = i
		case GroupUnit:
			t.unitIdx = i
		}
	}
	if t.magIdx < 0 {
		return Template{}, eris.Errorf("catalog: template %q has no %q capture group", expr, GroupMagnitude)
	}
	return t, nil
}

// Expr returns the template's source expression.
func (t Template) Expr() string { return t.expr }

// Hit is one occurrence of a template in document text.
type Hit struct {
	Text      string // full matched substring
	Magnitude string
	Unit      string // empty when the template has no unit group or it didn't participate
}

// FindAll returns every occurrence of the template in text.
func (t Template) FindAll(text string) []Hit {
	matches := t.re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	hits := make([]Hit, 0, len(matches))
	for _, m := range matches {
		h := Hit{Text: m[0], Magnitude: m[t.magIdx]}
		if t.unitIdx >= 0 && t.unitIdx < len(m) {
			h.Unit = m[t.unitIdx]
		}
		hits = append(hits, h)
	}
	return hits
}

// Pattern is one catalog entry: a KPI type with its matching templates and
// confidence-modifying keyword sets.
type Pattern struct {
	Type            model.KPIType
	IndustryHint    string // display/filtering only, never gates matching
	Templates       []Template
	UnitClasses     []string // scale/unit tokens valid for this pattern
	ContextKeywords []string
	ExcludeKeywords []string

	unitSet map[string]struct{}
}

// AllowsUnit reports whether a captured unit token is valid for this pattern.
// An empty token is always allowed (template matched without a scale word),
// as is any token when the pattern declares no unit classes.
func (p *Pattern) AllowsUnit(unit string) bool {
	if unit == "" || len(p.unitSet) == 0 {
		return true
	}
	_, ok := p.unitSet[normalizeToken(unit)]
	return ok
}

// Catalog is an immutable registry of patterns, safe to share across
// concurrent extractions.
type Catalog struct {
	patterns []Pattern
}

// New builds a catalog, validating every descriptor: a non-empty type and at
// least one template each.
func New(patterns []Pattern) (*Catalog, error) {
	for i := range patterns {
		p := &patterns[i]
		if p.Type == "" {
			return nil, eris.Errorf("catalog: descriptor %d has empty kpi type", i)
		}
		if len(p.Templates) == 0 {
			return nil, eris.Errorf("catalog: descriptor %q has no templates", p.Type)
		}
		p.unitSet = make(map[string]struct{}, len(p.UnitClasses))
		for _, u := range p.UnitClasses {
			p.unitSet[normalizeToken(u)] = struct{}{}
		}
	}
	return &Catalog{patterns: patterns}, nil
}

// Patterns returns the registered descriptors. Callers must not mutate.
func (c *Catalog) Patterns() []Pattern { return c.patterns }

// Len returns the number of registered descriptors.
func (c *Catalog) Len() int { return len(c.patterns) }

// normalizeToken lowercases a unit token for set membership checks.
func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func mustTemplate(expr string) Template {
	t, err := CompileTemplate(expr)
	if err != nil {
		panic(err)
	}
	return t
}

// scaleUnits are the tokens accepted by most count-style patterns.
var scaleUnits = []string{"thousand", "K", "million", "M", "mil", "billion", "bil"}

// Default returns the built-in pattern catalog.
//
// Template phrasing is deliberately anchored: subscriber counts match
// "ended ... with N million subscribers", not every bare "N million" mention,
// trading recall for precision on the current-period figure.
func Default() *Catalog {
	c, err := New([]Pattern{
		{
			Type:         model.KPISubscribers,
			IndustryHint: "media",
			Templates: []Template{
				mustTemplate(`(?i)ended\s+(?:the\s+)?(?:quarter|year|period|month)\s+with\s+(?P<mag>\d[\d,]*(?:\.\d+)?)\s*(?P<unit>million|billion|thousand)?\s+(?:paid\s+|total\s+|global\s+)?subscribers`),
				mustTemplate(`(?i)subscriber\s+base\s+(?:grew|increased|rose|climbed)\s+to\s+(?P<mag>\d[\d,]*(?:\.\d+)?)\s*(?P<unit>million|billion|thousand)?`),
				mustTemplate(`(?i)total\s+subscribers\s+(?:of|reached|were|stood\s+at)\s+(?P<mag>\d[\d,]*(?:\.\d+)?)\s*(?P<unit>million|billion|thousand)?`),
				mustTemplate(`(?i)(?:added|gained|lost|shed)\s+(?P<mag>\d[\d,]*(?:\.\d+)?)\s*(?P<unit>million|billion|thousand)?\s+(?:net\s+|new\s+)?subscribers`),
			},
			UnitClasses:     scaleUnits,
			ContextKeywords: []string{"ended", "total", "paid", "added", "grew", "reached"},
			ExcludeKeywords: []string{"lost", "shed", "churned", "former"},
		},
		{
			Type:         model.KPIStores,
			IndustryHint: "retail",
			Templates: []Template{
				mustTemplate(`(?i)operated?\s+(?:a\s+total\s+of\s+)?(?P<mag>\d[\d,]*)\s*(?P<unit>thousand)?\s+(?:retail\s+|company-operated\s+)?(?:stores|locations)`),
				mustTemplate(`(?i)(?P<mag>\d[\d,]*)\s*(?P<unit>thousand)?\s+(?:stores|locations)\s+(?:in\s+operation|worldwide|globally|open)`),
				mustTemplate(`(?i)store\s+count\s+(?:of|reached|was|grew\s+to)\s+(?P<mag>\d[\d,]*)\s*(?P<unit>thousand)?`),
				mustTemplate(`(?i)(?:opened|closed)\s+(?P<mag>\d[\d,]*)\s+(?:net\s+)?(?:new\s+)?(?:stores|locations)`),
			},
			UnitClasses:     []string{"thousand", "K"},
			ContextKeywords: []string{"operated", "opened", "worldwide", "count", "total"},
			ExcludeKeywords: []string{"closed", "shuttered", "divested"},
		},
		{
			Type:         model.KPIARPU,
			IndustryHint: "telecom",
			Templates: []Template{
				mustTemplate(`(?i)(?:ARPU|average\s+revenue\s+per\s+user)\s+(?:of|was|reached|came\s+in\s+at)\s+\$?(?P<mag>\d[\d,]*(?:\.\d+)?)`),
				mustTemplate(`(?i)\$(?P<mag>\d[\d,]*(?:\.\d+)?)\s+(?:in\s+)?(?:ARPU|average\s+revenue\s+per\s+user)`),
				mustTemplate(`(?i)(?:ARPU|average\s+revenue\s+per\s+user)\s+(?:grew|increased|declined|decreased)\s+to\s+\$?(?P<mag>\d[\d,]*(?:\.\d+)?)`),
			},
			ContextKeywords: []string{"grew", "increased", "reached", "average"},
			ExcludeKeywords: []string{"declined", "decreased", "excluding"},
		},
		{
			Type:         model.KPIMAU,
			IndustryHint: "internet",
			Templates: []Template{
				mustTemplate(`(?i)(?P<mag>\d[\d,]*(?:\.\d+)?)\s*(?P<unit>million|billion|thousand)?\s+monthly\s+active\s+users`),
				mustTemplate(`(?i)MAUs?\s+(?:of|reached|grew\s+to|were)\s+(?P<mag>\d[\d,]*(?:\.\d+)?)\s*(?P<unit>million|billion|thousand)?`),
			},
			UnitClasses:     scaleUnits,
			ContextKeywords: []string{"monthly", "reached", "grew", "record"},
			ExcludeKeywords: []string{"declined", "down from", "churned"},
		},
		{
			Type:         model.KPIDAU,
			IndustryHint: "internet",
			Templates: []Template{
				mustTemplate(`(?i)(?P<mag>\d[\d,]*(?:\.\d+)?)\s*(?P<unit>million|billion|thousand)?\s+daily\s+active\s+users`),
				mustTemplate(`(?i)DAUs?\s+(?:of|reached|grew\s+to|were)\s+(?P<mag>\d[\d,]*(?:\.\d+)?)\s*(?P<unit>million|billion|thousand)?`),
			},
			UnitClasses:     scaleUnits,
			ContextKeywords: []string{"daily", "reached", "grew", "record"},
			ExcludeKeywords: []string{"declined", "down from", "churned"},
		},
		{
			Type:         model.KPIGGR,
			IndustryHint: "gaming",
			Templates: []Template{
				mustTemplate(`(?i)(?:gross\s+gaming\s+revenue|GGR)\s+(?:of|was|reached|totaled)\s+\$?(?P<mag>\d[\d,]*(?:\.\d+)?)\s*(?P<unit>million|billion|thousand)?`),
				mustTemplate(`(?i)\$(?P<mag>\d[\d,]*(?:\.\d+)?)\s*(?P<unit>million|billion|thousand)?\s+(?:in\s+|of\s+)?(?:gross\s+gaming\s+revenue|GGR)`),
			},
			UnitClasses:     scaleUnits,
			ContextKeywords: []string{"gross", "totaled", "reached", "record"},
			ExcludeKeywords: []string{"excluding", "declined", "prior"},
		},
		{
			Type: model.KPIEmployees,
			Templates: []Template{
				mustTemplate(`(?i)(?:employed|workforce\s+of|headcount\s+of)\s+(?:approximately\s+|about\s+|over\s+)?(?P<mag>\d[\d,]*)\s*(?P<unit>thousand)?\s*(?:full-time\s+)?(?:employees|people)?`),
				mustTemplate(`(?i)(?P<mag>\d[\d,]*)\s*(?P<unit>thousand)?\s+(?:full-time\s+)?employees\s+(?:worldwide|globally|as\s+of)`),
				mustTemplate(`(?i)(?:hired|added|laid\s+off|reduced\s+headcount\s+by)\s+(?P<mag>\d[\d,]*)\s+(?:employees|people)`),
			},
			UnitClasses:     []string{"thousand", "K"},
			ContextKeywords: []string{"employed", "full-time", "worldwide", "hired"},
			ExcludeKeywords: []string{"laid off", "reduced", "former"},
		},
	})
	if err != nil {
		// Built-in descriptors must always validate.
		panic(err)
	}
	return c
}

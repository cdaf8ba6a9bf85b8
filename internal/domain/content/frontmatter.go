package content

// Frontmatter is the metadata block of one Markdown document. Fields left
// empty are treated as absent by the export builder.
type Frontmatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Author      string   `yaml:"author"`
	Tags        []string `yaml:"tags"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description"`
	Summary     string   `yaml:"summary"`
	Featured    bool     `yaml:"featured"`
	Status      string   `yaml:"status"`
	Image       string   `yaml:"image"`
	Images      []string `yaml:"images"`
	Category    string   `yaml:"category"`
	Draft       bool     `yaml:"draft"`
	Authors     []string `yaml:"authors"`
	Layout      string   `yaml:"layout"`

	// Extra keeps every key not listed above. Nothing downstream reads it.
	Extra map[string]Value `yaml:"-"`
}

func DefaultFrontmatter() Frontmatter {
	return Frontmatter{
		Featured: false,
		Status:   "published",
		Draft:    false,
		Extra:    map[string]Value{},
	}
}

// KnownKeys lists the front matter keys decoded into Frontmatter fields.
var KnownKeys = map[string]struct{}{
	"title":       {},
	"date":        {},
	"author":      {},
	"tags":        {},
	"slug":        {},
	"description": {},
	"summary":     {},
	"featured":    {},
	"status":      {},
	"image":       {},
	"images":      {},
	"category":    {},
	"draft":       {},
	"authors":     {},
	"layout":      {},
}

type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueScalar
	ValueSequence
	ValueMapping
)

func (k ValueKind) String() string {
	switch k {
	case ValueScalar:
		return "scalar"
	case ValueSequence:
		return "sequence"
	case ValueMapping:
		return "mapping"
	default:
		return "null"
	}
}

// Value is an untyped front matter value. Scalars keep their source text
// and resolved tag (e.g. "!!int"), so nothing is lost in conversion.
type Value struct {
	Kind   ValueKind
	Tag    string
	Scalar string
	Items  []Value
	Fields map[string]Value
}

// Interface converts v into plain Go values: string, []any or map[string]any.
func (v Value) Interface() any {
	switch v.Kind {
	case ValueScalar:
		return v.Scalar
	case ValueSequence:
		out := make([]any, 0, len(v.Items))
		for _, it := range v.Items {
			out = append(out, it.Interface())
		}
		return out
	case ValueMapping:
		out := make(map[string]any, len(v.Fields))
		for k, f := range v.Fields {
			out[k] = f.Interface()
		}
		return out
	default:
		return nil
	}
}

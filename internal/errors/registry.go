package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	"E001": {
		Category:   CategoryMount,
		Message:    "Host element not found",
		Suggestion: "Check the selector: only #id, .class and tag selectors are supported.",
	},
	"E002": {
		Category:   CategorySource,
		Message:    "Template parse failed",
		Suggestion: "Make sure the template is valid HTML.",
	},
	"E003": {
		Category:   CategorySource,
		Message:    "Data decode failed",
		Suggestion: "Data files must hold a JSON or YAML object at the top level.",
	},
	"E004": {
		Category:   CategorySource,
		Message:    "Source fetch failed",
		Suggestion: "Use a file path or an s3://bucket/key URI.",
	},
	"E005": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration",
		Suggestion: "Run with --help to see the accepted flags.",
	},
	"E006": {
		Category:   CategoryMount,
		Message:    "Instance already mounted",
		Suggestion: "Create a new instance for every host element.",
	},
	"E007": {
		Category:   CategoryLive,
		Message:    "Unknown node path",
		Suggestion: "The page is out of date; reload it.",
	},
}

// Lookup returns the template for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

package layer

import "regexp"

// numberedPrefix strips a leading numeric prefix like "1_", "01-", "2 " from
// a directory or project-name segment before lexicon matching.
var numberedPrefix = regexp.MustCompile(`^\d+[_\-\s]?(.+)$`)

// primaryKeywords lists the exact/substring-match terms for each layer,
// English and Spanish. Numbered prefixes such as "1_" are stripped from a
// segment before it is matched, so no numbered spellings are listed.
var primaryKeywords = map[Kind][]string{
	Presentation: {
		"presentation", "presentacion", "ui", "web", "frontend", "client",
		"views", "viewmodels",
	},
	Services: {
		"services", "servicios", "api", "application", "aplicacion",
	},
	Business: {
		"business", "negocio", "domain", "dominio",
	},
	Data: {
		"data", "datos", "repository", "repositorio", "persistence", "persistencia",
	},
	Shared: {
		"shared", "compartido", "common", "comun", "cross-cutting", "crosscutting",
	},
	Infrastructure: {
		"infrastructure", "infraestructura", "infra",
	},
	Test: {
		"test", "tests", "pruebas", "spec", "specs",
	},
}

// secondaryKeywords lists lower-confidence supporting terms per layer.
var secondaryKeywords = map[Kind][]string{
	Presentation: {"pages", "forms", "screens", "components"},
	Services:     {"endpoints", "controllers", "handlers"},
	Business:     {"rules", "workflows", "usecases"},
	Data:         {"dal", "dao", "migrations"},
	Shared:       {"utils", "utilities", "helpers", "kernel"},
	Infrastructure: {
		"adapters", "gateways", "providers",
	},
	Test: {"fixtures", "mocks", "stubs"},
}

// layerOrder fixes the iteration order over the keyword maps so that
// matching is deterministic when more than one layer's terms could apply.
var layerOrder = []Kind{
	Business, Data, Services, Presentation, Infrastructure, Shared, Test,
}

const (
	primaryExactConfidence      = 0.95
	primarySubstringConfidence  = 0.85
	secondaryConfidence         = 0.70
	numberedPrefixBoost         = 0.05
	numberedPrefixConfidenceCap = 0.98
	directoryStopConfidence     = 0.90
	namingCompoundConfidence    = 0.70
	namingSuffixConfidence      = 0.70
	namingUIConfidence          = 0.70
	namingDefaultConfidence     = 0.30
)

// blocklistedSegments are path segments skipped during the directory pass:
// they carry no architectural meaning of their own.
var blocklistedSegments = map[string]bool{
	"src": true, "source": true, "lib": true, "bin": true, "obj": true,
	"packages": true, "node_modules": true, "vendor": true,
}

// compoundKeywords are naming-pass compound terms that win before suffix or
// general keyword checks, mapped to their layer.
var compoundKeywords = map[string]Kind{
	"dataaccess":         Data,
	"businesscomponents": Business,
	"businessentities":   Business,
	"serviceagents":      Services,
	"crosscutting":       Shared,
}

// suffixKeywords maps a name suffix to its layer. The "business" exception
// (a name also containing "business" is not overridden by a data
// suffix) is applied by the caller, not here.
var suffixKeywords = map[string]Kind{
	".data":       Data,
	".repository": Data,
	".services":   Services,
	".web":        Presentation,
}

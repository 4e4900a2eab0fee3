package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Codec Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryCodec,
		Message:  "Malformed JSON in field",
		Detail:   "A field declared as JSON or raw JSON holds text that does not decode as JSON. The fragment was probably edited by hand or produced by a different encoder.",
		DocURL:   "https://urlstore.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryCodec,
		Message:  "Unparsable number in field",
		Detail:   "A field declared as a number holds text that is not a number. This is only reported when strict number decoding is enabled.",
		DocURL:   "https://urlstore.dev/docs/errors/E002",
	},
	"E004": {
		Category: CategoryCodec,
		Message:  "Field value cannot be encoded as JSON",
		Detail:   "A field declared as JSON holds a value the JSON encoder rejects (channels, functions, cyclic data).",
		DocURL:   "https://urlstore.dev/docs/errors/E004",
	},
	"E005": {
		Category: CategoryCodec,
		Message:  "Unsupported value type in query",
		Detail:   "The query encoder only understands strings, numbers, booleans, nil, maps with string keys and slices.",
		DocURL:   "https://urlstore.dev/docs/errors/E005",
	},

	// ============================================
	// Schema Errors (E003, E006)
	// ============================================

	"E003": {
		Category: CategorySchema,
		Message:  "Field declared under more than one kind",
		Detail:   "Each key may appear in at most one of the boolean, number, JSON and raw JSON key sets.",
		DocURL:   "https://urlstore.dev/docs/errors/E003",
	},
	"E006": {
		Category: CategorySchema,
		Message:  "Store has no location",
		Detail:   "A store needs a Location to read the fragment from and write it back to.",
		DocURL:   "https://urlstore.dev/docs/errors/E006",
	},

	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid urlstore configuration",
		Detail:   "The configuration file is malformed.",
		DocURL:   "https://urlstore.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No urlstore.json or urlstore.yaml was found.",
		DocURL:   "https://urlstore.dev/docs/errors/E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "The configured server port must be between 1 and 65535.",
		DocURL:   "https://urlstore.dev/docs/errors/E122",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Unknown encoding mode",
		Detail:   "The encoding mode must be \"percent\" or \"verbatim\".",
		DocURL:   "https://urlstore.dev/docs/errors/E123",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Invalid input",
		Detail:   "The command line argument could not be parsed.",
		DocURL:   "https://urlstore.dev/docs/errors/E140",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "Path not found in state",
		Detail:   "The requested path does not exist in the decoded state.",
		DocURL:   "https://urlstore.dev/docs/errors/E141",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Path update failed",
		Detail:   "The value could not be written at the requested path.",
		DocURL:   "https://urlstore.dev/docs/errors/E142",
	},

	// ============================================
	// Protocol Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryProtocol,
		Message:  "Invalid location message",
		Detail:   "A message received from the remote location could not be decoded or has an unknown type.",
		DocURL:   "https://urlstore.dev/docs/errors/E160",
	},
	"E161": {
		Category: CategoryProtocol,
		Message:  "Remote location closed",
		Detail:   "The websocket connection to the remote location is closed.",
		DocURL:   "https://urlstore.dev/docs/errors/E161",
	},
	"E162": {
		Category: CategoryProtocol,
		Message:  "Invalid request body",
		Detail:   "The request body is not a JSON object of the expected shape.",
		DocURL:   "https://urlstore.dev/docs/errors/E162",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

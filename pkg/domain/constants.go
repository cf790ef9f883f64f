package domain

// Default bounds applied by the flattener.
const (
	// DefaultMaxDepth is the deepest composite nesting level that is still expanded.
	DefaultMaxDepth = 10

	// DefaultMaxItems is the number of elements kept from a sequence or mapping.
	DefaultMaxItems = 100
)

const (
	// ClosureDescription is the fixed payload of a closure marker.
	ClosureDescription = "Function object"

	// DefaultQueryParam is the request marker that opts a page into console logging.
	DefaultQueryParam = "peek"

	// EnvEnabled is the environment variable consulted by the env gate.
	EnvEnabled = "PEEK_ENABLED"
)

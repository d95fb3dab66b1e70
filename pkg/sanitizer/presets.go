package sanitizer

const (
	// MaxMessageLength caps toast text accepted from clients.
	MaxMessageLength = 500
	// MaxQueryLength caps search input.
	MaxQueryLength = 100
)

var (
	// Message cleans free text a client wants shown in a toast.
	Message = Compose(RemoveControlChars, SingleLine, Limit(MaxMessageLength))

	// Query cleans search input.
	Query = Compose(RemoveControlChars, SingleLine, Limit(MaxQueryLength))
)

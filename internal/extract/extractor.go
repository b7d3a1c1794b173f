package extract

// Extractor defines a minimal interface for heading extraction strategies.
// Implementations can swap parsing tactics without changing callers.
type Extractor interface {
    // Extract converts raw HTML bytes into headings in document order.
    // Implementations should be deterministic and avoid side effects.
    Extract(input []byte) []Heading
}

// HeadingExtractor walks the parsed HTML tree with Headings.
type HeadingExtractor struct{}

func (HeadingExtractor) Extract(input []byte) []Heading {
    return Headings(input)
}

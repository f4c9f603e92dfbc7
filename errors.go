package lucendra

import "fmt"

func errFieldRequired(variant string) error {
	return errRequired(variant, "field")
}

func errRequired(variant, field string) error {
	return fmt.Errorf("lucendra: %s: %s is required", variant, field)
}

// Decode kinds, used in DecodeError to tell the variant sets apart.
const (
	kindCondition      = "condition"
	kindPartitioner    = "partitioner"
	kindTransformation = "transformation"
	kindSearch         = "search"
	kindIndex          = "index"
)

// DecodeError reports a failure to reconstruct a variant from its tagged
// JSON form: an unknown discriminator, a missing required field, or a field
// value the constructor rejected.
type DecodeError struct {
	Kind          string // which variant set was being decoded
	Discriminator string // discriminator value, empty if absent or unknown before dispatch
	Field         string // offending field, empty for discriminator problems
	Reason        string
}

func (e *DecodeError) Error() string {
	switch {
	case e.Discriminator == "" && e.Field == "":
		return fmt.Sprintf("lucendra: decode %s: %s", e.Kind, e.Reason)
	case e.Field == "":
		return fmt.Sprintf("lucendra: decode %s %q: %s", e.Kind, e.Discriminator, e.Reason)
	case e.Discriminator == "":
		return fmt.Sprintf("lucendra: decode %s: field %q: %s", e.Kind, e.Field, e.Reason)
	default:
		return fmt.Sprintf("lucendra: decode %s %q: field %q: %s", e.Kind, e.Discriminator, e.Field, e.Reason)
	}
}

func unknownDiscriminator(kind, discriminator string) *DecodeError {
	return &DecodeError{Kind: kind, Discriminator: discriminator, Reason: "unknown discriminator"}
}

func missingField(kind, discriminator, field string) *DecodeError {
	return &DecodeError{Kind: kind, Discriminator: discriminator, Field: field, Reason: "missing required field"}
}

func rejectedField(kind, discriminator, field string, err error) *DecodeError {
	return &DecodeError{Kind: kind, Discriminator: discriminator, Field: field, Reason: err.Error()}
}

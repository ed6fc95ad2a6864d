package scoring

import "strings"

// Category classifies a template by its name.
type Category int

const (
	Normal Category = iota
	Director
	Etsuko
	Rainbow
	Hint
	NotFull
)

func (c Category) String() string {
	switch c {
	case Normal:
		return "normal"
	case Director:
		return "director"
	case Etsuko:
		return "etsuko"
	case Rainbow:
		return "rainbow"
	case Hint:
		return "hint"
	case NotFull:
		return "notfull"
	default:
		return "unknown"
	}
}

// classifyOrder lists the substring categories by priority; the first hit wins.
var classifyOrder = []Category{Director, Etsuko, Rainbow, Hint, NotFull}

// Classify maps a template name to its category using a case-insensitive
// substring search in priority order director > etsuko > rainbow > hint >
// notfull. Names matching none of them are Normal.
func Classify(name string) Category {
	lower := strings.ToLower(name)
	for _, c := range classifyOrder {
		if strings.Contains(lower, c.String()) {
			return c
		}
	}
	return Normal
}

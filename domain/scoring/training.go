package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/soocke/training-overlay/domain/vision"
)

// Category weights.
const (
	weightNormal   = 1.0
	weightDirector = 0.5
	weightEtsuko   = 0.5
	weightHint     = 0.5 // applied once regardless of count
	weightRainbow  = 2.0
	weightNotFull  = 0.5
)

// Breakdown is the per-category count for one cycle plus the resulting value.
type Breakdown struct {
	Normal   int
	Director int
	Etsuko   int
	Hint     int
	NotFull  int
	Rainbow  int
	Stat     string
	Value    float64
}

// Total returns the number of counted matches across all categories.
func (b Breakdown) Total() int {
	return b.Normal + b.Director + b.Etsuko + b.Hint + b.NotFull + b.Rainbow
}

// Counts returns the breakdown as a category map.
func (b Breakdown) Counts() map[Category]int {
	return map[Category]int{
		Normal:   b.Normal,
		Director: b.Director,
		Etsuko:   b.Etsuko,
		Hint:     b.Hint,
		NotFull:  b.NotFull,
		Rainbow:  b.Rainbow,
	}
}

func (b Breakdown) String() string {
	return fmt.Sprintf("%s: normal=%d director=%d etsuko=%d hint=%d notfull=%d rainbow=%d value=%v",
		b.Stat, b.Normal, b.Director, b.Etsuko, b.Hint, b.NotFull, b.Rainbow, b.Value)
}

// CalculateTraining classifies every match and returns the training value for
// stat together with the category breakdown.
func CalculateTraining(matches []vision.Match, stat string) (float64, Breakdown) {
	counts := make(map[Category]int, 6)
	for _, m := range matches {
		counts[Classify(m.Template)]++
	}
	b := FromCounts(counts, stat)
	return b.Value, b
}

// FromCounts computes the breakdown for already classified counts. Negative
// counts are treated as zero.
func FromCounts(counts map[Category]int, stat string) Breakdown {
	get := func(c Category) int { return max(counts[c], 0) }
	b := Breakdown{
		Normal:   get(Normal),
		Director: get(Director),
		Etsuko:   get(Etsuko),
		Hint:     get(Hint),
		NotFull:  get(NotFull),
		Rainbow:  get(Rainbow),
		Stat:     stat,
	}
	v := float64(b.Normal)*weightNormal +
		float64(b.Director)*weightDirector +
		float64(b.Etsuko)*weightEtsuko +
		float64(b.Rainbow)*weightRainbow +
		float64(b.NotFull)*weightNotFull
	if b.Hint > 0 {
		v += weightHint
	}
	if b.Total() > 0 {
		v += StatBonus(stat)
	}
	b.Value = Round2(v)
	return b
}

// StatBonus returns the flat bonus added for stat when a cycle has any match.
func StatBonus(stat string) float64 {
	switch strings.ToLower(strings.TrimSpace(stat)) {
	case "speed":
		return 1.0
	case "stamina", "power", "wits":
		return 0.5
	default:
		return 0
	}
}

// Round2 rounds v to two decimals, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DisplayNames builds the overlay name list for a cycle. Names of normal,
// director, etsuko and notfull matches keep their MatchSet order. Rainbow
// matches collapse into one leading entry and hint matches into one trailing
// entry.
func DisplayNames(matches []vision.Match, b Breakdown) []string {
	names := make([]string, 0, len(matches)+2)
	if b.Rainbow > 1 {
		names = append(names, fmt.Sprintf("rainbow × %d", b.Rainbow))
	} else if b.Rainbow == 1 {
		names = append(names, "rainbow")
	}
	for _, m := range matches {
		switch Classify(m.Template) {
		case Rainbow, Hint:
			continue
		}
		names = append(names, m.Template)
	}
	if b.Hint > 0 {
		names = append(names, "hint")
	}
	return names
}

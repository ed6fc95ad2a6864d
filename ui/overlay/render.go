package overlay

import (
	"strconv"
	"strings"
)

const (
	noData       = "No data"
	noMatches    = "None"
	goodTraining = "  Good training."
)

// Render formats entries as overlay text. Each stat becomes
//
//	{stat}:
//	  Matches: {names}
//	  Training value: {value}
//
// with "  Good training." appended to the value line when the value exceeds
// good. An empty list renders as "No data".
func Render(entries []Entry, good float64) string {
	if len(entries) == 0 {
		return noData
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		names := noMatches
		if len(e.DisplayNames) > 0 {
			names = strings.Join(e.DisplayNames, ", ")
		}
		b.WriteString(e.Stat)
		b.WriteString(":\n  Matches: ")
		b.WriteString(names)
		b.WriteString("\n  Training value: ")
		b.WriteString(FormatValue(e.TrainingValue))
		if e.TrainingValue > good {
			b.WriteString(goodTraining)
		}
	}
	return b.String()
}

// FormatValue prints v with the shortest exact representation and at least
// one decimal place (5.5, 0.0, 3.25, 10.0).
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

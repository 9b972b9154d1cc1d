package attendance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type PunchType string

const (
	PunchTypeIn      PunchType = "IN"
	PunchTypeOut     PunchType = "OUT"
	PunchTypeUnknown PunchType = "UNKNOWN"

	// ZeroDuration is reported whenever a total cannot be computed.
	ZeroDuration = "00:00"
)

var clockPattern = regexp.MustCompile(`\d{2}:\d{2}`)

// Punch is one entry of a device export such as "09:13 (IN 1)".
type Punch struct {
	Raw  string
	Time string // HH:MM, empty when the entry carries no time
	Type PunchType
}

// CleanPunchRecords splits a comma separated export, drops empty entries and
// removes duplicates. Runs of whitespace compare as a single space, so
// "09:00  (IN)" repeats "09:00 (IN)" but "09:00(IN)" does not. The first
// occurrence is kept in its original form.
func CleanPunchRecords(records string) []string {
	var punches []string
	seen := make(map[string]struct{})

	for _, p := range strings.Split(records, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key := strings.Join(strings.Fields(p), " ")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		punches = append(punches, p)
	}
	return punches
}

func ParsePunch(raw string) Punch {
	lower := strings.ToLower(raw)

	punchType := PunchTypeUnknown
	switch {
	case strings.Contains(lower, "(in"):
		punchType = PunchTypeIn
	case strings.Contains(lower, "(out"):
		punchType = PunchTypeOut
	}

	return Punch{
		Raw:  raw,
		Time: clockPattern.FindString(raw),
		Type: punchType,
	}
}

// ParsePunchRecords cleans then parses an export.
func ParsePunchRecords(records string) []Punch {
	cleaned := CleanPunchRecords(records)
	punches := make([]Punch, 0, len(cleaned))
	for _, raw := range cleaned {
		punches = append(punches, ParsePunch(raw))
	}
	return punches
}

// TotalHours is the span from the first IN to the last OUT as HH:MM.
func TotalHours(punches []Punch) string {
	firstIn, lastOut := bounds(punches)
	if firstIn == nil || lastOut == nil {
		return ZeroDuration
	}

	in, okIn := minutesOf(firstIn.Time)
	out, okOut := minutesOf(lastOut.Time)
	if !okIn || !okOut || out < in {
		return ZeroDuration
	}

	total := out - in
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func bounds(punches []Punch) (firstIn, lastOut *Punch) {
	for i := range punches {
		switch punches[i].Type {
		case PunchTypeIn:
			if firstIn == nil {
				firstIn = &punches[i]
			}
		case PunchTypeOut:
			lastOut = &punches[i]
		}
	}
	return firstIn, lastOut
}

func minutesOf(clock string) (int, bool) {
	if len(clock) != 5 {
		return 0, false
	}
	h, errH := strconv.Atoi(clock[:2])
	m, errM := strconv.Atoi(clock[3:])
	if errH != nil || errM != nil {
		return 0, false
	}
	return h*60 + m, true
}

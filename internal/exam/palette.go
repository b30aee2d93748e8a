package exam

// Tone is the visual treatment of a palette entry.
type Tone string

const (
	ToneGray        Tone = "gray"
	ToneRed         Tone = "red"
	TonePurple      Tone = "purple"
	TonePurpleCheck Tone = "purple-check"
	ToneGreen       Tone = "green"
)

// ToneOf returns the palette tone of a status.
func ToneOf(s Status) Tone {
	switch s {
	case StatusAnswered:
		return ToneGreen
	case StatusNotAnswered:
		return ToneRed
	case StatusMarkedForReview:
		return TonePurple
	case StatusAnsweredAndMarked:
		return TonePurpleCheck
	default:
		return ToneGray
	}
}

// PaletteEntry is one cell of the question palette.
type PaletteEntry struct {
	Index   int    `json:"index"`
	Label   int    `json:"label"`
	Number  int    `json:"number"`
	Status  Status `json:"status"`
	Tone    Tone   `json:"tone"`
	Current bool   `json:"current"`
}

// Palette is the navigation grid plus the legend counts.
type Palette struct {
	Entries []PaletteEntry `json:"entries"`
	Counts  map[Status]int `json:"counts"`
	Marked  int            `json:"marked"`
}

// BuildPalette derives the palette from committed answer states. Counts are
// computed from answers on every call.
func BuildPalette(questions []Question, answers []AnswerState, current int) Palette {
	p := Palette{
		Entries: make([]PaletteEntry, len(answers)),
		Counts:  make(map[Status]int, len(Statuses)),
	}
	for _, st := range Statuses {
		p.Counts[st] = 0
	}

	for i, a := range answers {
		entry := PaletteEntry{
			Index:   i,
			Label:   i + 1,
			Status:  a.Status,
			Tone:    ToneOf(a.Status),
			Current: i == current,
		}
		if i < len(questions) {
			entry.Number = questions[i].Number
		}
		p.Entries[i] = entry
		p.Counts[a.Status]++
		if a.Status.Marked() {
			p.Marked++
		}
	}
	return p
}

// Palette returns the palette of the session.
func (s *Session) Palette() Palette {
	return BuildPalette(s.questions, s.answers, s.current)
}

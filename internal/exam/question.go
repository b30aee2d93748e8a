package exam

// RawQuestion is a question exactly as the catalog stores it.
type RawQuestion struct {
	ID           string   `json:"id"`
	PaperID      string   `json:"paper_id"`
	Number       int      `json:"number"`
	Subject      string   `json:"subject,omitempty"`
	Section      string   `json:"section,omitempty"`
	QuestionType string   `json:"question_type,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	PassageID    string   `json:"passage_id,omitempty"`
	Instruction  string   `json:"instruction,omitempty"`
	Statement    string   `json:"statement"`
	Texts        []string `json:"texts,omitempty"`
	Options      []string `json:"options"`
	Answer       string   `json:"answer"`
	Marks        int      `json:"marks,omitempty"`
	ImageURLs    []string `json:"image_urls,omitempty"`
	ImageAlt     string   `json:"image_alt,omitempty"`
}

// Passage is a comprehension text shared by several questions of a paper.
type Passage struct {
	ID      string `json:"id"`
	PaperID string `json:"paper_id"`
	Section string `json:"section,omitempty"`
	Text    string `json:"text"`
	Source  string `json:"source,omitempty"`
}

// Question is a RawQuestion after its passage has been joined in.
// It is what a Session works with and is never mutated once loaded.
type Question struct {
	RawQuestion
	PassageText string `json:"passage_text,omitempty"`
}

// OptionLetter maps an option position to its key: 0 -> "A", 1 -> "B", ...
func OptionLetter(pos int) string {
	return string(rune('A' + pos))
}

// OptionIndex returns the position of the option whose text is exactly
// text, or -1 when none matches.
func (q Question) OptionIndex(text string) int {
	for i, opt := range q.Options {
		if opt == text {
			return i
		}
	}
	return -1
}

// IsCorrect reports whether response selects the option keyed by q.Answer.
func (q Question) IsCorrect(response string) bool {
	idx := q.OptionIndex(response)
	if idx < 0 {
		return false
	}
	return OptionLetter(idx) == q.Answer
}

type passageKey struct {
	paperID string
	id      string
}

// Enrich joins passages onto raw questions. Passages are matched by
// (paper, passage id) so ids that repeat across papers do not collide.
// A question whose passage is missing is kept without passage text.
func Enrich(raws []RawQuestion, passages []Passage) []Question {
	byKey := make(map[passageKey]string, len(passages))
	for _, p := range passages {
		byKey[passageKey{p.PaperID, p.ID}] = p.Text
	}

	out := make([]Question, len(raws))
	for i, raw := range raws {
		out[i] = Question{RawQuestion: raw}
		if raw.PassageID != "" {
			out[i].PassageText = byKey[passageKey{raw.PaperID, raw.PassageID}]
		}
	}
	return out
}

// PassageIDs returns the distinct passage ids referenced by raws, in
// first-seen order.
func PassageIDs(raws []RawQuestion) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, raw := range raws {
		if raw.PassageID == "" {
			continue
		}
		if _, ok := seen[raw.PassageID]; ok {
			continue
		}
		seen[raw.PassageID] = struct{}{}
		ids = append(ids, raw.PassageID)
	}
	return ids
}

// Dedupe drops questions whose id was already seen. The first occurrence
// wins and the relative order of the survivors is preserved.
func Dedupe(questions []Question) []Question {
	seen := make(map[string]struct{}, len(questions))
	out := make([]Question, 0, len(questions))
	for _, q := range questions {
		if _, ok := seen[q.ID]; ok {
			continue
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
	}
	return out
}

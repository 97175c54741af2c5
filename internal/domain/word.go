package domain

import "time"

// Term is one confirmed vocabulary entry in the lexicon.
type Term struct {
	Term       string    `json:"term"`
	Pinyin     string    `json:"pinyin,omitempty"`
	Definition string    `json:"definition,omitempty"`
	SourceFile string    `json:"source_file,omitempty"`
	ImportedAt time.Time `json:"imported_at"`
}

// Verdict is the provider's judgment of one candidate combination.
// Combination is globally unique in the verification log; a second write for
// the same combination is ignored, not an error.
type Verdict struct {
	Combination    string    `json:"combination"`
	IsWord         bool      `json:"is_word"`
	Definition     *string   `json:"definition"`
	Source         *string   `json:"source"`
	CheckedByModel string    `json:"checked_by_model"`
	CreatedAt      time.Time `json:"created_at"`
}

// VerifiedWord is a combination the provider confirmed as a real word,
// with its supporting metadata.
type VerifiedWord struct {
	Word       string  `json:"word"`
	Definition string  `json:"definition"`
	Source     *string `json:"source"`
}

// RoundReport is the outcome of one generate-verify-persist round.
// Either Error is set, or Valid/Invalid describe the verdicts obtained.
// A round whose provider call failed still lists its candidates in Invalid
// so they never vanish silently.
type RoundReport struct {
	Round      int            `json:"round"`
	Requested  int            `json:"requested"`
	Generated  int            `json:"generated"`
	Valid      []VerifiedWord `json:"valid,omitempty"`
	Invalid    []string       `json:"invalid,omitempty"`
	Error      string         `json:"error,omitempty"`
	Unverified bool           `json:"unverified,omitempty"`
}

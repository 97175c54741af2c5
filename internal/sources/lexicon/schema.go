package lexicon

// TermFile is the top-level structure of one lexicon source YAML file.
type TermFile struct {
	Source string      `yaml:"source"` // collection name, ex: "brainhole"
	Terms  []TermEntry `yaml:"terms"`
}

// TermEntry is one vocabulary entry in a source file.
type TermEntry struct {
	Term       string `yaml:"term"`
	Pinyin     string `yaml:"pinyin,omitempty"`
	Definition string `yaml:"definition,omitempty"`
}

package lexicon

import (
	"fmt"
	"path/filepath"
	"strings"

	"wordforge/internal/domain"
)

// Mapper converts parsed source files to lexicon terms.
type Mapper struct{}

// NewMapper creates a mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapTerms converts one parsed file into domain terms. Entries without a
// term are skipped; a file that yields nothing is an error so a broken
// source file is noticed at import time.
func (m *Mapper) MapTerms(file TermFile, filePath string) ([]domain.Term, error) {
	sourceFile := file.Source
	if sourceFile == "" {
		sourceFile = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}

	var terms []domain.Term
	for _, entry := range file.Terms {
		term := strings.TrimSpace(entry.Term)
		if term == "" {
			continue
		}
		terms = append(terms, domain.Term{
			Term:       term,
			Pinyin:     strings.TrimSpace(entry.Pinyin),
			Definition: strings.TrimSpace(entry.Definition),
			SourceFile: sourceFile,
		})
	}

	if len(terms) == 0 {
		return nil, fmt.Errorf("no valid terms found in %s", filePath)
	}
	return terms, nil
}

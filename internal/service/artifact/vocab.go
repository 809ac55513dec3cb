package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"RetailPulse/internal/services/features"
)

// LoadVocabulary reads the encoding vocabulary shipped next to the model
// artifacts. The one-hot columns of the trained models are only valid for
// exactly this product/location universe.
func LoadVocabulary(dir, file string) (features.Vocabulary, error) {
	var v features.Vocabulary
	b, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return v, fmt.Errorf("read vocabulary %s: %w", file, err)
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("parse vocabulary %s: %w", file, err)
	}
	if len(v.Products) == 0 || len(v.Locations) == 0 {
		return v, fmt.Errorf("vocabulary %s: products and locations must be non-empty", file)
	}
	return v, nil
}

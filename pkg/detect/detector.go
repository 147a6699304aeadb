// Package detect finds cloud service names in free-form analysis text.
package detect

import (
	"github.com/rs/zerolog"
	"github.com/younsl/archcost/internal/models"
	"github.com/younsl/archcost/pkg/catalog"
)

// Union runs every heuristic and merges their findings. A failing heuristic
// is logged and skipped; it never aborts detection.
type Union struct {
	heuristics []Heuristic
	logger     zerolog.Logger
}

// NewUnion combines heuristics
func NewUnion(logger zerolog.Logger, heuristics ...Heuristic) *Union {
	return &Union{heuristics: heuristics, logger: logger}
}

// Detect returns the deduplicated union of all heuristic results
func (u *Union) Detect(text string) models.ServiceSet {
	services := models.NewServiceSet()
	if text == "" {
		return services
	}

	for _, h := range u.heuristics {
		found, err := h.Detect(text)
		if err != nil {
			u.logger.Warn().Err(err).Str("heuristic", h.Name()).Msg("Skipping service detection heuristic")
			continue
		}
		for _, name := range found {
			services.Add(name)
		}
		u.logger.Debug().Str("heuristic", h.Name()).Strs("found", found).Msg("Heuristic finished")
	}

	return services
}

// NewDetector wires the five standard heuristics against a catalog
func NewDetector(c *catalog.ServiceCatalog, logger zerolog.Logger) *Union {
	return NewUnion(logger,
		NewCatalogRegex(c),
		VendorPhrase{},
		NewDiagramCaption(c),
		LegacyRegex{},
		OverrideSubstring{},
	)
}

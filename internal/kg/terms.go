package kg

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Terms holds the dictionaries the builder matches against publication text.
// Each list is matched as a lowercase substring.
type Terms struct {
	BioSystems  []string `toml:"bio_systems"`
	Effects     []string `toml:"effects"`
	Experiments []string `toml:"experiments"`
	Projects    []string `toml:"projects"`
}

// DefaultTerms returns the built-in dictionaries for the space-bioscience
// domain.
func DefaultTerms() Terms {
	return Terms{
		BioSystems: []string{
			"human", "astronaut", "crew", "mouse", "mice", "rodent", "rat", "rats",
			"plant", "arabidopsis", "seedling", "yeast", "drosophila", "zebrafish",
			"cell", "cells", "endothelial", "osteoblast", "osteoclast", "tissue",
		},
		Effects: []string{
			"bone density", "bone loss", "muscle atrophy", "immune response",
			"gene expression", "oxidative stress", "radiation damage", "microgravity adaptation",
			"growth", "cell proliferation", "apoptosis", "inflammation", "tumor", "dna damage",
		},
		Experiments: []string{
			"experiment", "study", "mission", "flight", "spaceflight", "iss", "shuttle",
			"ground control", "exposure", "radiation", "microgravity",
		},
		Projects: []string{
			"project", "grant", "award", "bps", "hrp", "task book", "nasa task book",
		},
	}
}

// LoadTerms reads dictionaries from a TOML file, falling back to the
// defaults when path is empty or the file does not exist. Lists present in
// the file replace the corresponding defaults; absent lists keep them.
func LoadTerms(path string) (Terms, error) {
	defaults := DefaultTerms()
	if path == "" {
		return defaults, nil
	}

	var loaded Terms
	if _, err := toml.DecodeFile(path, &loaded); err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return Terms{}, fmt.Errorf("load term dictionaries: %w", err)
	}

	if loaded.BioSystems != nil {
		defaults.BioSystems = loaded.BioSystems
	}
	if loaded.Effects != nil {
		defaults.Effects = loaded.Effects
	}
	if loaded.Experiments != nil {
		defaults.Experiments = loaded.Experiments
	}
	if loaded.Projects != nil {
		defaults.Projects = loaded.Projects
	}
	return defaults, nil
}

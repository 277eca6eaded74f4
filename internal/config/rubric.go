package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/woolshed/flockmark/internal/domain/scoring"
)

// LoadRubric reads a rubric definition from a YAML file and validates it.
//
// Expected shape:
//
//	classification_points:
//	  stud: 8
//	  flock: 6
//	  second_flock: 4
//	criteria:
//	  - id: woolMicron
//	    name: Wool Micron
//	    enabled: true
//	    operator: less
//	    upper_limit: 19
//	    upper_limit2: 21
func LoadRubric(path string) (scoring.Rubric, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return scoring.Rubric{}, fmt.Errorf("%w: %w", ErrLoadRubric, err)
	}
	var rubric scoring.Rubric
	if err := k.UnmarshalWithConf("", &rubric, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return scoring.Rubric{}, fmt.Errorf("%w: %w", ErrLoadRubric, err)
	}
	if err := rubric.Validate(); err != nil {
		return scoring.Rubric{}, fmt.Errorf("%w: %w", ErrLoadRubric, err)
	}
	return rubric, nil
}

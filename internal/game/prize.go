package game

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Probability is the coarse chance class of a prize.
type Probability string

const (
	ProbabilityLow    Probability = "low"
	ProbabilityMedium Probability = "medium"
	ProbabilityHigh   Probability = "high"
)

// Valid reports whether p is one of the known classes.
func (p Probability) Valid() bool {
	switch p {
	case ProbabilityLow, ProbabilityMedium, ProbabilityHigh:
		return true
	}
	return false
}

// CoinsRange makes the displayed prize name carry a random coin amount.
type CoinsRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Prize is one entry of a lottery prize list.
type Prize struct {
	Name           string      `json:"name" yaml:"name"`
	StudentsChange int         `json:"students_change" yaml:"students_change"`
	ValeraChange   int         `json:"valera_change" yaml:"valera_change"`
	Probability    Probability `json:"probability" yaml:"probability"`
	CoinsRange     *CoinsRange `json:"coins_range,omitempty" yaml:"coins_range,omitempty"`
}

// Normalize fills the defaults of a prize.
func (p Prize) Normalize() Prize {
	if !p.Probability.Valid() {
		p.Probability = ProbabilityMedium
	}
	if p.CoinsRange != nil && p.CoinsRange.Max < p.CoinsRange.Min {
		p.CoinsRange = &CoinsRange{Min: p.CoinsRange.Max, Max: p.CoinsRange.Min}
	}
	return p
}

var firstNumber = regexp.MustCompile(`\d+`)

// DisplayName returns the text shown for a drawn prize. Prizes with a coins
// range get their first number replaced by a random amount from the range.
func (p Prize) DisplayName(rng RandomSource) string {
	if p.CoinsRange == nil || rng == nil {
		return p.Name
	}
	span := p.CoinsRange.Max - p.CoinsRange.Min + 1
	amount := p.CoinsRange.Min + intn(rng, span)
	loc := firstNumber.FindStringIndex(p.Name)
	if loc == nil {
		return p.Name
	}
	return p.Name[:loc[0]] + strconv.Itoa(amount) + p.Name[loc[1]:]
}

// UnmarshalYAML accepts either a bare prize name or a full mapping.
func (p *Prize) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*p = Prize{Name: value.Value}.Normalize()
		return nil
	}
	type plain Prize
	var out plain
	if err := value.Decode(&out); err != nil {
		return err
	}
	*p = Prize(out).Normalize()
	return nil
}

// ParsePrize reads a prize injected either as a plain name or as a JSON
// object. Data that looks like JSON but cannot be parsed degrades to a
// name-only prize carrying the raw text.
func ParsePrize(raw string) Prize {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return Prize{Name: trimmed}.Normalize()
	}
	if !gjson.Valid(trimmed) {
		return Prize{Name: fallbackName(trimmed)}.Normalize()
	}
	doc := gjson.Parse(trimmed)
	name := doc.Get("name").String()
	if name == "" {
		return Prize{Name: fallbackName(trimmed)}.Normalize()
	}
	p := Prize{
		Name:           name,
		StudentsChange: int(doc.Get("students_change").Int()),
		ValeraChange:   int(doc.Get("valera_change").Int()),
		Probability:    Probability(strings.ToLower(doc.Get("probability").String())),
	}
	if r := doc.Get("coins_range"); r.Exists() {
		p.CoinsRange = &CoinsRange{Min: int(r.Get("min").Int()), Max: int(r.Get("max").Int())}
	}
	return p.Normalize()
}

// ParsePrizes parses a list of injected prizes, skipping blank entries.
func ParsePrizes(raw []string) []Prize {
	prizes := make([]Prize, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		prizes = append(prizes, ParsePrize(r))
	}
	return prizes
}

// fallbackName pulls a "name" value out of broken JSON when it is still
// recognisable, otherwise it returns the text unchanged.
func fallbackName(raw string) string {
	if m := brokenName.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}

var brokenName = regexp.MustCompile(`"name"\s*:\s*"([^"]*)"`)

func (p Prize) String() string {
	return fmt.Sprintf("%s (%s, students %+d, valera %+d)", p.Name, p.Probability, p.StudentsChange, p.ValeraChange)
}

// Package plans holds the authoritative catalog of investment plans.
package plans

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// DefaultDurationDays is the fixed term of every plan in the default catalog.
const DefaultDurationDays = 7

// ErrUnknownPlan is returned when a plan name is not in the catalog.
var ErrUnknownPlan = errors.New("unknown investment plan")

// Plan is a named investment tier.
type Plan struct {
	Name          string              `json:"name"`
	MinInvestment decimal.Decimal     `json:"min_investment"`
	MaxInvestment decimal.NullDecimal `json:"max_investment"`
	DailyRate     decimal.Decimal     `json:"daily_rate"`
	DurationDays  int                 `json:"duration_days"`
}

// Accepts reports whether amount lies within the plan's bounds. A plan
// without a maximum accepts any amount at or above its minimum.
func (p Plan) Accepts(amount decimal.Decimal) bool {
	if amount.LessThan(p.MinInvestment) {
		return false
	}
	if p.MaxInvestment.Valid && amount.GreaterThan(p.MaxInvestment.Decimal) {
		return false
	}
	return true
}

// ExpectedProfit is the total profit the plan pays on amount at maturity.
func (p Plan) ExpectedProfit(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.DailyRate).Mul(decimal.NewFromInt(int64(p.DurationDays)))
}

// Catalog is an ordered, immutable list of plans.
type Catalog struct {
	plans []Plan
}

// NewCatalog builds a catalog, rejecting duplicate names and invalid terms.
func NewCatalog(plans []Plan) (*Catalog, error) {
	seen := make(map[string]struct{}, len(plans))
	for i, p := range plans {
		if p.Name == "" {
			return nil, fmt.Errorf("plan at index %d missing name", i)
		}
		if _, ok := seen[p.Name]; ok {
			return nil, fmt.Errorf("duplicate plan %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		if p.DurationDays <= 0 {
			return nil, fmt.Errorf("plan %q: duration must be positive", p.Name)
		}
		if !p.DailyRate.IsPositive() {
			return nil, fmt.Errorf("plan %q: daily rate must be positive", p.Name)
		}
		if p.MinInvestment.IsNegative() {
			return nil, fmt.Errorf("plan %q: minimum must not be negative", p.Name)
		}
		if p.MaxInvestment.Valid && p.MaxInvestment.Decimal.LessThan(p.MinInvestment) {
			return nil, fmt.Errorf("plan %q: maximum below minimum", p.Name)
		}
	}
	return &Catalog{plans: append([]Plan(nil), plans...)}, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := NewCatalog([]Plan{
		{Name: "Starter Plan", MinInvestment: decimal.NewFromInt(300), MaxInvestment: upTo(999), DailyRate: decimal.RequireFromString("0.04"), DurationDays: DefaultDurationDays},
		{Name: "Silver Plan", MinInvestment: decimal.NewFromInt(1000), MaxInvestment: upTo(4999), DailyRate: decimal.RequireFromString("0.06"), DurationDays: DefaultDurationDays},
		{Name: "Gold Plan", MinInvestment: decimal.NewFromInt(5000), MaxInvestment: upTo(9999), DailyRate: decimal.RequireFromString("0.08"), DurationDays: DefaultDurationDays},
		{Name: "VIP Plan", MinInvestment: decimal.NewFromInt(10000), DailyRate: decimal.RequireFromString("0.10"), DurationDays: DefaultDurationDays},
	})
	if err != nil {
		panic(err)
	}
	return c
}

func upTo(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

// Lookup finds a plan by exact name.
func (c *Catalog) Lookup(name string) (Plan, error) {
	for _, p := range c.plans {
		if p.Name == name {
			return p, nil
		}
	}
	return Plan{}, fmt.Errorf("%w: %q", ErrUnknownPlan, name)
}

// All returns the plans in catalog order.
func (c *Catalog) All() []Plan {
	return append([]Plan(nil), c.plans...)
}

type planFile struct {
	Plans []planEntry `yaml:"plans"`
}

type planEntry struct {
	Name          string `yaml:"name"`
	MinInvestment string `yaml:"min_investment"`
	MaxInvestment string `yaml:"max_investment"`
	DailyRate     string `yaml:"daily_rate"`
	DurationDays  int    `yaml:"duration_days"`
}

// Load reads a catalog from a YAML file. A relative path is resolved against
// the working directory. An empty max_investment means unlimited and a zero
// duration_days falls back to DefaultDurationDays.
func Load(path string) (*Catalog, error) {
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file planFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse plan catalog: %w", err)
	}
	if len(file.Plans) == 0 {
		return nil, errors.New("plan catalog is empty")
	}

	plans := make([]Plan, 0, len(file.Plans))
	for i, e := range file.Plans {
		minimum, err := decimal.NewFromString(e.MinInvestment)
		if err != nil {
			return nil, fmt.Errorf("plan at index %d: invalid min_investment %q: %w", i, e.MinInvestment, err)
		}
		rate, err := decimal.NewFromString(e.DailyRate)
		if err != nil {
			return nil, fmt.Errorf("plan at index %d: invalid daily_rate %q: %w", i, e.DailyRate, err)
		}
		var maximum decimal.NullDecimal
		if e.MaxInvestment != "" {
			m, err := decimal.NewFromString(e.MaxInvestment)
			if err != nil {
				return nil, fmt.Errorf("plan at index %d: invalid max_investment %q: %w", i, e.MaxInvestment, err)
			}
			maximum = decimal.NewNullDecimal(m)
		}
		duration := e.DurationDays
		if duration == 0 {
			duration = DefaultDurationDays
		}
		plans = append(plans, Plan{
			Name:          e.Name,
			MinInvestment: minimum,
			MaxInvestment: maximum,
			DailyRate:     rate,
			DurationDays:  duration,
		})
	}
	return NewCatalog(plans)
}

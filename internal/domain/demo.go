package domain

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/dom/plantally/internal/schedule"
	"gopkg.in/yaml.v3"
)

//go:embed demo_plants.yaml
var demoPlantsYAML []byte

type demoCatalog struct {
	Plants []demoPlant `yaml:"plants"`
}

type demoPlant struct {
	Name               string       `yaml:"name"`
	ScientificName     string       `yaml:"scientificName"`
	Location           string       `yaml:"location"`
	LightLevel         string       `yaml:"lightLevel"`
	WaterFrequencyDays int          `yaml:"waterFrequencyDays"`
	LastWateredDaysAgo int          `yaml:"lastWateredDaysAgo"`
	Humidity           int          `yaml:"humidity"`
	Health             int          `yaml:"health"`
	History            []demoRecord `yaml:"history"`
}

type demoRecord struct {
	Date  string `yaml:"date"`
	Value int    `yaml:"value"`
}

// DemoSeeder produces the canned plants for a demo session started at now.
type DemoSeeder func(now time.Time) ([]*Plant, error)

// DefaultDemoPlants seeds the embedded catalog.
func DefaultDemoPlants(now time.Time) ([]*Plant, error) {
	return ParseDemoPlants(demoPlantsYAML, now)
}

// ParseDemoPlants decodes a YAML catalog. Each plant was last watered
// lastWateredDaysAgo days before now, and its next watering follows from its
// frequency so the schedule invariant holds for seeded plants too.
func ParseDemoPlants(data []byte, now time.Time) ([]*Plant, error) {
	var catalog demoCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("decode demo catalog: %w", err)
	}

	plants := make([]*Plant, 0, len(catalog.Plants))
	for _, dp := range catalog.Plants {
		light, err := ParseLightLevel(dp.LightLevel)
		if err != nil {
			return nil, fmt.Errorf("demo plant %q: %w", dp.Name, err)
		}
		humidity := dp.Humidity
		watered := now.AddDate(0, 0, -dp.LastWateredDaysAgo)

		p, err := NewPlant(PlantSpec{
			Name:               dp.Name,
			ScientificName:     dp.ScientificName,
			Location:           dp.Location,
			LightLevel:         light,
			WaterFrequencyDays: dp.WaterFrequencyDays,
			Humidity:           &humidity,
		}, watered)
		if err != nil {
			return nil, fmt.Errorf("demo plant %q: %w", dp.Name, err)
		}

		if dp.Health > 0 {
			p.Health = dp.Health
		}
		for _, rec := range dp.History {
			date, err := schedule.ParseTimestamp(rec.Date)
			if err != nil {
				return nil, fmt.Errorf("demo plant %q: %w", dp.Name, err)
			}
			p.History = append(p.History, HydrationRecord{Date: date, Value: rec.Value})
		}
		p.Demo = true
		plants = append(plants, p)
	}
	return plants, nil
}

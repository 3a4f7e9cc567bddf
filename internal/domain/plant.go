package domain

import (
	"strings"
	"time"

	"github.com/dom/plantally/internal/schedule"
	"github.com/google/uuid"
)

type LightLevel string

const (
	LightLevelLow    LightLevel = "Low"
	LightLevelMedium LightLevel = "Medium"
	LightLevelHigh   LightLevel = "High"
	LightLevelDirect LightLevel = "Direct"
)

// ParseLightLevel matches case-insensitively. An empty string yields the
// default, Medium.
func ParseLightLevel(s string) (LightLevel, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLightLevel, nil
	}
	for _, l := range []LightLevel{LightLevelLow, LightLevelMedium, LightLevelHigh, LightLevelDirect} {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}
	return "", ErrInvalidLightLevel
}

type PlantStatus string

const (
	PlantStatusAlive PlantStatus = "alive"
	PlantStatusDead  PlantStatus = "dead"
)

const (
	DefaultLightLevel = LightLevelMedium
	DefaultHumidity   = 50
	FullHealth        = 100

	// WateredValue is the hydration value logged for every watering.
	WateredValue = 100

	// MaxWaterFrequencyDays keeps next-watering dates inside the range the
	// day arithmetic and JSON timestamps can represent.
	MaxWaterFrequencyDays = 3650
)

// HydrationRecord is one entry of a plant's watering history.
type HydrationRecord struct {
	Date  time.Time `json:"date"`
	Value int       `json:"value"`
}

type Plant struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	ScientificName     string            `json:"scientificName"`
	Location           string            `json:"location"`
	LightLevel         LightLevel        `json:"lightLevel"`
	Image              string            `json:"image"`
	WaterFrequencyDays int               `json:"waterFrequencyDays"`
	LastWatered        time.Time         `json:"lastWatered"`
	NextWatering       time.Time         `json:"nextWatering"`
	Humidity           int               `json:"humidity"`
	Health             int               `json:"health"`
	Status             PlantStatus       `json:"status"`
	DatePlanted        time.Time         `json:"datePlanted"`
	DateDied           *time.Time        `json:"dateDied"`
	History            []HydrationRecord `json:"history"`

	// Demo marks the canned plants seeded by a demo session.
	Demo bool `json:"demo"`
}

// PlantSpec is the caller-supplied part of a new plant. Zero values of the
// optional fields are replaced with the documented defaults.
type PlantSpec struct {
	Name               string
	ScientificName     string
	Location           string
	LightLevel         LightLevel
	Image              string
	WaterFrequencyDays int
	Humidity           *int
}

// NewPlant builds an alive plant watered at now.
func NewPlant(spec PlantSpec, now time.Time) (*Plant, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if spec.WaterFrequencyDays <= 0 || spec.WaterFrequencyDays > MaxWaterFrequencyDays {
		return nil, ErrInvalidFrequency
	}

	light := spec.LightLevel
	if light == "" {
		light = DefaultLightLevel
	}
	if _, err := ParseLightLevel(string(light)); err != nil {
		return nil, err
	}

	humidity := DefaultHumidity
	if spec.Humidity != nil {
		humidity = *spec.Humidity
	}
	if humidity < 0 || humidity > 100 {
		return nil, ErrInvalidHumidity
	}

	return &Plant{
		ID:                 uuid.New().String(),
		Name:               name,
		ScientificName:     strings.TrimSpace(spec.ScientificName),
		Location:           strings.TrimSpace(spec.Location),
		LightLevel:         light,
		Image:              spec.Image,
		WaterFrequencyDays: spec.WaterFrequencyDays,
		LastWatered:        now,
		NextWatering:       schedule.ComputeNextWatering(now, spec.WaterFrequencyDays),
		Humidity:           humidity,
		Health:             FullHealth,
		Status:             PlantStatusAlive,
		DatePlanted:        now,
		History:            []HydrationRecord{},
	}, nil
}

func (p *Plant) IsAlive() bool {
	return p.Status == PlantStatusAlive
}

// Watered returns a copy of p watered at now. The receiver is left untouched.
func (p *Plant) Watered(now time.Time) (*Plant, error) {
	if !p.IsAlive() {
		return nil, ErrPlantDead
	}
	next := p.Clone()
	next.LastWatered = now
	next.NextWatering = schedule.ComputeNextWatering(now, p.WaterFrequencyDays)
	next.History = append(next.History, HydrationRecord{Date: now, Value: WateredValue})
	return next, nil
}

// Died returns a copy of p marked dead at now.
func (p *Plant) Died(now time.Time) (*Plant, error) {
	if !p.IsAlive() {
		return nil, ErrAlreadyDead
	}
	next := p.Clone()
	next.Status = PlantStatusDead
	died := now
	next.DateDied = &died
	next.Health = 0
	return next, nil
}

// Clone returns a deep copy.
func (p *Plant) Clone() *Plant {
	c := *p
	c.History = make([]HydrationRecord, len(p.History))
	copy(c.History, p.History)
	if p.DateDied != nil {
		died := *p.DateDied
		c.DateDied = &died
	}
	return &c
}

// PlantView carries the derived values a display needs alongside the plant.
type PlantView struct {
	*Plant
	IsOverdue     bool `json:"isOverdue"`
	Due           bool `json:"due"`
	DaysUntilNext int  `json:"daysUntilNext"`
	DaysLived     *int `json:"daysLived,omitempty"`
}

// View computes the derived display values at now. Dead plants are never
// overdue and report how long they lived.
func (p *Plant) View(now time.Time) PlantView {
	v := PlantView{Plant: p.Clone()}
	if p.IsAlive() {
		v.IsOverdue = schedule.IsOverdue(p.NextWatering, now)
		v.Due = schedule.Due(p.NextWatering, now)
		v.DaysUntilNext = schedule.DaysUntilNext(p.NextWatering, now)
		return v
	}
	if p.DateDied != nil {
		lived := schedule.DaysLived(p.DatePlanted, *p.DateDied)
		v.DaysLived = &lived
	}
	return v
}

// Package store is the plant engine: it owns one session and its plants and
// applies commands to them one at a time.
//
// Every command takes the store lock, builds the next session from the
// current one without touching plants already published, and swaps it in.
// A failed command leaves the session as it was, with one exception: any
// command that finds an expired demo ends the session before failing with
// domain.ErrSessionExpired.
package store

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/dom/plantally/internal/clock"
	"github.com/dom/plantally/internal/domain"
	"github.com/dom/plantally/internal/trial"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultDemoPlantLimit caps how many plants a demo user may add.
const DefaultDemoPlantLimit = 2

type Options struct {
	Clock          clock.Clock
	TrialBudget    time.Duration
	DemoPlantLimit int
	DemoSeeder     domain.DemoSeeder
	Tracer         trace.Tracer
}

type Store struct {
	clock     clock.Clock
	timer     *trial.Timer
	demoLimit int
	seed      domain.DemoSeeder
	tracer    trace.Tracer

	session domain.Session
	mu      sync.Mutex
}

// New creates a logged-out store. Zero options get production defaults.
func New(opts Options) *Store {
	s := &Store{
		clock:     opts.Clock,
		timer:     trial.NewTimer(opts.TrialBudget),
		demoLimit: opts.DemoPlantLimit,
		seed:      opts.DemoSeeder,
		tracer:    opts.Tracer,
		session:   domain.NewSession(),
	}
	if s.clock == nil {
		s.clock = clock.NewRealClock()
	}
	if s.demoLimit <= 0 {
		s.demoLimit = DefaultDemoPlantLimit
	}
	if s.seed == nil {
		s.seed = domain.DefaultDemoPlants
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("github.com/dom/plantally/internal/store")
	}
	return s
}

// --- Commands ---

// Login marks the session as signed in to email. An active demo is torn
// down first so canned plants never leak into a real account.
func (s *Store) Login(ctx context.Context, email string) (domain.Session, error) {
	_, span := s.startSpan(ctx, "store.Login")
	defer span.End()

	email = strings.TrimSpace(email)
	if email == "" {
		return domain.Session{}, endSpan(span, domain.ErrEmptyEmail)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.session
	if next.IsDemo {
		s.timer.Stop()
		next = domain.NewSession()
	}
	next.IsLoggedIn = true
	next.UserEmail = &email
	s.session = next

	return s.session.Clone(), nil
}

// Logout resets the whole session, plants included. It never fails.
func (s *Store) Logout(ctx context.Context) domain.Session {
	_, span := s.startSpan(ctx, "store.Logout")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	return s.session.Clone()
}

// Subscribe flags the account as paid. Payment itself is not verified.
func (s *Store) Subscribe(ctx context.Context) (domain.Session, error) {
	_, span := s.startSpan(ctx, "store.Subscribe")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardLocked(); err != nil {
		return domain.Session{}, endSpan(span, err)
	}

	next := s.session
	next.HasPaid = true
	s.session = next

	return s.session.Clone(), nil
}

// StartDemo replaces the session with a demo account seeded with canned
// plants and starts the trial countdown. Calling it while a demo is still
// running leaves the countdown alone.
func (s *Store) StartDemo(ctx context.Context) (domain.Session, error) {
	_, span := s.startSpan(ctx, "store.StartDemo")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if s.timer.Active() && !s.timer.Expired(now) {
		return s.session.Clone(), nil
	}

	plants, err := s.seed(now)
	if err != nil {
		return domain.Session{}, endSpan(span, err)
	}

	email := domain.DemoEmail
	started := now
	s.session = domain.Session{
		IsLoggedIn:    true,
		IsDemo:        true,
		DemoStartTime: &started,
		HasPaid:       true,
		UserEmail:     &email,
		Plants:        plants,
	}
	s.timer.Start(now)

	return s.session.Clone(), nil
}

// AddPlant builds a plant from spec and appends it to the collection.
func (s *Store) AddPlant(ctx context.Context, spec domain.PlantSpec) (*domain.Plant, error) {
	_, span := s.startSpan(ctx, "store.AddPlant", attribute.String("plant.name", spec.Name))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardLocked(); err != nil {
		return nil, endSpan(span, err)
	}
	if s.session.IsDemo && s.session.OwnPlantCount() >= s.demoLimit {
		return nil, endSpan(span, domain.ErrDemoLimitExceeded)
	}

	plant, err := domain.NewPlant(spec, s.clock.Now())
	if err != nil {
		return nil, endSpan(span, err)
	}

	plants := make([]*domain.Plant, 0, len(s.session.Plants)+1)
	plants = append(plants, s.session.Plants...)
	plants = append(plants, plant)
	s.publishLocked(plants)

	span.SetAttributes(attribute.String("plant.id", plant.ID))
	return plant.Clone(), nil
}

// WaterPlant records a watering now and reschedules the next one.
func (s *Store) WaterPlant(ctx context.Context, id string) (*domain.Plant, error) {
	_, span := s.startSpan(ctx, "store.WaterPlant", attribute.String("plant.id", id))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	plant, err := s.replaceLocked(id, func(p *domain.Plant) (*domain.Plant, error) {
		return p.Watered(s.clock.Now())
	})
	if err != nil {
		return nil, endSpan(span, err)
	}
	return plant, nil
}

// MarkPlantDead moves an alive plant to its terminal dead state.
func (s *Store) MarkPlantDead(ctx context.Context, id string) (*domain.Plant, error) {
	_, span := s.startSpan(ctx, "store.MarkPlantDead", attribute.String("plant.id", id))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	plant, err := s.replaceLocked(id, func(p *domain.Plant) (*domain.Plant, error) {
		return p.Died(s.clock.Now())
	})
	if err != nil {
		return nil, endSpan(span, err)
	}
	return plant, nil
}

// DeletePlant removes a plant in either state.
func (s *Store) DeletePlant(ctx context.Context, id string) error {
	_, span := s.startSpan(ctx, "store.DeletePlant", attribute.String("plant.id", id))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardLocked(); err != nil {
		return endSpan(span, err)
	}
	idx := s.session.FindPlant(id)
	if idx < 0 {
		return endSpan(span, domain.ErrPlantNotFound)
	}

	plants := make([]*domain.Plant, 0, len(s.session.Plants)-1)
	plants = append(plants, s.session.Plants[:idx]...)
	plants = append(plants, s.session.Plants[idx+1:]...)
	s.publishLocked(plants)

	return nil
}

// CheckExpiry ends an expired demo session. It returns
// domain.ErrSessionExpired when this call did the teardown, nil otherwise.
func (s *Store) CheckExpiry(ctx context.Context) error {
	_, span := s.startSpan(ctx, "store.CheckExpiry")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expireLocked() {
		return endSpan(span, domain.ErrSessionExpired)
	}
	return nil
}

// Tick checks expiry and returns the seconds left in the demo. It is what
// the countdown display polls. Outside a demo it returns
// trial.ErrTimerInactive.
func (s *Store) Tick(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expireLocked() {
		return 0, domain.ErrSessionExpired
	}
	return s.timer.Remaining(s.clock.Now())
}

// --- Queries ---

// Snapshot returns a deep copy of the session.
func (s *Store) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Clone()
}

// LoggedIn reports whether the session is signed in.
func (s *Store) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.IsLoggedIn
}

// Plant returns a copy of the plant with id.
func (s *Store) Plant(id string) (*domain.Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.session.FindPlant(id)
	if idx < 0 {
		return nil, domain.ErrPlantNotFound
	}
	return s.session.Plants[idx].Clone(), nil
}

// PlantView returns the plant with id and its derived display values.
func (s *Store) PlantView(id string) (domain.PlantView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.session.FindPlant(id)
	if idx < 0 {
		return domain.PlantView{}, domain.ErrPlantNotFound
	}
	return s.session.Plants[idx].View(s.clock.Now()), nil
}

// Views returns every plant with its derived display values, in collection
// order.
func (s *Store) Views() []domain.PlantView {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	views := make([]domain.PlantView, 0, len(s.session.Plants))
	for _, p := range s.session.Plants {
		views = append(views, p.View(now))
	}
	return views
}

// Remaining returns the seconds left in the demo without enforcing expiry.
func (s *Store) Remaining() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer.Remaining(s.clock.Now())
}

// --- internals, all called with mu held ---

func (s *Store) replaceLocked(id string, fn func(*domain.Plant) (*domain.Plant, error)) (*domain.Plant, error) {
	if err := s.guardLocked(); err != nil {
		return nil, err
	}
	idx := s.session.FindPlant(id)
	if idx < 0 {
		return nil, domain.ErrPlantNotFound
	}

	updated, err := fn(s.session.Plants[idx])
	if err != nil {
		return nil, err
	}

	plants := make([]*domain.Plant, len(s.session.Plants))
	copy(plants, s.session.Plants)
	plants[idx] = updated
	s.publishLocked(plants)

	return updated.Clone(), nil
}

// guardLocked enforces trial expiry and the logged-in precondition.
func (s *Store) guardLocked() error {
	if s.expireLocked() {
		return domain.ErrSessionExpired
	}
	if !s.session.IsLoggedIn {
		return domain.ErrNotLoggedIn
	}
	return nil
}

func (s *Store) expireLocked() bool {
	now := s.clock.Now()
	if !s.timer.Expired(now) {
		return false
	}
	started, _ := s.timer.StartedAt()
	log.Printf("demo session expired after %s", now.Sub(started).Truncate(time.Second))
	s.resetLocked()
	return true
}

func (s *Store) resetLocked() {
	s.timer.Stop()
	s.session = domain.NewSession()
}

func (s *Store) publishLocked(plants []*domain.Plant) {
	next := s.session
	next.Plants = plants
	s.session = next
}

func (s *Store) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

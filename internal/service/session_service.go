package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/dom/plantally/internal/clock"
	"github.com/dom/plantally/internal/config"
	"github.com/dom/plantally/internal/domain"
	"github.com/dom/plantally/internal/repository"
	"github.com/dom/plantally/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidToken    = errors.New("invalid token")
)

// expiredRetention is how long an expired demo stays registered so that its
// token keeps answering "expired" instead of "unknown".
const expiredRetention = 5 * time.Minute

// SessionService owns one store per browser session.
type SessionService struct {
	sessionRepo repository.SessionRepository
	cfg         *config.Config
	clock       clock.Clock
}

func NewSessionService(sessionRepo repository.SessionRepository, cfg *config.Config, clk clock.Clock) *SessionService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &SessionService{
		sessionRepo: sessionRepo,
		cfg:         cfg,
		clock:       clk,
	}
}

type SessionResult struct {
	SessionID string
	Token     string
	Session   domain.Session
}

type Claims struct {
	SessionID string
	Email     string
}

// Login opens a new session signed in to email.
func (s *SessionService) Login(ctx context.Context, email string) (*SessionResult, error) {
	st := s.newStore()
	sess, err := st.Login(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.register(ctx, st, sess)
}

// StartDemo opens a new demo session with its trial countdown running.
func (s *SessionService) StartDemo(ctx context.Context) (*SessionResult, error) {
	st := s.newStore()
	sess, err := st.StartDemo(ctx)
	if err != nil {
		return nil, err
	}
	return s.register(ctx, st, sess)
}

// Logout resets the session's store and forgets it.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	st, err := s.get(ctx, sessionID)
	if err != nil {
		return err
	}
	st.Logout(ctx)
	return s.sessionRepo.Delete(ctx, sessionID)
}

// Lookup returns the store for sessionID after enforcing demo expiry. Each
// successful lookup refreshes the idle TTL.
func (s *SessionService) Lookup(ctx context.Context, sessionID string) (*store.Store, error) {
	st, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := st.CheckExpiry(ctx); err != nil {
		s.retainExpired(ctx, sessionID, st)
		return nil, err
	}
	// Logout removes sessions, so a registered store that is signed out was
	// ended by the trial countdown.
	if !st.LoggedIn() {
		return nil, domain.ErrSessionExpired
	}

	if err := s.sessionRepo.Refresh(ctx, sessionID, st); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return st, nil
}

// Tick returns the seconds left in a demo session's trial.
func (s *SessionService) Tick(ctx context.Context, sessionID string) (int, error) {
	st, err := s.Lookup(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return st.Tick(ctx)
}

// SweepExpired runs the expiry check on every registered store and returns
// how many sessions it ended.
func (s *SessionService) SweepExpired(ctx context.Context) int {
	stores, err := s.sessionRepo.List(ctx)
	if err != nil {
		log.Printf("ERROR [service.SweepExpired] list sessions: %v", err)
		return 0
	}

	expired := 0
	for id, st := range stores {
		if err := st.CheckExpiry(ctx); errors.Is(err, domain.ErrSessionExpired) {
			s.retainExpired(ctx, id, st)
			expired++
		}
	}
	return expired
}

// RunSweeper calls SweepExpired every interval until ctx is cancelled.
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.SweepExpired(ctx); n > 0 {
				log.Printf("expiry sweep ended %d demo session(s)", n)
			}
		}
	}
}

// Count returns how many sessions are registered, expired ones included.
func (s *SessionService) Count() int {
	return s.sessionRepo.Count(context.Background())
}

// ValidateToken checks the signature and returns the session claims. Whether
// the session still exists is Lookup's job.
func (s *SessionService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return nil, ErrInvalidToken
	}
	email, _ := claims["sub"].(string)

	return &Claims{SessionID: sid, Email: email}, nil
}

func (s *SessionService) newStore() *store.Store {
	return store.New(store.Options{
		Clock:          s.clock,
		TrialBudget:    s.cfg.TrialDuration,
		DemoPlantLimit: s.cfg.DemoPlantLimit,
	})
}

func (s *SessionService) register(ctx context.Context, st *store.Store, sess domain.Session) (*SessionResult, error) {
	id := uuid.New().String()

	var email string
	if sess.UserEmail != nil {
		email = *sess.UserEmail
	}
	token, err := s.generateToken(id, email)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Create(ctx, id, st); err != nil {
		return nil, err
	}
	return &SessionResult{SessionID: id, Token: token, Session: sess}, nil
}

// retainExpired keeps an expired session around for expiredRetention. A
// session logged out in the meantime is left deleted.
func (s *SessionService) retainExpired(ctx context.Context, sessionID string, st *store.Store) {
	err := s.sessionRepo.Retain(ctx, sessionID, st, expiredRetention)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Printf("ERROR [service.retainExpired] retain expired session: %v", err)
	}
}

func (s *SessionService) get(ctx context.Context, sessionID string) (*store.Store, error) {
	st, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return st, nil
}

// generateToken signs a token naming the session. It carries no expiry: a
// token is good exactly as long as its session stays registered, which the
// repository's idle TTL and the demo countdown bound.
func (s *SessionService) generateToken(sessionID, email string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"sub": email,
		"iat": s.clock.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

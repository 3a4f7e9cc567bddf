package domain

import "time"

// DemoEmail is the account name used by demo sessions.
const DemoEmail = "demo@plantally.com"

// Session is the account state owned by a store. DemoStartTime is non-nil
// exactly when IsDemo is true.
type Session struct {
	IsLoggedIn    bool       `json:"isLoggedIn"`
	IsDemo        bool       `json:"isDemo"`
	DemoStartTime *time.Time `json:"demoStartTime"`
	HasPaid       bool       `json:"hasPaid"`
	UserEmail     *string    `json:"userEmail"`
	Plants        []*Plant   `json:"plants"`
}

// NewSession returns the logged-out defaults.
func NewSession() Session {
	return Session{Plants: []*Plant{}}
}

// Clone returns a deep copy that shares nothing with s.
func (s Session) Clone() Session {
	c := s
	if s.DemoStartTime != nil {
		started := *s.DemoStartTime
		c.DemoStartTime = &started
	}
	if s.UserEmail != nil {
		email := *s.UserEmail
		c.UserEmail = &email
	}
	c.Plants = make([]*Plant, len(s.Plants))
	for i, p := range s.Plants {
		c.Plants[i] = p.Clone()
	}
	return c
}

// FindPlant returns the index of the plant with id, or -1.
func (s Session) FindPlant(id string) int {
	for i, p := range s.Plants {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// OwnPlantCount counts the plants the user added, ignoring seeded demo plants.
func (s Session) OwnPlantCount() int {
	n := 0
	for _, p := range s.Plants {
		if !p.Demo {
			n++
		}
	}
	return n
}

// Package roster holds the static member, mentor and galaxy records the
// scene is built from. A roster is read-only once loaded.
package roster

import (
	_ "embed"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// MentorCount and GalaxyCount are fixed by the scene layout
const (
	MentorCount = 4
	GalaxyCount = 4
	BatchCount  = 3
)

//go:embed default.toml
var defaultRoster []byte

// Side is the screen half an object is anchored to
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// Opposite returns the other screen half
func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// MarshalText implements encoding.TextMarshaler
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Side) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "left", "l":
		*s = SideLeft
	case "right", "r":
		*s = SideRight
	default:
		return errors.Errorf("unknown side %q", text)
	}
	return nil
}

// Links are optional external profile URLs
type Links struct {
	LinkedIn string `toml:"linkedin,omitempty" json:"linkedin,omitempty"`
	GitHub   string `toml:"github,omitempty" json:"github,omitempty"`
}

// Member is one roster entry rendered as an orbiting token
type Member struct {
	ID          int    `toml:"id" json:"id"`
	Name        string `toml:"name" json:"name"`
	Description string `toml:"description,omitempty" json:"description,omitempty"`
	Links       Links  `toml:"links" json:"links"`
}

// Mentor is rendered as a planet with a companion info panel
type Mentor struct {
	ID          int    `toml:"id" json:"id"`
	Name        string `toml:"name" json:"name"`
	Role        string `toml:"role" json:"role"`
	Description string `toml:"description" json:"description"`
	Color       string `toml:"color" json:"color"`
	Side        Side   `toml:"side" json:"side"`
	Ring        bool   `toml:"ring,omitempty" json:"ring,omitempty"`
	Links       Links  `toml:"links" json:"links"`
}

// Galaxy carries the bio typed out when the camera passes a background galaxy
type Galaxy struct {
	Title string `toml:"title" json:"title"`
	Bio   string `toml:"bio" json:"bio"`
}

// Roster is the full static data table
type Roster struct {
	Title    string   `toml:"title" json:"title"`
	Closing  []string `toml:"closing" json:"closing"`
	Members  []Member `toml:"member" json:"members"`
	Mentors  []Mentor `toml:"mentor" json:"mentors"`
	Galaxies []Galaxy `toml:"galaxy" json:"galaxies"`

	byID map[int]int
}

// Default returns the embedded roster
func Default() *Roster {
	r, err := Parse(defaultRoster)
	if err != nil {
		panic(errors.Wrap(err, "embedded roster"))
	}
	return r
}

// Load reads and validates a roster file
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read roster %s", path)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "roster %s", path)
	}
	return r, nil
}

// Parse decodes and validates a TOML roster document
func Parse(data []byte) (*Roster, error) {
	var r Roster
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(err, "decode roster")
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.index()
	return &r, nil
}

// Validate checks the invariants the scene layout depends on
func (r *Roster) Validate() error {
	if len(r.Mentors) != MentorCount {
		return errors.Errorf("roster needs exactly %d mentors, got %d", MentorCount, len(r.Mentors))
	}
	if len(r.Galaxies) != GalaxyCount {
		return errors.Errorf("roster needs exactly %d galaxies, got %d", GalaxyCount, len(r.Galaxies))
	}
	if len(r.Members) == 0 || len(r.Members)%BatchCount != 0 {
		return errors.Errorf("member count %d must be a positive multiple of %d", len(r.Members), BatchCount)
	}

	seen := make(map[int]bool, len(r.Members))
	for _, m := range r.Members {
		if m.ID <= 0 {
			return errors.Errorf("member %q has non-positive id %d", m.Name, m.ID)
		}
		if seen[m.ID] {
			return errors.Errorf("duplicate member id %d", m.ID)
		}
		if strings.TrimSpace(m.Name) == "" {
			return errors.Errorf("member %d has no name", m.ID)
		}
		seen[m.ID] = true
	}
	for i, m := range r.Mentors {
		if strings.TrimSpace(m.Name) == "" {
			return errors.Errorf("mentor %d has no name", i+1)
		}
	}
	return nil
}

func (r *Roster) index() {
	r.byID = make(map[int]int, len(r.Members))
	for i, m := range r.Members {
		r.byID[m.ID] = i
	}
}

// Member looks up a member by id
func (r *Roster) Member(id int) (Member, bool) {
	if r.byID == nil {
		r.index()
	}
	i, ok := r.byID[id]
	if !ok {
		return Member{}, false
	}
	return r.Members[i], true
}

// Batches splits members into BatchCount equally sized groups in roster order
func (r *Roster) Batches() [][]Member {
	size := len(r.Members) / BatchCount
	out := make([][]Member, BatchCount)
	for i := range out {
		out[i] = r.Members[i*size : (i+1)*size]
	}
	return out
}

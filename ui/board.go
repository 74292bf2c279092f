// Package ui holds the overlay surface the presentation core writes to.
// It owns no drawing; the overlay renderer reads a Board every frame.
package ui

import (
	"slices"

	"github.com/lixenwraith/starfolio/roster"
)

// Flag names a top-level UI visibility toggle
type Flag string

const (
	FlagWelcome         Flag = "welcome"
	FlagScrollContent   Flag = "scroll-content"
	FlagInterstitial    Flag = "interstitial"
	FlagFinaleSignature Flag = "finale-signature"
)

// Flags lists every known flag
func Flags() []Flag {
	return []Flag{FlagWelcome, FlagScrollContent, FlagInterstitial, FlagFinaleSignature}
}

// Typewriter targets, one per text element
const (
	TargetMentor = "mentor"
	TargetMember = "member"
	TargetGalaxy = "galaxy"
)

// Link is an external profile button
type Link struct {
	Label   string
	Href    string
	Enabled bool
}

// Panel is one detail overlay
type Panel struct {
	Visible bool
	Side    roster.Side
	Index   int // mentor or galaxy index, member id
	Title   string
	Lines   []string // full text; the typed prefix lives on the Board
	Static  string   // shown in full immediately
	Links   []Link
	Target  string
}

// Board is the externally owned UI state
type Board struct {
	flags  map[Flag]bool
	Mentor Panel
	Member Panel
	Galaxy Panel

	Title   string
	Closing []string
	Lines   int // closing lines revealed

	typed map[string]string

	// Status is a one-line hover readout
	Status string
}

// NewBoard creates a board with every flag down
func NewBoard(title string, closing []string) *Board {
	return &Board{
		flags:   make(map[Flag]bool),
		Title:   title,
		Closing: slices.Clone(closing),
		Mentor:  Panel{Target: TargetMentor},
		Member:  Panel{Target: TargetMember},
		Galaxy:  Panel{Target: TargetGalaxy},
		typed:   make(map[string]string),
	}
}

// SetFlag toggles a named flag
func (b *Board) SetFlag(f Flag, on bool) {
	b.flags[f] = on
}

// Flag reads a named flag
func (b *Board) Flag(f Flag) bool {
	return b.flags[f]
}

// SetText implements the typewriter sink
func (b *Board) SetText(target, text string) {
	b.typed[target] = text
}

// Text returns the revealed text for target
func (b *Board) Text(target string) string {
	return b.typed[target]
}

// LinksFor builds link buttons, dimming absent ones
func LinksFor(l roster.Links) []Link {
	return []Link{
		{Label: "LinkedIn", Href: l.LinkedIn, Enabled: l.LinkedIn != ""},
		{Label: "GitHub", Href: l.GitHub, Enabled: l.GitHub != ""},
	}
}

// ShowMentor populates the mentor panel on the side opposite the planet
func (b *Board) ShowMentor(index int, m roster.Mentor) {
	b.Mentor = Panel{
		Visible: true,
		Side:    m.Side.Opposite(),
		Index:   index,
		Title:   m.Name,
		Lines:   MentorLines(m),
		Links:   LinksFor(m.Links),
		Target:  TargetMentor,
	}
	b.typed[TargetMentor] = ""
}

// MentorLines is the typed body of a mentor panel
func MentorLines(m roster.Mentor) []string {
	return []string{m.Name, m.Role, "", m.Description}
}

// HideMentor hides the mentor panel
func (b *Board) HideMentor() {
	b.Mentor.Visible = false
	b.typed[TargetMentor] = ""
}

// ShowMember opens the member detail panel
func (b *Board) ShowMember(m roster.Member) {
	b.Member = Panel{
		Visible: true,
		Side:    roster.SideRight,
		Index:   m.ID,
		Title:   m.Name,
		Lines:   []string{m.Name},
		Static:  m.Description,
		Links:   LinksFor(m.Links),
		Target:  TargetMember,
	}
	b.typed[TargetMember] = ""
}

// HideMember closes the member detail panel
func (b *Board) HideMember() {
	b.Member.Visible = false
	b.typed[TargetMember] = ""
}

// ShowGalaxy opens the bio overlay for galaxy index
func (b *Board) ShowGalaxy(index int, g roster.Galaxy) {
	b.Galaxy = Panel{
		Visible: true,
		Side:    roster.SideLeft,
		Index:   index,
		Title:   g.Title,
		Lines:   []string{g.Title, "", g.Bio},
		Target:  TargetGalaxy,
	}
	b.typed[TargetGalaxy] = ""
}

// HideGalaxy retracts the bio overlay
func (b *Board) HideGalaxy() {
	b.Galaxy.Visible = false
	b.typed[TargetGalaxy] = ""
}

// DetailOpen reports whether a user-opened overlay is showing
func (b *Board) DetailOpen() bool {
	return b.Member.Visible
}

// Snapshot summarizes visible state for comparisons
type Snapshot struct {
	Flags  map[Flag]bool
	Mentor int // -1 when hidden
	Galaxy int // -1 when hidden
	Member int // 0 when hidden
	Lines  int
}

// Snapshot captures the discrete overlay state
func (b *Board) Snapshot() Snapshot {
	s := Snapshot{Flags: make(map[Flag]bool), Mentor: -1, Galaxy: -1, Lines: b.Lines}
	for _, f := range Flags() {
		s.Flags[f] = b.flags[f]
	}
	if b.Mentor.Visible {
		s.Mentor = b.Mentor.Index
	}
	if b.Galaxy.Visible {
		s.Galaxy = b.Galaxy.Index
	}
	if b.Member.Visible {
		s.Member = b.Member.Index
	}
	return s
}

package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/starfolio/hint"
	"github.com/lixenwraith/starfolio/roster"
	"github.com/lixenwraith/starfolio/ui"
)

func renderBoard(b *ui.Board, w, h int) *RenderBuffer {
	buf := NewRenderBuffer(w, h)
	NewOverlayRenderer().Render(Context{Board: b}, buf)
	return buf
}

// TestMentorPanelTypedPrefix verifies only the typed prefix shows, on the side opposite the planet
func TestMentorPanelTypedPrefix(t *testing.T) {
	b := ui.NewBoard("Orbit", nil)
	b.ShowMentor(0, roster.Mentor{Name: "Ada", Role: "Lead", Description: "Keeps orbits stable", Side: roster.SideLeft})
	b.SetText(ui.TargetMentor, "Ada\nLe")

	buf := renderBoard(b, 100, 30)
	x, _, ok := findText(buf, "Le▌")
	require.True(t, ok, "typed prefix with cursor")
	assert.Greater(t, x, 50, "panel sits on the right")

	_, _, ok = findText(buf, "orbits")
	assert.False(t, ok, "untyped text stays hidden")
}

// TestMemberPanelLinks verifies the static description and link buttons appear once the name is typed
func TestMemberPanelLinks(t *testing.T) {
	b := ui.NewBoard("Orbit", nil)
	b.ShowMember(roster.Member{ID: 7, Name: "Rin", Description: "Builds telescopes", Links: roster.Links{GitHub: "https://github.com/rin"}})
	b.SetText(ui.TargetMember, "Rin")

	buf := renderBoard(b, 100, 30)
	_, _, ok := findText(buf, "Builds telescopes")
	assert.True(t, ok)

	lx, ly, ok := findText(buf, "[LinkedIn]")
	require.True(t, ok)
	assert.Equal(t, RgbPanelDim, buf.Cell(lx, ly).Fg)

	gx, gy, ok := findText(buf, "[GitHub]")
	require.True(t, ok)
	assert.Equal(t, RgbLink, buf.Cell(gx, gy).Fg)

	_, _, ok = findText(buf, closeHint)
	assert.True(t, ok)
}

// TestPanelRect verifies side placement and clamping
func TestPanelRect(t *testing.T) {
	x, y, w, h := PanelRect(100, 30, roster.SideLeft, 6)
	assert.Equal(t, panelMargin, x)
	assert.Equal(t, 36, w)
	assert.Equal(t, 8, h)
	assert.Equal(t, 11, y)

	x, _, w, _ = PanelRect(100, 30, roster.SideRight, 6)
	assert.Equal(t, 100-w-panelMargin, x)

	_, _, _, h = PanelRect(100, 10, roster.SideRight, 50)
	assert.Equal(t, 8, h)
}

// TestInterstitialDarkens verifies the announcement dims everything beneath it
func TestInterstitialDarkens(t *testing.T) {
	b := ui.NewBoard("Orbit", nil)
	b.SetFlag(ui.FlagInterstitial, true)
	buf := NewRenderBuffer(60, 20)
	buf.Fill(0, 0, 60, 20, RGBWhite)
	NewOverlayRenderer().Render(Context{Board: b}, buf)

	assert.Less(t, Luma(buf.Cell(0, 0).Bg), 255)
	_, _, ok := findText(buf, "Orbit")
	assert.True(t, ok)
}

// TestClosingLinesStagger verifies only revealed closing lines render
func TestClosingLinesStagger(t *testing.T) {
	b := ui.NewBoard("Orbit", []string{"first line", "second line"})
	b.Lines = 1
	buf := renderBoard(b, 60, 20)
	_, _, ok := findText(buf, "first line")
	assert.True(t, ok)
	_, _, ok = findText(buf, "second line")
	assert.False(t, ok)
}

// TestHintText verifies at most one hint line with an urgent variant
func TestHintText(t *testing.T) {
	assert.Empty(t, HintText(hint.KindNone, true, 2))
	assert.Equal(t, hintScroll, HintText(hint.KindScroll, false, 0))
	assert.Equal(t, hintScrollUrgent, HintText(hint.KindScroll, true, 0))
	assert.Contains(t, HintText(hint.KindTouch, false, 2), "(2 left)")
	assert.NotEqual(t, HintText(hint.KindTouch, false, 0), HintText(hint.KindTouch, true, 0))
}

// TestHudStatusAndRail verifies the status readout and the scroll rail flag
func TestHudStatusAndRail(t *testing.T) {
	b := ui.NewBoard("Orbit", nil)
	b.Status = "Rin"
	b.SetFlag(ui.FlagScrollContent, true)

	buf := NewRenderBuffer(40, 12)
	NewHudRenderer().Render(Context{Board: b, Hint: hint.KindScroll, Urgent: true, Progress: 0.5, Muted: true}, buf)

	_, y, ok := findText(buf, "Rin")
	require.True(t, ok)
	assert.Equal(t, 11, y)
	_, _, ok = findText(buf, "muted")
	assert.True(t, ok)
	_, _, ok = findText(buf, "50%")
	assert.True(t, ok)
	assert.Equal(t, '┃', buf.Cell(39, 4).Rune)

	hx, hy, ok := findText(buf, "scroll")
	require.True(t, ok)
	assert.Equal(t, RgbHintUrgent, buf.Cell(hx, hy).Fg)
}

type recorder struct {
	name    string
	log     *[]string
	visible bool
}

func (r *recorder) Render(Context, *RenderBuffer) { *r.log = append(*r.log, r.name) }
func (r *recorder) IsVisible() bool              { return r.visible }

// TestOrchestratorOrder verifies priority order, registration tie-break and visibility skip
func TestOrchestratorOrder(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	defer s.Fini()
	s.SetSize(20, 5)

	var log []string
	o := NewOrchestrator(s, ColorModeTrueColor)
	o.Register(&recorder{name: "hud", log: &log, visible: true}, PriorityHUD)
	o.Register(&recorder{name: "scene", log: &log, visible: true}, PriorityScene)
	o.Register(&recorder{name: "hidden", log: &log, visible: false}, PriorityOverlay)
	o.Register(&recorder{name: "overlay", log: &log, visible: true}, PriorityOverlay)

	o.RenderFrame(Context{})
	assert.Equal(t, []string{"scene", "overlay", "hud"}, log)
}

// TestFlushToScreen verifies composited cells reach the terminal
func TestFlushToScreen(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	defer s.Fini()
	s.SetSize(40, 12)

	b := ui.NewBoard("Orbit", nil)
	b.SetFlag(ui.FlagWelcome, true)
	o := NewOrchestrator(s, ColorModeTrueColor)
	o.Register(NewOverlayRenderer(), PriorityOverlay)
	o.RenderFrame(Context{Board: b})

	x, y, ok := findText(o.Buffer(), "Orbit")
	require.True(t, ok)

	cells, w, _ := s.GetContents()
	cell := cells[y*w+x]
	require.NotEmpty(t, cell.Runes)
	assert.Equal(t, 'O', cell.Runes[0])
	fg, _, attrs := cell.Style.Decompose()
	assert.Equal(t, ToTcell(RgbPanelTitle, ColorModeTrueColor), fg)
	assert.NotZero(t, attrs&tcell.AttrBold)
}

package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCanvas gives every rune a width of fontSize/2 and records drawing ops,
// so flow decisions are deterministic without a PDF context.
type fakeCanvas struct {
	pages int
	texts []fakeText
}

type fakeText struct {
	x, y float64
	text string
}

func (c *fakeCanvas) Measure(text string, fontSize float64) float64 {
	return float64(len([]rune(text))) * fontSize / 2
}
func (c *fakeCanvas) AddPage()                                      { c.pages++ }
func (c *fakeCanvas) SetFont(string, float64)                       {}
func (c *fakeCanvas) Text(x, y float64, text string)                { c.texts = append(c.texts, fakeText{x, y, text}) }
func (c *fakeCanvas) Line(float64, float64, float64, float64)       {}
func (c *fakeCanvas) Rect(float64, float64, float64, float64, bool) {}
func (c *fakeCanvas) SetFillGray(float64)                           {}
func (c *fakeCanvas) SetDrawGray(float64)                           {}

func testEngine() (*Engine, *fakeCanvas) {
	canvas := &fakeCanvas{}
	e := NewEngine(canvas, Config{PageWidth: 200, PageHeight: 300, Margin: 20, LineHeight: 10}, zap.NewNop())
	e.StartDocument()
	return e, canvas
}

func TestWrap_NoLineExceedsMaxWidth(t *testing.T) {
	e, c := testEngine()
	text := "the quick brown fox jumps over the lazy dog near the riverbank today"

	lines := e.Wrap(text, 100, 10)

	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.LessOrEqual(t, c.Measure(line, 10), 100.0, "line %q too wide", line)
	}
	// no content lost
	assert.Equal(t, strings.Join(strings.Fields(text), " "), strings.Join(lines, " "))
}

func TestWrap_SingleOversizedWordPlacedAlone(t *testing.T) {
	e, c := testEngine()
	text := "short extraordinarilyoverlongunbreakableword end"

	lines := e.Wrap(text, 60, 10)

	var oversized []string
	for _, line := range lines {
		if c.Measure(line, 10) > 60 {
			oversized = append(oversized, line)
		}
	}
	// the unbreakable word is the only over-wide line and sits alone
	require.Len(t, oversized, 1)
	assert.Equal(t, "extraordinarilyoverlongunbreakableword", oversized[0])
}

func TestWrap_EmptyText(t *testing.T) {
	e, _ := testEngine()
	assert.Nil(t, e.Wrap("", 100, 10))
	assert.Nil(t, e.Wrap("   ", 100, 10))
}

func TestCheckPageBreak_FiresExactlyPastBoundary(t *testing.T) {
	// pageHeight 300, margin 20: content may extend to y=280 inclusive.
	tests := []struct {
		name      string
		cursorY   float64
		required  float64
		wantBreak bool
	}{
		{"well inside the page", 100, 50, false},
		{"lands exactly on the boundary", 230, 50, false},
		{"one unit past the boundary", 231, 50, true},
		{"zero height never breaks at boundary", 280, 0, false},
		{"full remaining space", 20, 260, false},
		{"overflowing from the top margin", 20, 261, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, c := testEngine()
			e.SetCursorY(tt.cursorY)
			broke := e.CheckPageBreak(tt.required)
			assert.Equal(t, tt.wantBreak, broke)
			if tt.wantBreak {
				assert.Equal(t, 2, c.pages)
				assert.Equal(t, 20.0, e.CursorY(), "cursor resets to top margin")
			} else {
				assert.Equal(t, 1, c.pages)
				assert.Equal(t, tt.cursorY, e.CursorY(), "cursor untouched without a break")
			}
		})
	}
}

func TestParagraph_AdvancesCursorPerLine(t *testing.T) {
	e, _ := testEngine()
	start := e.CursorY()

	// content width is 160; at size 10 the fake fits 32 runes per line
	e.Paragraph("aaaa bbbb cccc dddd eeee ffff gggg hhhh iiii jjjj", TextStyle{FontSize: 10})

	lines := (e.CursorY() - start) / e.LineHeight()
	assert.Equal(t, 2.0, lines)
}

func TestParagraph_PageBreaksWhenLineWouldOverflow(t *testing.T) {
	e, c := testEngine()
	e.SetCursorY(275)

	e.Paragraph("one two three four", TextStyle{FontSize: 10})

	assert.Equal(t, 2, c.pages)
}

func TestTwoColumn_SharedCursorAdvancesToTallerColumn(t *testing.T) {
	e, _ := testEngine()
	start := e.CursorY()

	left := []Block{{Text: "left", Style: TextStyle{FontSize: 10}}}
	right := []Block{
		{Text: "right one", Style: TextStyle{FontSize: 10}},
		{Text: "right two", Style: TextStyle{FontSize: 10}},
		{Text: "right three", Style: TextStyle{FontSize: 10}},
	}
	e.TwoColumn(left, right, 5)

	// right column: 3 lines of 10 each, plus 5 spacing
	assert.Equal(t, start+30+5, e.CursorY())
}

func TestTwoColumn_ColumnsStartAtSameY(t *testing.T) {
	e, c := testEngine()
	start := e.CursorY()

	e.TwoColumn(
		[]Block{{Text: "left", Style: TextStyle{FontSize: 10}}},
		[]Block{{Text: "right", Style: TextStyle{FontSize: 10}}},
		0,
	)

	require.Len(t, c.texts, 2)
	assert.Equal(t, c.texts[0].y, c.texts[1].y)
	assert.Equal(t, start+10, c.texts[0].y) // baseline = y + fontSize
	assert.Greater(t, c.texts[1].x, c.texts[0].x)
}

func TestTwoColumn_BreaksBeforeSplittingAcrossPages(t *testing.T) {
	e, c := testEngine()
	e.SetCursorY(270)

	right := []Block{
		{Text: "one", Style: TextStyle{FontSize: 10}},
		{Text: "two", Style: TextStyle{FontSize: 10}},
		{Text: "three", Style: TextStyle{FontSize: 10}},
	}
	e.TwoColumn(nil, right, 0)

	// 30 units needed, 10 available: whole block moved to page 2
	assert.Equal(t, 2, c.pages)
	require.NotEmpty(t, c.texts)
	assert.Equal(t, 30.0, c.texts[0].y) // top margin 20 + baseline 10
}

package contextmenu_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockroom/pkg/contextmenu"
)

type row struct{ SKU string }

type recorder struct {
	fired  []contextmenu.Action
	rows   []string
	closes int
}

func newMenu(r *recorder) *contextmenu.Menu[row] {
	track := func(a contextmenu.Action) func(row) error {
		return func(x row) error {
			r.fired = append(r.fired, a)
			r.rows = append(r.rows, x.SKU)
			return nil
		}
	}
	return contextmenu.New(contextmenu.Handlers[row]{
		ViewDetails: track(contextmenu.ViewDetails),
		ExportCSV:   track(contextmenu.ExportCSV),
		ExportExcel: track(contextmenu.ExportExcel),
		OpenWebPage: track(contextmenu.OpenWebPage),
	}, func() { r.closes++ })
}

func TestSelect_FiresOnceThenCloses(t *testing.T) {
	for _, action := range contextmenu.Actions {
		t.Run(string(action), func(t *testing.T) {
			r := &recorder{}
			m := newMenu(r)
			m.Open(row{SKU: "SKU-12345"}, 10, 20)

			require.NoError(t, m.Select(action))
			assert.Equal(t, []contextmenu.Action{action}, r.fired)
			assert.Equal(t, []string{"SKU-12345"}, r.rows)
			assert.False(t, m.IsOpen())
			assert.Equal(t, 1, r.closes)

			assert.ErrorIs(t, m.Select(contextmenu.ViewDetails), contextmenu.ErrClosed)
			assert.Len(t, r.fired, 1)
		})
	}
}

func TestSelect_ClosesEvenWhenHandlerFails(t *testing.T) {
	boom := errors.New("boom")
	m := contextmenu.New(contextmenu.Handlers[row]{
		ExportCSV: func(row) error { return boom },
	}, nil)
	m.Open(row{SKU: "A"}, 0, 0)

	err := m.Select(contextmenu.ExportCSV)
	assert.ErrorIs(t, err, boom)
	assert.False(t, m.IsOpen())
}

func TestSelect_ClosesThenRepanics(t *testing.T) {
	closed := false
	m := contextmenu.New(contextmenu.Handlers[row]{
		ViewDetails: func(row) error { panic("handler exploded") },
	}, func() { closed = true })
	m.Open(row{SKU: "A"}, 0, 0)

	assert.PanicsWithValue(t, "handler exploded", func() { _ = m.Select(contextmenu.ViewDetails) })
	assert.True(t, closed)
	assert.False(t, m.IsOpen())
}

func TestSelect_UnknownActionKeepsMenuOpen(t *testing.T) {
	m := newMenu(&recorder{})
	m.Open(row{SKU: "A"}, 0, 0)

	assert.ErrorIs(t, m.Select("print"), contextmenu.ErrUnknownAction)
	assert.True(t, m.IsOpen())
}

func TestPointerDown_OutsideCloses(t *testing.T) {
	r := &recorder{}
	m := newMenu(r)
	m.Open(row{SKU: "A"}, 100, 100)

	assert.False(t, m.PointerDown(150, 120), "inside the panel")
	assert.False(t, m.PointerDown(100+contextmenu.MinWidth-1, 100+contextmenu.Height-1), "bottom-right corner")
	assert.True(t, m.IsOpen())

	assert.True(t, m.PointerDown(100+contextmenu.MinWidth, 120))
	assert.False(t, m.IsOpen())
	assert.Equal(t, 1, r.closes)
	assert.Empty(t, r.fired)
}

func TestKeyDown_EscapeCloses(t *testing.T) {
	m := newMenu(&recorder{})
	m.Open(row{SKU: "A"}, 0, 0)

	assert.False(t, m.KeyDown("Enter"))
	assert.True(t, m.IsOpen())
	assert.True(t, m.KeyDown("Escape"))
	assert.False(t, m.IsOpen())
	assert.False(t, m.KeyDown("Escape"))
}

func TestOpen_ReplacesCapturedRow(t *testing.T) {
	r := &recorder{}
	m := newMenu(r)
	m.Open(row{SKU: "A"}, 0, 0)
	m.Open(row{SKU: "B"}, 5, 6)

	st := m.State()
	assert.True(t, st.Open)
	assert.Equal(t, 5, st.X)
	assert.Equal(t, contextmenu.MinWidth, st.Width)
	assert.Len(t, st.Items, 4)

	require.NoError(t, m.Select(contextmenu.OpenWebPage))
	assert.Equal(t, []string{"B"}, r.rows)
	assert.Equal(t, contextmenu.State{}, m.State())
}

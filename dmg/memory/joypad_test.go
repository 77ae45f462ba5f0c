package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoypad(t *testing.T) {
	testCases := []struct {
		desc    string
		pressed []Button
		selects uint8
		want    uint8
	}{
		{desc: "no selection", pressed: []Button{ButtonA}, selects: 0x30, want: 0xFF},
		{desc: "d-pad idle", selects: 0x20, want: 0xEF},
		{desc: "right", pressed: []Button{ButtonRight}, selects: 0x20, want: 0xEE},
		{desc: "left and up", pressed: []Button{ButtonLeft, ButtonUp}, selects: 0x20, want: 0xE9},
		{desc: "A", pressed: []Button{ButtonA}, selects: 0x10, want: 0xDE},
		{desc: "B and select", pressed: []Button{ButtonB, ButtonSelect}, selects: 0x10, want: 0xD9},
		{desc: "buttons ignore d-pad", pressed: []Button{ButtonDown}, selects: 0x10, want: 0xDF},
		{desc: "both groups AND", pressed: []Button{ButtonA, ButtonUp}, selects: 0x00, want: 0xCA},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			j := newJoypad()
			for _, b := range tC.pressed {
				j.Set(b, true)
			}
			j.Write(tC.selects | 0x0F)
			assert.Equal(t, tC.want, j.Read())
		})
	}
}

func TestJoypad_release(t *testing.T) {
	j := newJoypad()
	j.Write(0x10)

	assert.True(t, j.Set(ButtonB, true))
	assert.Equal(t, uint8(0xDD), j.Read())

	assert.False(t, j.Set(ButtonB, false))
	assert.Equal(t, uint8(0xDF), j.Read())
}

package command

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected Command
	}{
		{in: `{"cmd":"cal"}`, expected: Recalibrate},
		{in: `{"seq":4,"cmd":"cal","extra":[1,2]}`, expected: Recalibrate},
		{in: `junk "cal" junk`, expected: Recalibrate},
		{in: `{"cmd":"calibrate"}`, expected: None},
		{in: `cal`, expected: None},
		{in: `{"cmd":"reset"}`, expected: None},
		{in: ``, expected: None},
	} {
		assert.Equal(t, tc.expected, Parse([]byte(tc.in)), tc.in)
	}
}

func TestSlotTakeOnce(t *testing.T) {
	var s Slot
	assert.Equal(t, None, s.Take())

	s.Handle([]byte(`{"cmd":"cal"}`))
	s.Handle([]byte(`{"cmd":"cal"}`))
	assert.Equal(t, Recalibrate, s.Take())
	assert.Equal(t, None, s.Take())

	s.Handle([]byte(`{"cmd":"nope"}`))
	assert.Equal(t, None, s.Take())
}

func TestSlotConcurrentPost(t *testing.T) {
	var s Slot
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Post(Recalibrate)
		}()
	}
	wg.Wait()

	assert.Equal(t, Recalibrate, s.Take())
	assert.Equal(t, None, s.Take())
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "recalibrate", Recalibrate.String())
	assert.Equal(t, "none", None.String())
}

package quiz

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j0lvera/modebot/internal/errs"
)

var layerTwo = Question{
	Prompt:  "Mode is a Layer-2",
	Options: []string{"L1", "L2", "Sidechain", "L3"},
	Correct: 1,
}

func testBank() []Question {
	return []Question{WhatIsMode, BlockHeightQuestion(5000), GasPriceRange}
}

// fakeClock is a settable clock for idle-timeout tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMachine_SingleQuestionScenario(t *testing.T) {
	m := NewMachine()

	step, err := m.Start(1, []Question{layerTwo})
	require.NoError(t, err)
	assert.Equal(t, 0, step.Index)
	assert.Equal(t, 1, step.Total)
	assert.Equal(t, layerTwo.Prompt, step.Question.Prompt)

	out, err := m.Submit(1, 0, 1)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.True(t, out.Finished)
	assert.Nil(t, out.Next)
	assert.Equal(t, 1, out.Score)
	assert.Equal(t, 1, out.Total)

	assert.False(t, m.Active(1))
	assert.Equal(t, 0, m.Len())
}

func TestMachine_Scoring(t *testing.T) {
	bank := testBank()

	tests := []struct {
		name      string
		answer    func(q Question) int
		wantScore int
	}{
		{
			name:      "all correct",
			answer:    func(q Question) int { return q.Correct },
			wantScore: len(bank),
		},
		{
			name:      "all incorrect",
			answer:    func(q Question) int { return (q.Correct + 1) % len(q.Options) },
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine()
			step, err := m.Start(7, bank)
			require.NoError(t, err)

			var out Outcome
			for i := 0; i < len(bank); i++ {
				assert.Equal(t, i, step.Index)

				out, err = m.Submit(7, step.Index, tt.answer(step.Question))
				require.NoError(t, err)

				if i < len(bank)-1 {
					require.NotNil(t, out.Next)
					assert.False(t, out.Finished)
					step = *out.Next
				}
			}

			assert.True(t, out.Finished)
			assert.Equal(t, tt.wantScore, out.Score)
			assert.Equal(t, len(bank), out.Total)
			assert.False(t, m.Active(7))
		})
	}
}

func TestMachine_ProgressIsMonotonic(t *testing.T) {
	m := NewMachine()
	_, err := m.Start(1, testBank())
	require.NoError(t, err)

	for want := 0; want < 2; want++ {
		index, _, ok := m.Progress(1)
		require.True(t, ok)
		assert.Equal(t, want, index)

		_, err := m.Submit(1, want, 0)
		require.NoError(t, err)
	}

	index, _, ok := m.Progress(1)
	require.True(t, ok)
	assert.Equal(t, 2, index)
}

func TestMachine_SubmitWithoutSession(t *testing.T) {
	m := NewMachine()

	_, err := m.Submit(42, 0, 0)
	assert.ErrorIs(t, err, errs.ErrNoActiveSession)
}

func TestMachine_InvalidOptionLeavesSession(t *testing.T) {
	m := NewMachine()
	_, err := m.Start(1, testBank())
	require.NoError(t, err)

	for _, option := range []int{-1, 4, 100} {
		_, err := m.Submit(1, 0, option)
		assert.ErrorIs(t, err, errs.ErrInvalidOption)
	}

	index, score, ok := m.Progress(1)
	require.True(t, ok)
	assert.Equal(t, 0, index)
	assert.Equal(t, 0, score)
}

func TestMachine_InvalidOptionThreeOptions(t *testing.T) {
	m := NewMachine()
	q := Question{Prompt: "pick", Options: []string{"a", "b", "c"}, Correct: 2}
	_, err := m.Start(1, []Question{q})
	require.NoError(t, err)

	_, err = m.Submit(1, 0, 3)
	assert.ErrorIs(t, err, errs.ErrInvalidOption)

	out, err := m.Submit(1, 0, 2)
	require.NoError(t, err)
	assert.True(t, out.Finished)
}

func TestMachine_StartValidation(t *testing.T) {
	m := NewMachine()

	_, err := m.Start(1, nil)
	assert.ErrorIs(t, err, ErrEmptyBank)

	_, err = m.Start(1, []Question{{Prompt: "two options", Options: []string{"a", "b"}}})
	assert.Error(t, err)

	assert.False(t, m.Active(1))
}

func TestMachine_LastStartWins(t *testing.T) {
	m := NewMachine()
	_, err := m.Start(1, testBank())
	require.NoError(t, err)
	_, err = m.Submit(1, 0, WhatIsMode.Correct)
	require.NoError(t, err)

	step, err := m.Start(1, []Question{layerTwo})
	require.NoError(t, err)
	assert.Equal(t, 0, step.Index)
	assert.Equal(t, 1, step.Total)

	index, score, ok := m.Progress(1)
	require.True(t, ok)
	assert.Equal(t, 0, index)
	assert.Equal(t, 0, score)
}

func TestMachine_BankIsCopied(t *testing.T) {
	m := NewMachine()
	bank := []Question{{
		Prompt:  "copy",
		Options: []string{"a", "b", "c"},
		Correct: 0,
	}}

	_, err := m.Start(1, bank)
	require.NoError(t, err)

	bank[0].Correct = 2
	bank[0].Options[0] = "changed"

	out, err := m.Submit(1, 0, 0)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, "a", out.Answer.Options[0])
}

func TestMachine_ExitIsIdempotent(t *testing.T) {
	m := NewMachine()

	m.Exit(1)
	assert.False(t, m.Active(1))

	_, err := m.Start(1, testBank())
	require.NoError(t, err)

	m.Exit(1)
	m.Exit(1)
	assert.False(t, m.Active(1))
	assert.Equal(t, 0, m.Len())

	_, err = m.Submit(1, 0, 0)
	assert.ErrorIs(t, err, errs.ErrNoActiveSession)
}

func TestMachine_SessionIsolation(t *testing.T) {
	m := NewMachine()
	_, err := m.Start(1, testBank())
	require.NoError(t, err)
	_, err = m.Start(2, []Question{layerTwo, WhatIsMode})
	require.NoError(t, err)

	_, err = m.Submit(1, 0, WhatIsMode.Correct)
	require.NoError(t, err)

	index, score, ok := m.Progress(2)
	require.True(t, ok)
	assert.Equal(t, 0, index)
	assert.Equal(t, 0, score)

	index, score, ok = m.Progress(1)
	require.True(t, ok)
	assert.Equal(t, 1, index)
	assert.Equal(t, 1, score)
}

func TestMachine_ConcurrentUsers(t *testing.T) {
	m := NewMachine()
	bank := testBank()

	const users = 32
	var wg sync.WaitGroup
	for u := int64(0); u < users; u++ {
		wg.Add(1)
		go func(u int64) {
			defer wg.Done()

			step, err := m.Start(u, bank)
			if !assert.NoError(t, err) {
				return
			}
			for {
				// even users answer correctly, odd users do not
				option := step.Question.Correct
				if u%2 == 1 {
					option = (option + 1) % len(step.Question.Options)
				}
				out, err := m.Submit(u, step.Index, option)
				if !assert.NoError(t, err) {
					return
				}
				if out.Finished {
					want := 0
					if u%2 == 0 {
						want = len(bank)
					}
					assert.Equal(t, want, out.Score)
					return
				}
				step = *out.Next
			}
		}(u)
	}
	wg.Wait()

	assert.Equal(t, 0, m.Len())
}

func TestMachine_ConcurrentSubmitsAdvanceOnce(t *testing.T) {
	m := NewMachine()
	_, err := m.Start(1, testBank())
	require.NoError(t, err)

	// every tap carries the button of question 0
	const submits = 8
	var wg sync.WaitGroup
	results := make(chan error, submits)
	for i := 0; i < submits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Submit(1, 0, WhatIsMode.Correct)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, errs.ErrStaleAnswer)
	}
	assert.Equal(t, 1, succeeded)

	index, score, ok := m.Progress(1)
	require.True(t, ok)
	assert.Equal(t, 1, index)
	assert.Equal(t, 1, score)
}

func TestMachine_StaleAnswerLeavesSession(t *testing.T) {
	m := NewMachine()
	_, err := m.Start(1, testBank())
	require.NoError(t, err)

	_, err = m.Submit(1, 0, WhatIsMode.Correct)
	require.NoError(t, err)

	for _, index := range []int{0, 2, -1, 7} {
		_, err := m.Submit(1, index, 1)
		assert.ErrorIs(t, err, errs.ErrStaleAnswer)
		assert.NotErrorIs(t, err, errs.ErrInvalidOption)
	}

	index, score, ok := m.Progress(1)
	require.True(t, ok)
	assert.Equal(t, 1, index)
	assert.Equal(t, 1, score)

	out, err := m.Submit(1, 1, 1)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	require.NotNil(t, out.Next)
	assert.Equal(t, 2, out.Next.Index)
}

func TestMachine_IdleTimeout(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMachine(WithIdleTimeout(10*time.Minute), WithClock(clock.Now))

	_, err := m.Start(1, testBank())
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	_, err = m.Submit(1, 0, 0)
	require.NoError(t, err)

	// activity resets the idle window
	clock.Advance(9 * time.Minute)
	assert.Equal(t, 0, m.Sweep(clock.Now()))
	assert.True(t, m.Active(1))

	clock.Advance(2 * time.Minute)
	_, err = m.Submit(1, 1, 0)
	assert.ErrorIs(t, err, errs.ErrNoActiveSession)
	assert.False(t, m.Active(1))
}

func TestMachine_Sweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMachine(WithIdleTimeout(time.Minute), WithClock(clock.Now))

	_, err := m.Start(1, testBank())
	require.NoError(t, err)
	clock.Advance(45 * time.Second)
	_, err = m.Start(2, testBank())
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	assert.Equal(t, 1, m.Sweep(clock.Now()))
	assert.False(t, m.Active(1))
	assert.True(t, m.Active(2))

	clock.Advance(time.Minute)
	assert.Equal(t, 1, m.Sweep(clock.Now()))
	assert.Equal(t, 0, m.Len())
}

func TestMachine_SweepDisabled(t *testing.T) {
	m := NewMachine()
	_, err := m.Start(1, testBank())
	require.NoError(t, err)

	assert.Equal(t, 0, m.Sweep(time.Now().Add(365*24*time.Hour)))
	assert.True(t, m.Active(1))
}

func TestSweeper(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMachine(WithIdleTimeout(time.Minute), WithClock(clock.Now))

	_, err := m.Start(1, testBank())
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)

	sweeper := NewSweeper(m, 5*time.Millisecond)
	go sweeper.Run(t.Context())

	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
	sweeper.Stop()
}

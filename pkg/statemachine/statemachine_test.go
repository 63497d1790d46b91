package statemachine_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthkit/pkg/statemachine"
)

const (
	draft     statemachine.State = "draft"
	inReview  statemachine.State = "in_review"
	published statemachine.State = "published"
	rejected  statemachine.State = "rejected"

	submit  statemachine.Event = "submit"
	approve statemachine.Event = "approve"
	reject  statemachine.Event = "reject"
)

func workflow() []statemachine.Transition {
	return []statemachine.Transition{
		{From: draft, Event: submit, To: inReview},
		{From: inReview, Event: approve, To: published},
		{From: inReview, Event: reject, To: rejected},
	}
}

func TestDefine(t *testing.T) {
	t.Parallel()

	t.Run("invalid transition", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.Define(draft, []statemachine.Transition{{From: draft, Event: submit}})
		assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)
	})

	t.Run("empty initial state", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.Define("", workflow())
		assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)
	})

	t.Run("ambiguous event", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.Define(draft, append(workflow(), statemachine.Transition{From: draft, Event: submit, To: published}))
		assert.ErrorIs(t, err, statemachine.ErrAmbiguousEvent)
	})

	t.Run("duplicate identical transition is accepted", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.Define(draft, append(workflow(), workflow()[0]))
		assert.NoError(t, err)
	})

	t.Run("must define panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { statemachine.MustDefine("", nil) })
	})
}

func TestRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()
		run := statemachine.MustDefine(draft, workflow()).Start()

		assert.Equal(t, draft, run.Current())
		assert.True(t, run.Can(submit))
		assert.False(t, run.Can(approve))

		require.NoError(t, run.Fire(ctx, submit))
		require.NoError(t, run.Fire(ctx, approve))

		assert.Equal(t, published, run.Current())
		assert.True(t, run.Terminal())
		assert.Equal(t, []statemachine.State{draft, inReview, published}, run.History())
	})

	t.Run("no transition", func(t *testing.T) {
		t.Parallel()
		run := statemachine.MustDefine(draft, workflow()).Start()

		err := run.Fire(ctx, approve)
		require.Error(t, err)
		assert.True(t, statemachine.IsNoTransitionAvailableError(err))
		assert.Equal(t, draft, run.Current())
	})

	t.Run("hooks observe and veto", func(t *testing.T) {
		t.Parallel()
		var seen []statemachine.State
		veto := errors.New("not yet")
		def := statemachine.MustDefine(draft, workflow(),
			statemachine.WithHook(func(_ context.Context, _, to statemachine.State, _ statemachine.Event) error {
				seen = append(seen, to)
				return nil
			}),
			statemachine.WithHook(func(_ context.Context, _, to statemachine.State, _ statemachine.Event) error {
				if to == published {
					return veto
				}
				return nil
			}),
		)

		run := def.Start()
		require.NoError(t, run.Fire(ctx, submit))
		err := run.Fire(ctx, approve)
		require.Error(t, err)
		assert.True(t, statemachine.IsTransitionRejectedError(err))
		assert.ErrorIs(t, err, veto)
		assert.Equal(t, inReview, run.Current())
		assert.Equal(t, []statemachine.State{inReview, published}, seen)
	})

	t.Run("runs are independent", func(t *testing.T) {
		t.Parallel()
		def := statemachine.MustDefine(draft, workflow())

		var wg sync.WaitGroup
		for i := range 16 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				run := def.Start()
				assert.NoError(t, run.Fire(ctx, submit))
				event := approve
				if i%2 == 0 {
					event = reject
				}
				assert.NoError(t, run.Fire(ctx, event))
				assert.True(t, run.Terminal())
			}(i)
		}
		wg.Wait()
	})
}

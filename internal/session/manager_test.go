package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vestahome/designer-hub/internal/form"
	"github.com/vestahome/designer-hub/internal/model"
	"github.com/vestahome/designer-hub/internal/project"
	"github.com/vestahome/designer-hub/internal/wizard"
)

const owner = "sam@vestahome.com"

func newManager() *Manager {
	return NewManager(form.Default(), time.Hour)
}

func confirmSession(t *testing.T, m *Manager, id string) {
	t.Helper()
	require.NoError(t, m.Do(id, owner, func(w *wizard.Wizard) error {
		if err := w.Change(form.FieldProjectID, "VH-2025-001"); err != nil {
			return err
		}
		if err := w.Change(form.FieldMarket, "Florida"); err != nil {
			return err
		}
		if err := w.Change(form.FieldAddress, "1 Ocean Dr"); err != nil {
			return err
		}
		return w.Confirm()
	}))
}

func TestCreateAndView(t *testing.T) {
	m := newManager()
	id, view := m.Create(owner)
	require.NotEmpty(t, id)
	assert.Equal(t, wizard.PhaseConfirming, view.Phase)

	got, err := m.View(id, owner)
	require.NoError(t, err)
	assert.Equal(t, view.Phase, got.Phase)
	assert.Equal(t, 1, m.Stats().Active)
}

func TestOwnership(t *testing.T) {
	m := newManager()
	id, _ := m.Create(owner)

	_, err := m.View(id, "other@vestahome.com")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = m.View("missing", owner)
	assert.ErrorIs(t, err, ErrNotFound)

	// Owner matching ignores case and surrounding space.
	_, err = m.View(id, "  SAM@vestahome.com ")
	assert.NoError(t, err)
}

func TestDoPropagatesError(t *testing.T) {
	m := newManager()
	id, _ := m.Create(owner)

	err := m.Do(id, owner, func(w *wizard.Wizard) error { return w.GoNext() })
	assert.ErrorIs(t, err, wizard.ErrWrongPhase)
}

func TestDelete(t *testing.T) {
	m := newManager()
	id, _ := m.Create(owner)

	assert.ErrorIs(t, m.Delete(id, "other@vestahome.com"), ErrForbidden)
	require.NoError(t, m.Delete(id, owner))
	require.NoError(t, m.Delete(id, owner))
	assert.Equal(t, 0, m.Stats().Active)
}

func TestSweep(t *testing.T) {
	m := newManager()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	stale, _ := m.Create(owner)
	now = now.Add(2 * time.Hour)
	fresh, _ := m.Create(owner)

	assert.Equal(t, 1, m.Sweep())
	_, err := m.View(stale, owner)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.View(fresh, owner)
	assert.NoError(t, err)
}

func TestSweepKeepsSubmitting(t *testing.T) {
	m := newManager()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	id, _ := m.Create(owner)
	confirmSession(t, m, id)
	require.NoError(t, m.Do(id, owner, func(w *wizard.Wizard) error {
		if err := w.JumpTo(w.Len() - 1); err != nil {
			return err
		}
		_, err := w.BeginSubmit()
		return err
	}))

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 0, m.Sweep())
}

func TestRunStopsOnCancel(t *testing.T) {
	m := newManager()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestConcurrentDoIsSerialized(t *testing.T) {
	m := newManager()
	id, _ := m.Create(owner)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Do(id, owner, func(w *wizard.Wizard) error {
				n, _ := w.Answers()["counter"].(int)
				w.Answers()["counter"] = n + 1
				return nil
			})
		}()
	}
	wg.Wait()

	require.NoError(t, m.Do(id, owner, func(w *wizard.Wizard) error {
		assert.Equal(t, 50, w.Answers()["counter"])
		return nil
	}))
}

type stubFinder struct {
	rec *model.Project
}

func (f stubFinder) FindProject(context.Context, string) (*model.Project, error) {
	return f.rec, nil
}

func TestLockerAutofill(t *testing.T) {
	m := newManager()
	id, _ := m.Create(owner)
	require.NoError(t, m.Do(id, owner, func(w *wizard.Wizard) error {
		return w.Change(form.FieldProjectID, "VH-2025-001")
	}))

	out, err := project.Autofill(context.Background(), stubFinder{rec: &model.Project{
		ID: "VH-2025-001", Market: "Florida", Address: "1 Ocean Dr",
	}}, m.Locker(id, owner))
	require.NoError(t, err)
	assert.Equal(t, project.StatusFound, out.Status)

	view, err := m.View(id, owner)
	require.NoError(t, err)
	assert.Equal(t, "Florida", view.Context.Market)
	assert.Equal(t, "1 Ocean Dr", view.Context.Address)
}

type mockSubmitter struct{ mock.Mock }

func (s *mockSubmitter) Submit(ctx context.Context, answers form.Answers, identity *model.Identity) (*model.Submission, error) {
	args := s.Called(ctx, answers, identity)
	sub, _ := args.Get(0).(*model.Submission)
	return sub, args.Error(1)
}

func TestSubmit(t *testing.T) {
	identity := &model.Identity{Email: owner}

	t.Run("success", func(t *testing.T) {
		m := newManager()
		id, _ := m.Create(owner)
		confirmSession(t, m, id)
		require.NoError(t, m.Do(id, owner, func(w *wizard.Wizard) error { return w.JumpTo(w.Len() - 1) }))

		svc := new(mockSubmitter)
		svc.On("Submit", mock.Anything, mock.Anything, identity).
			Return(&model.Submission{ID: "s1", ProjectID: "VH-2025-001"}, nil)

		sub, view, err := m.Submit(context.Background(), id, identity, svc)
		require.NoError(t, err)
		assert.Equal(t, "s1", sub.ID)
		assert.Equal(t, wizard.PhaseSubmitted, view.Phase)
		svc.AssertExpectations(t)
	})

	t.Run("failure returns to last step", func(t *testing.T) {
		m := newManager()
		id, _ := m.Create(owner)
		confirmSession(t, m, id)
		require.NoError(t, m.Do(id, owner, func(w *wizard.Wizard) error { return w.JumpTo(w.Len() - 1) }))

		svc := new(mockSubmitter)
		svc.On("Submit", mock.Anything, mock.Anything, identity).Return(nil, errors.New("db down"))

		sub, view, err := m.Submit(context.Background(), id, identity, svc)
		require.Error(t, err)
		assert.Nil(t, sub)
		assert.Equal(t, wizard.PhaseEditing, view.Phase)
		assert.Equal(t, "db down", view.Error)
		assert.True(t, view.Progress.IsLast)
	})

	t.Run("delete during write is refused", func(t *testing.T) {
		m := newManager()
		id, _ := m.Create(owner)
		confirmSession(t, m, id)
		require.NoError(t, m.Do(id, owner, func(w *wizard.Wizard) error { return w.JumpTo(w.Len() - 1) }))

		var deleteErr error
		svc := new(mockSubmitter)
		svc.On("Submit", mock.Anything, mock.Anything, identity).
			Run(func(mock.Arguments) { deleteErr = m.Delete(id, owner) }).
			Return(&model.Submission{ID: "committed-row"}, nil)

		sub, view, err := m.Submit(context.Background(), id, identity, svc)
		assert.ErrorIs(t, deleteErr, wizard.ErrSubmitInFlight)
		require.NoError(t, err)
		assert.Equal(t, "committed-row", sub.ID)
		assert.Equal(t, wizard.PhaseSubmitted, view.Phase)

		require.NoError(t, m.Delete(id, owner))
		_, err = m.View(id, owner)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("stored row survives a vanished session", func(t *testing.T) {
		m := newManager()
		id, _ := m.Create(owner)
		confirmSession(t, m, id)
		require.NoError(t, m.Do(id, owner, func(w *wizard.Wizard) error { return w.JumpTo(w.Len() - 1) }))

		svc := new(mockSubmitter)
		svc.On("Submit", mock.Anything, mock.Anything, identity).
			Run(func(mock.Arguments) {
				m.mu.Lock()
				delete(m.entries, id)
				m.mu.Unlock()
			}).
			Return(&model.Submission{ID: "committed-row"}, nil)

		sub, view, err := m.Submit(context.Background(), id, identity, svc)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, "committed-row", sub.ID)
		assert.Equal(t, wizard.PhaseSubmitted, view.Phase)
	})

	t.Run("not on last step", func(t *testing.T) {
		m := newManager()
		id, _ := m.Create(owner)
		confirmSession(t, m, id)

		svc := new(mockSubmitter)
		_, _, err := m.Submit(context.Background(), id, identity, svc)
		assert.ErrorIs(t, err, wizard.ErrNotLastStep)
		svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
	})
}

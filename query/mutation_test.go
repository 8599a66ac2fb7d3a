package query

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/jonwraymond/pcokit/cache"
)

type scheduleArgs struct {
	ServiceTypeID, PlanID, PersonID string
}

func TestMutation_Success(t *testing.T) {
	qc, _ := newTestClient()
	var got string
	m := NewMutation(qc, func(_ context.Context, a scheduleArgs) (string, error) {
		return "pp-" + a.PersonID, nil
	}, MutationOptions[scheduleArgs, string]{
		Name:      "schedules",
		OnSuccess: func(v string) { got = v },
	})

	if err := m.Mutate(context.Background(), scheduleArgs{"st1", "p1", "per1"}); err != nil {
		t.Fatalf("Mutate() error = %v", err)
	}
	st := m.State()
	if !st.HasData || st.Data != "pp-per1" || st.Loading || st.Err != nil {
		t.Errorf("state = %+v", st)
	}
	if got != "pp-per1" {
		t.Errorf("OnSuccess got %q", got)
	}
}

func TestMutation_DoesNotTouchCache(t *testing.T) {
	qc, store := newTestClient()
	ctx := context.Background()
	key := cache.BuildKey("schedules", "st1", "p1")
	if err := store.Set(ctx, key, []byte(`["a"]`), 0); err != nil {
		t.Fatal(err)
	}

	m := NewMutation(qc, func(context.Context, scheduleArgs) (string, error) {
		return "created", nil
	}, MutationOptions[scheduleArgs, string]{})
	if err := m.Mutate(ctx, scheduleArgs{}); err != nil {
		t.Fatal(err)
	}

	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
	if b, ok := store.Get(ctx, key); !ok || string(b) != `["a"]` {
		t.Errorf("entry = %q, %v; want unchanged", b, ok)
	}
}

func TestMutation_InvalidatesOnSuccessOnly(t *testing.T) {
	qc, store := newTestClient()
	ctx := context.Background()
	p1 := cache.BuildKey("schedules", "st1", "p1")
	p10 := cache.BuildKey("schedules", "st1", "p10")

	fail := false
	m := NewMutation(qc, func(context.Context, scheduleArgs) (string, error) {
		if fail {
			return "", errors.New("boom")
		}
		return "ok", nil
	}, MutationOptions[scheduleArgs, string]{
		Invalidates: func(a scheduleArgs) []string {
			return []string{cache.KeyPrefix("schedules", a.ServiceTypeID, a.PlanID)}
		},
	})

	seed := func() {
		for _, k := range []string{p1, p10} {
			if err := store.Set(ctx, k, []byte(`[]`), 0); err != nil {
				t.Fatal(err)
			}
		}
	}

	seed()
	fail = true
	_ = m.Mutate(ctx, scheduleArgs{ServiceTypeID: "st1", PlanID: "p1"})
	if _, ok := store.Get(ctx, p1); !ok {
		t.Fatal("failed mutation must not invalidate")
	}

	fail = false
	if err := m.Mutate(ctx, scheduleArgs{ServiceTypeID: "st1", PlanID: "p1"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.Get(ctx, p1); ok {
		t.Error("p1 schedules should be evicted")
	}
	if _, ok := store.Get(ctx, p10); !ok {
		t.Error("p10 schedules should survive")
	}
}

func TestMutation_ErrorPropagation(t *testing.T) {
	qc, _ := newTestClient()
	var onError atomic.Int32
	m := NewMutation(qc, func(context.Context, int) (int, error) {
		return 0, errors.New("boom")
	}, MutationOptions[int, int]{OnError: func(error) { onError.Add(1) }})

	err := m.Mutate(context.Background(), 1)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("Mutate() error = %v, want boom", err)
	}
	st := m.State()
	if st.Err != err || st.HasData || st.Loading {
		t.Errorf("state = %+v", st)
	}
	if onError.Load() != 1 {
		t.Errorf("OnError called %d times, want 1", onError.Load())
	}
}

func TestMutation_FailureKeepsPreviousResult(t *testing.T) {
	qc, _ := newTestClient()
	calls := 0
	m := NewMutation(qc, func(_ context.Context, v int) (int, error) {
		calls++
		if calls > 1 {
			return 0, errors.New("boom")
		}
		return v, nil
	}, MutationOptions[int, int]{})
	ctx := context.Background()

	_ = m.Mutate(ctx, 7)
	_ = m.Mutate(ctx, 8)
	st := m.State()
	if !st.HasData || st.Data != 7 || st.Err == nil {
		t.Errorf("state = %+v, want previous result and error", st)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (no retries)", calls)
	}

	m.Reset()
	if st := m.State(); st.HasData || st.Err != nil {
		t.Errorf("state after Reset = %+v", st)
	}
}

func TestMutation_Panic(t *testing.T) {
	qc, _ := newTestClient()
	m := NewMutation(qc, func(context.Context, int) (int, error) {
		panic("kaboom")
	}, MutationOptions[int, int]{Name: "donations"})
	if err := m.Mutate(context.Background(), 1); !errors.Is(err, ErrPanic) {
		t.Errorf("Mutate() error = %v, want ErrPanic", err)
	}
}

func TestMutation_Subscribe(t *testing.T) {
	qc, _ := newTestClient()
	m := NewMutation(qc, func(context.Context, int) (int, error) { return 2, nil }, MutationOptions[int, int]{})
	ch, unsubscribe := m.Subscribe()
	defer unsubscribe()

	if err := m.Mutate(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if st := <-ch; !st.Loading {
		t.Errorf("first state = %+v, want loading", st)
	}
	if st := <-ch; st.Loading || st.Data != 2 {
		t.Errorf("second state = %+v", st)
	}
}

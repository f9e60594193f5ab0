package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/settings-service/internal/model"
	"github.com/maxviazov/settings-service/internal/repository"
)

// Clock is a manually advanced time source. Stores stamp rows with whole
// seconds, so ordering tests advance it explicitly between writes.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SettingsFactory builds a fresh, empty repository stamping rows with clock.Now.
type SettingsFactory func(t *testing.T, clock *Clock) (repository.SettingsRepository, func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func RunSettingsRepositoryContract(t *testing.T, makeRepo SettingsFactory) {
	t.Helper()

	setup := func(t *testing.T) (repository.SettingsRepository, *Clock) {
		clock := NewClock()
		repo, cleanup := makeRepo(t, clock)
		t.Cleanup(cleanup)
		return repo, clock
	}

	t.Run("create_and_get_round_trip", func(t *testing.T) {
		repo, _ := setup(t)
		ctx := context.Background()
		payloads := []string{
			`{"foo":"bar"}`,
			`{}`,
			`{"b":1,"a":2,"c":{"z":[1,2,{"y":null}],"x":true}}`,
			`{"n":1.0,"e":1e3,"big":12345678901234567890,"neg":-0.5}`,
			`{"unicode":"héllo ✓","escaped":"<a & b>"}`,
			"{\n  \"spaced\" : [ 1 , 2 ]\n}",
		}
		for _, p := range payloads {
			created, err := repo.Create(ctx, model.NewSettings(json.RawMessage(p)))
			if err != nil {
				t.Fatalf("create %s: %v", p, err)
			}
			got, err := repo.GetByID(ctx, created.ID)
			if err != nil {
				t.Fatalf("get %s: %v", p, err)
			}
			if got.ID != created.ID {
				t.Fatalf("id mismatch: got %s want %s", got.ID, created.ID)
			}
			if want := compact(t, p); !bytes.Equal(compact(t, string(got.Data)), want) {
				t.Fatalf("payload changed: got %s want %s", got.Data, want)
			}
		}
	})

	t.Run("create_returns_input_unchanged", func(t *testing.T) {
		repo, _ := setup(t)
		in := model.NewSettings(json.RawMessage(`{"foo":"bar"}`))
		out, err := repo.Create(context.Background(), in)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if out.ID != in.ID || string(out.Data) != string(in.Data) {
			t.Fatalf("create altered record: %+v", out)
		}
	})

	t.Run("create_duplicate_id_storage_error", func(t *testing.T) {
		repo, _ := setup(t)
		ctx := context.Background()
		s := model.NewSettings(json.RawMessage(`{"a":1}`))
		if _, err := repo.Create(ctx, s); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := repo.Create(ctx, s)
		if !errors.Is(err, repository.ErrStorage) {
			t.Fatalf("expected ErrStorage, got %v", err)
		}
		if errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("collision must not look like not found: %v", err)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, _ := setup(t)
		_, err := repo.GetByID(context.Background(), uuid.New())
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_empty", func(t *testing.T) {
		repo, _ := setup(t)
		res, err := repo.List(context.Background(), repository.Page{Limit: 10, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 0 || res.Items == nil || len(res.Items) != 0 {
			t.Fatalf("unexpected empty page: %+v", res)
		}
	})

	t.Run("list_single_record", func(t *testing.T) {
		repo, _ := setup(t)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.NewSettings(json.RawMessage(`{"foo":"bar"}`)))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		res, err := repo.List(ctx, repository.Page{Limit: 10, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 1 || len(res.Items) != 1 || res.Items[0].ID != created.ID {
			t.Fatalf("unexpected page: %+v", res)
		}
		if string(res.Items[0].Data) != `{"foo":"bar"}` {
			t.Fatalf("unexpected payload: %s", res.Items[0].Data)
		}
	})

	t.Run("list_most_recent_first", func(t *testing.T) {
		repo, clock := setup(t)
		a := mustCreate(t, repo, `{"name":"A"}`)
		clock.Advance(time.Second)
		b := mustCreate(t, repo, `{"name":"B"}`)

		first := mustList(t, repo, 1, 0)
		if len(first.Items) != 1 || first.Items[0].ID != b.ID {
			t.Fatalf("expected B first, got %+v", first.Items)
		}
		second := mustList(t, repo, 1, 1)
		if len(second.Items) != 1 || second.Items[0].ID != a.ID {
			t.Fatalf("expected A second, got %+v", second.Items)
		}
		if first.Total != 2 || second.Total != 2 {
			t.Fatalf("unexpected totals: %d %d", first.Total, second.Total)
		}
	})

	t.Run("list_same_second_newest_insert_first", func(t *testing.T) {
		repo, _ := setup(t)
		a := mustCreate(t, repo, `{"name":"A"}`)
		b := mustCreate(t, repo, `{"name":"B"}`)
		c := mustCreate(t, repo, `{"name":"C"}`)
		res := mustList(t, repo, 10, 0)
		got := ids(res.Items)
		want := []uuid.UUID{c.ID, b.ID, a.ID}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Fatalf("order = %v, want %v", got, want)
		}
	})

	t.Run("update_moves_record_to_front", func(t *testing.T) {
		repo, clock := setup(t)
		ctx := context.Background()
		a := mustCreate(t, repo, `{"name":"A"}`)
		clock.Advance(time.Second)
		b := mustCreate(t, repo, `{"name":"B"}`)
		clock.Advance(time.Second)
		if _, err := repo.Update(ctx, a.ID, model.Settings{Data: json.RawMessage(`{"name":"A2"}`)}); err != nil {
			t.Fatalf("update: %v", err)
		}
		res := mustList(t, repo, 10, 0)
		want := []uuid.UUID{a.ID, b.ID}
		if fmt.Sprint(ids(res.Items)) != fmt.Sprint(want) {
			t.Fatalf("order = %v, want %v", ids(res.Items), want)
		}
	})

	t.Run("list_pagination_bounds", func(t *testing.T) {
		repo, clock := setup(t)
		const n = 5
		for i := 0; i < n; i++ {
			mustCreate(t, repo, fmt.Sprintf(`{"i":%d}`, i))
			clock.Advance(time.Second)
		}
		for _, limit := range []int{0, 1, 2, 5, 7} {
			for _, offset := range []int{0, 2, 5, 9} {
				res := mustList(t, repo, limit, offset)
				want := min(limit, max(0, n-offset))
				if len(res.Items) != want {
					t.Fatalf("limit=%d offset=%d: got %d items, want %d", limit, offset, len(res.Items), want)
				}
				if res.Total != n {
					t.Fatalf("limit=%d offset=%d: total=%d, want %d", limit, offset, res.Total, n)
				}
				if res.Limit != limit || res.Offset != offset {
					t.Fatalf("window not echoed: got (%d,%d) want (%d,%d)", res.Limit, res.Offset, limit, offset)
				}
			}
		}
	})

	t.Run("list_huge_limit", func(t *testing.T) {
		repo, clock := setup(t)
		for i := 0; i < 3; i++ {
			mustCreate(t, repo, fmt.Sprintf(`{"i":%d}`, i))
			clock.Advance(time.Second)
		}
		for _, offset := range []int{0, 1, 3, math.MaxInt} {
			res := mustList(t, repo, math.MaxInt, offset)
			want := max(0, 3-offset)
			if len(res.Items) != want {
				t.Fatalf("offset=%d: got %d items, want %d", offset, len(res.Items), want)
			}
			if res.Total != 3 || res.Limit != math.MaxInt || res.Offset != offset {
				t.Fatalf("offset=%d: envelope (%d,%d,%d)", offset, res.Total, res.Limit, res.Offset)
			}
		}
	})

	t.Run("update_preserves_identity", func(t *testing.T) {
		repo, _ := setup(t)
		ctx := context.Background()
		orig := mustCreate(t, repo, `{"v":1}`)
		decoy := uuid.New()
		out, err := repo.Update(ctx, orig.ID, model.Settings{ID: decoy, Data: json.RawMessage(`{"v":2}`)})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if out.ID != orig.ID {
			t.Fatalf("update changed id: got %s want %s", out.ID, orig.ID)
		}
		if string(out.Data) != `{"v":2}` {
			t.Fatalf("unexpected returned payload: %s", out.Data)
		}
		got, err := repo.GetByID(ctx, orig.ID)
		if err != nil {
			t.Fatalf("record orphaned from its id after update: %v", err)
		}
		if string(got.Data) != `{"v":2}` {
			t.Fatalf("payload not replaced: %s", got.Data)
		}
		if _, err := repo.GetByID(ctx, decoy); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("update must not mint a row under the supplied record id, got %v", err)
		}
		if res := mustList(t, repo, 10, 0); res.Total != 1 {
			t.Fatalf("update changed row count: %d", res.Total)
		}
	})

	t.Run("update_not_found", func(t *testing.T) {
		repo, _ := setup(t)
		_, err := repo.Update(context.Background(), uuid.New(), model.NewSettings(json.RawMessage(`{"x":1}`)))
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if res := mustList(t, repo, 10, 0); res.Total != 0 {
			t.Fatalf("update on missing id must not insert, total=%d", res.Total)
		}
	})

	t.Run("delete_removes_record", func(t *testing.T) {
		repo, _ := setup(t)
		ctx := context.Background()
		s := mustCreate(t, repo, `{"gone":true}`)
		if err := repo.Delete(ctx, s.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.GetByID(ctx, s.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("delete_idempotent", func(t *testing.T) {
		repo, _ := setup(t)
		ctx := context.Background()
		s := mustCreate(t, repo, `{"a":1}`)
		for i := 0; i < 2; i++ {
			if err := repo.Delete(ctx, s.ID); err != nil {
				t.Fatalf("delete #%d: %v", i+1, err)
			}
		}
		never := uuid.New()
		for i := 0; i < 2; i++ {
			if err := repo.Delete(ctx, never); err != nil {
				t.Fatalf("delete of unknown id #%d: %v", i+1, err)
			}
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}

func mustCreate(t *testing.T, repo repository.SettingsRepository, payload string) model.Settings {
	t.Helper()
	s, err := repo.Create(context.Background(), model.NewSettings(json.RawMessage(payload)))
	if err != nil {
		t.Fatalf("seed %s: %v", payload, err)
	}
	return s
}

func mustList(t *testing.T, repo repository.SettingsRepository, limit, offset int) repository.PageResult[model.Settings] {
	t.Helper()
	res, err := repo.List(context.Background(), repository.Page{Limit: limit, Offset: offset})
	if err != nil {
		t.Fatalf("list(%d,%d): %v", limit, offset, err)
	}
	return res
}

func ids(items []model.Settings) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(items))
	for _, s := range items {
		out = append(out, s.ID)
	}
	return out
}

func compact(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		t.Fatalf("compact %q: %v", s, err)
	}
	return buf.Bytes()
}

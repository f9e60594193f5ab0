// Package memory provides an in-process settings store used as a test double.
// It honors the same behavioural contract as the SQLite store.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/settings-service/internal/model"
	"github.com/maxviazov/settings-service/internal/repository"
)

type row struct {
	data []byte
	time int64
	// seq mirrors SQLite's rowid: assigned on insert, untouched by update.
	seq uint64
}

// Store keeps settings in a map guarded by a RWMutex.
type Store struct {
	mu      sync.RWMutex
	rows    map[uuid.UUID]row
	nextSeq uint64
	now     func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces the wall clock used to stamp modification times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{rows: make(map[uuid.UUID]row), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Create(ctx context.Context, st model.Settings) (model.Settings, error) {
	if err := ctx.Err(); err != nil {
		return model.Settings{}, repository.StorageError("create settings", err)
	}
	data, err := compact(st.Data)
	if err != nil {
		return model.Settings{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[st.ID]; ok {
		return model.Settings{}, repository.StorageError("create settings",
			fmt.Errorf("duplicate id %s", st.ID), repository.ErrAlreadyExists)
	}
	s.nextSeq++
	s.rows[st.ID] = row{data: data, time: s.now().Unix(), seq: s.nextSeq}
	return st, nil
}

func (s *Store) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Settings], error) {
	if err := ctx.Err(); err != nil {
		return repository.PageResult[model.Settings]{}, repository.StorageError("list settings", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		id uuid.UUID
		row
	}
	all := make([]entry, 0, len(s.rows))
	for id, r := range s.rows {
		all = append(all, entry{id: id, row: r})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].time != all[j].time {
			return all[i].time > all[j].time
		}
		return all[i].seq > all[j].seq
	})

	res := repository.PageResult[model.Settings]{
		Items:  make([]model.Settings, 0),
		Total:  len(all),
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	start := min(max(p.Offset, 0), len(all))
	end := len(all)
	// compare against the remainder so a huge limit can't overflow
	if p.Limit >= 0 && p.Limit < end-start {
		end = start + p.Limit
	} else if p.Limit < 0 {
		end = start
	}
	for _, e := range all[start:end] {
		res.Items = append(res.Items, model.Settings{ID: e.id, Data: clone(e.data)})
	}
	return res, nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (model.Settings, error) {
	if err := ctx.Err(); err != nil {
		return model.Settings{}, repository.StorageError("get settings", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rows[id]
	if !ok {
		return model.Settings{}, repository.ErrNotFound
	}
	return model.Settings{ID: id, Data: clone(r.data)}, nil
}

func (s *Store) Update(ctx context.Context, id uuid.UUID, st model.Settings) (model.Settings, error) {
	if err := ctx.Err(); err != nil {
		return model.Settings{}, repository.StorageError("update settings", err)
	}
	data, err := compact(st.Data)
	if err != nil {
		return model.Settings{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return model.Settings{}, repository.ErrNotFound
	}
	r.data = data
	r.time = s.now().Unix()
	s.rows[id] = r
	return model.Settings{ID: id, Data: st.Data}, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return repository.StorageError("delete settings", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

// Ping always succeeds; there is nothing to reach.
func (s *Store) Ping(context.Context) error { return nil }

func compact(data json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, fmt.Errorf("encode settings payload: %w", err)
	}
	return buf.Bytes(), nil
}

func clone(b []byte) json.RawMessage {
	return json.RawMessage(bytes.Clone(b))
}

var (
	_ repository.SettingsRepository = (*Store)(nil)
	_ repository.Pinger             = (*Store)(nil)
)

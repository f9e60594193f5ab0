package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/settings-service/internal/model"
	"github.com/maxviazov/settings-service/internal/repository"
)

const (
	insertSettingsSQL = `INSERT INTO settings (id, data, time) VALUES (?, ?, ?)`
	countSettingsSQL  = `SELECT COUNT(*) FROM settings`
	// rowid breaks ties between rows stamped in the same second, newest insert first.
	listSettingsSQL = `SELECT id, data FROM settings
		 ORDER BY time DESC, rowid DESC
		 LIMIT ? OFFSET ?`
	getSettingsSQL    = `SELECT id, data FROM settings WHERE id = ?`
	updateSettingsSQL = `UPDATE settings SET data = ?, time = ? WHERE id = ?`
	deleteSettingsSQL = `DELETE FROM settings WHERE id = ?`
)

func (s *Store) Create(ctx context.Context, st model.Settings) (model.Settings, error) {
	if err := s.ensureDB(); err != nil {
		return model.Settings{}, err
	}
	data, err := encodePayload(st.Data)
	if err != nil {
		return model.Settings{}, err
	}
	args := []any{st.ID.String(), data, s.now().Unix()}
	start := time.Now()
	_, err = s.db.ExecContext(ctx, insertSettingsSQL, args...)
	s.tracer.trace(insertSettingsSQL, args, start, err)
	if err != nil {
		return model.Settings{}, mapSQLiteError("create settings", err)
	}
	return st, nil
}

// List runs the count and the page query independently; under concurrent
// writes Total and Items may come from slightly different snapshots.
func (s *Store) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Settings], error) {
	if err := s.ensureDB(); err != nil {
		return repository.PageResult[model.Settings]{}, err
	}

	var total int
	start := time.Now()
	err := s.db.QueryRowContext(ctx, countSettingsSQL).Scan(&total)
	s.tracer.trace(countSettingsSQL, nil, start, err)
	if err != nil {
		return repository.PageResult[model.Settings]{}, mapSQLiteError("count settings", err)
	}

	args := []any{p.Limit, p.Offset}
	start = time.Now()
	rows, err := s.db.QueryContext(ctx, listSettingsSQL, args...)
	s.tracer.trace(listSettingsSQL, args, start, err)
	if err != nil {
		return repository.PageResult[model.Settings]{}, mapSQLiteError("list settings", err)
	}
	defer rows.Close()

	res := repository.PageResult[model.Settings]{
		Items:  make([]model.Settings, 0),
		Total:  total,
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return repository.PageResult[model.Settings]{}, mapSQLiteError("scan settings", err)
		}
		// one undecodable row fails the whole page
		st, err := decodeRow(id, data)
		if err != nil {
			return repository.PageResult[model.Settings]{}, err
		}
		res.Items = append(res.Items, st)
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Settings]{}, mapSQLiteError("iterate settings", err)
	}
	return res, nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (model.Settings, error) {
	if err := s.ensureDB(); err != nil {
		return model.Settings{}, err
	}
	var rowID, data string
	args := []any{id.String()}
	start := time.Now()
	err := s.db.QueryRowContext(ctx, getSettingsSQL, args...).Scan(&rowID, &data)
	s.tracer.trace(getSettingsSQL, args, start, err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Settings{}, repository.ErrNotFound
		}
		return model.Settings{}, mapSQLiteError("get settings", err)
	}
	return decodeRow(rowID, data)
}

// Update rewrites the row in place, so the record stays reachable by id.
func (s *Store) Update(ctx context.Context, id uuid.UUID, st model.Settings) (model.Settings, error) {
	if err := s.ensureDB(); err != nil {
		return model.Settings{}, err
	}
	data, err := encodePayload(st.Data)
	if err != nil {
		return model.Settings{}, err
	}
	args := []any{data, s.now().Unix(), id.String()}
	start := time.Now()
	res, err := s.db.ExecContext(ctx, updateSettingsSQL, args...)
	s.tracer.trace(updateSettingsSQL, args, start, err)
	if err != nil {
		return model.Settings{}, mapSQLiteError("update settings", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Settings{}, mapSQLiteError("update settings", err)
	}
	if affected == 0 {
		return model.Settings{}, repository.ErrNotFound
	}
	return model.Settings{ID: id, Data: st.Data}, nil
}

// Delete succeeds whether or not a row existed.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	args := []any{id.String()}
	start := time.Now()
	_, err := s.db.ExecContext(ctx, deleteSettingsSQL, args...)
	s.tracer.trace(deleteSettingsSQL, args, start, err)
	if err != nil {
		return mapSQLiteError("delete settings", err)
	}
	return nil
}

// encodePayload produces the canonical stored form: the same JSON with
// insignificant whitespace removed.
func encodePayload(data json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return "", fmt.Errorf("encode settings payload: %w", err)
	}
	return buf.String(), nil
}

func decodeRow(id, data string) (model.Settings, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.Settings{}, repository.CorruptDataError("settings id "+id, err)
	}
	if !json.Valid([]byte(data)) {
		return model.Settings{}, repository.CorruptDataError("settings payload "+id, errors.New("invalid json"))
	}
	return model.Settings{ID: parsed, Data: json.RawMessage(data)}, nil
}

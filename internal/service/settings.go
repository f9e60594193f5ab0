package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/settings-service/internal/config"
	"github.com/maxviazov/settings-service/internal/model"
	"github.com/maxviazov/settings-service/internal/repository"
	"github.com/rs/zerolog"
)

// settingsService holds settings use-case logic: validation + orchestration, no transport / SQL details.
type settingsService struct {
	repo  repository.SettingsRepository
	pages config.PaginationConfig
	log   zerolog.Logger
}

func NewSettingsService(repo repository.SettingsRepository, pages config.PaginationConfig, logger zerolog.Logger) SettingsService {
	l := logger.With().Str("module", "service").Str("component", "settings").Logger()
	return &settingsService{repo: repo, pages: pages, log: l}
}

func (s *settingsService) CreateSettings(ctx context.Context, data json.RawMessage) (model.Settings, error) {
	start := time.Now()
	if err := validatePayload(data); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("settings validation failed")
		return model.Settings{}, err
	}

	out, err := s.repo.Create(ctx, model.NewSettings(data))
	if err != nil {
		s.logFailure(err).Msg("create settings failed")
		return model.Settings{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("settings_id", out.ID.String()).Msg("settings created")
	return out, nil
}

func (s *settingsService) GetSettings(ctx context.Context, id uuid.UUID) (model.Settings, error) {
	out, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logFailure(err).Str("settings_id", id.String()).Msg("get settings failed")
		return model.Settings{}, err
	}
	return out, nil
}

func (s *settingsService) ListSettings(ctx context.Context, q PageQuery) (repository.PageResult[model.Settings], error) {
	p, err := normalizePage(q, s.pages)
	if err != nil {
		return repository.PageResult[model.Settings]{}, err
	}
	res, err := s.repo.List(ctx, p)
	if err != nil {
		s.logFailure(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list settings failed")
		return repository.PageResult[model.Settings]{}, err
	}
	return res, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, id uuid.UUID, data json.RawMessage) (model.Settings, error) {
	if err := validatePayload(data); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Str("settings_id", id.String()).Msg("settings validation failed")
		return model.Settings{}, err
	}
	out, err := s.repo.Update(ctx, id, model.Settings{ID: id, Data: data})
	if err != nil {
		s.logFailure(err).Str("settings_id", id.String()).Msg("update settings failed")
		return model.Settings{}, err
	}
	s.log.Info().Str("settings_id", out.ID.String()).Msg("settings updated")
	return out, nil
}

// DeleteSettings is idempotent: deleting an unknown id succeeds.
func (s *settingsService) DeleteSettings(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logFailure(err).Str("settings_id", id.String()).Msg("delete settings failed")
		return err
	}
	s.log.Info().Str("settings_id", id.String()).Msg("settings deleted")
	return nil
}

// logFailure keeps not-found quiet and records storage and corrupt-data
// failures with full detail; callers add fields and the message.
func (s *settingsService) logFailure(err error) *zerolog.Event {
	if errors.Is(err, repository.ErrNotFound) {
		return s.log.Debug().Err(err)
	}
	event := s.log.Error().Err(err)
	if errors.Is(err, repository.ErrCorruptData) {
		event = event.Str("failure", "corrupt_data")
	} else if errors.Is(err, repository.ErrStorage) {
		event = event.Str("failure", "storage")
	}
	return event
}

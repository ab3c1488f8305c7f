package zones

import (
	"context"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
)

// ZoneDTO is the localized zone representation returned to clients.
type ZoneDTO struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	NameEN string `json:"name_en"`
	NameHI string `json:"name_hi"`
}

type zoneRepo interface {
	List(ctx context.Context) ([]models.Zone, error)
	Exists(ctx context.Context, code string) (bool, error)
}

// ServiceParams groups dependencies for the zone service.
type ServiceParams struct {
	Repo zoneRepo
}

// Service exposes the zone registry.
type Service interface {
	ListZones(ctx context.Context, lang enums.Language) ([]ZoneDTO, error)
	EnsureExists(ctx context.Context, code string) error
}

type service struct {
	repo zoneRepo
}

// NewService builds a zone service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "zone repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// ListZones returns all zones with the display name resolved for lang.
// Hindi is the default when the caller has no stated preference.
func (s *service) ListZones(ctx context.Context, lang enums.Language) ([]ZoneDTO, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list zones")
	}

	dtos := make([]ZoneDTO, 0, len(records))
	for _, record := range records {
		name := record.NameHI
		if lang == enums.LanguageEnglish {
			name = record.NameEN
		}
		dtos = append(dtos, ZoneDTO{
			Code:   record.Code,
			Name:   name,
			NameEN: record.NameEN,
			NameHI: record.NameHI,
		})
	}
	return dtos, nil
}

// EnsureExists validates that the zone code is registered.
func (s *service) EnsureExists(ctx context.Context, code string) error {
	if code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "zone code is required")
	}
	exists, err := s.repo.Exists(ctx, code)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load zone")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "zone not found")
	}
	return nil
}

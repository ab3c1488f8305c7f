package zones

import (
	"context"
	"errors"
	"testing"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
)

type stubZoneRepo struct {
	zones   []models.Zone
	listErr error
	exists  map[string]bool
}

func (s *stubZoneRepo) List(ctx context.Context) ([]models.Zone, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.zones, nil
}

func (s *stubZoneRepo) Exists(ctx context.Context, code string) (bool, error) {
	return s.exists[code], nil
}

func TestListZonesLocalizesName(t *testing.T) {
	repo := &stubZoneRepo{
		zones: []models.Zone{
			{Code: "karol-bagh", NameEN: "Karol Bagh", NameHI: "करोल बाग़"},
		},
	}
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	hindi, err := svc.ListZones(context.Background(), enums.LanguageHindi)
	if err != nil {
		t.Fatalf("list zones: %v", err)
	}
	if hindi[0].Name != "करोल बाग़" {
		t.Fatalf("expected hindi name, got %q", hindi[0].Name)
	}

	english, err := svc.ListZones(context.Background(), enums.LanguageEnglish)
	if err != nil {
		t.Fatalf("list zones: %v", err)
	}
	if english[0].Name != "Karol Bagh" {
		t.Fatalf("expected english name, got %q", english[0].Name)
	}
}

func TestListZonesRepoFailure(t *testing.T) {
	repo := &stubZoneRepo{listErr: errors.New("boom")}
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.ListZones(context.Background(), enums.LanguageHindi)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestEnsureExists(t *testing.T) {
	repo := &stubZoneRepo{exists: map[string]bool{"karol-bagh": true}}
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.EnsureExists(context.Background(), "karol-bagh"); err != nil {
		t.Fatalf("expected zone to exist, got %v", err)
	}
	if err := svc.EnsureExists(context.Background(), "rohini"); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.EnsureExists(context.Background(), ""); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

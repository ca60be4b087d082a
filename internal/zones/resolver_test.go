package zones

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/harvestlane/farmbasket-backend/pkg/db/models"
	pkgerrors "github.com/harvestlane/farmbasket-backend/pkg/errors"
	"go.uber.org/multierr"
)

func newFarm(name string, zones ...models.DeliveryZone) *models.Farm {
	return &models.Farm{ID: uuid.New(), Name: name, DeliveryZones: zones}
}

func TestResolveFirstMatch(t *testing.T) {
	t.Parallel()

	farm := newFarm("Green Acres",
		models.DeliveryZone{ID: uuid.New(), Name: "SF", Areas: []string{"94107", "94110"}},
		models.DeliveryZone{ID: uuid.New(), Name: "East Bay", Areas: []string{"94601"}},
	)

	zone, err := Resolve(farm, "94107")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zone == nil || zone.Name != "SF" {
		t.Fatalf("expected SF zone, got %+v", zone)
	}

	zone, err = Resolve(farm, "90001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zone != nil {
		t.Fatalf("expected no zone for 90001, got %+v", zone)
	}
}

func TestResolveZeroZones(t *testing.T) {
	t.Parallel()

	zone, err := Resolve(newFarm("No Zones"), "94107")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zone != nil {
		t.Fatalf("farm with zero zones serves nowhere, got %+v", zone)
	}
}

func TestResolveNormalizesKey(t *testing.T) {
	t.Parallel()

	farm := newFarm("Green Acres",
		models.DeliveryZone{ID: uuid.New(), Name: "SF", Areas: []string{"94107"}},
	)
	zone, err := Resolve(farm, "  94107 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zone == nil {
		t.Fatal("expected trimmed key to match")
	}

	zone, err = Resolve(farm, "")
	if err != nil || zone != nil {
		t.Fatalf("empty key must be not-serviceable, got %+v, %v", zone, err)
	}
}

func TestResolveRejectsOverlap(t *testing.T) {
	t.Parallel()

	farm := newFarm("Twin Peaks",
		models.DeliveryZone{ID: uuid.New(), Name: "North", Areas: []string{"94107"}},
		models.DeliveryZone{ID: uuid.New(), Name: "South", Areas: []string{"94107"}},
	)

	_, err := Resolve(farm, "94107")
	if err == nil {
		t.Fatal("expected overlap to fail resolution")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDataIntegrity {
		t.Fatalf("expected data integrity error, got %v", err)
	}
	if !strings.Contains(err.Error(), "North") || !strings.Contains(err.Error(), "South") {
		t.Fatalf("expected both zone names in error, got %v", err)
	}
}

func TestServiceable(t *testing.T) {
	t.Parallel()

	farm := newFarm("Green Acres",
		models.DeliveryZone{ID: uuid.New(), Name: "SF", Areas: []string{"94107"}},
	)
	ok, err := Serviceable(farm, "94107")
	if err != nil || !ok {
		t.Fatalf("expected serviceable, got %v, %v", ok, err)
	}
	ok, err = Serviceable(farm, "90001")
	if err != nil || ok {
		t.Fatalf("expected not serviceable, got %v, %v", ok, err)
	}
}

func TestValidateFarmCollectsAllOverlaps(t *testing.T) {
	t.Parallel()

	farm := newFarm("Messy Farm",
		models.DeliveryZone{ID: uuid.New(), Name: "A", Areas: []string{"94107", "94110"}},
		models.DeliveryZone{ID: uuid.New(), Name: "B", Areas: []string{"94107"}},
		models.DeliveryZone{ID: uuid.New(), Name: "C", Areas: []string{"94110"}},
	)

	err := ValidateFarm(farm)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if got := len(multierr.Errors(err)); got != 2 {
		t.Fatalf("expected both overlaps reported, got %d: %v", got, err)
	}
}

func TestValidateFarmCleanData(t *testing.T) {
	t.Parallel()

	farm := newFarm("Tidy Farm",
		models.DeliveryZone{ID: uuid.New(), Name: "A", Areas: []string{"94107"}},
		models.DeliveryZone{ID: uuid.New(), Name: "B", Areas: []string{"94110"}},
	)
	if err := ValidateFarm(farm); err != nil {
		t.Fatalf("expected clean farm to validate, got %v", err)
	}
}

package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/example/material-reserve/internal/persistence"
)

func newTestMaterial(id, title string, quantity int) persistence.Material {
	return persistence.Material{
		ID:          id,
		Title:       title,
		Description: "bancada 3",
		Type:        "kit",
		Quantity:    quantity,
		CreatedAt:   testTime(),
		UpdatedAt:   testTime(),
	}
}

func TestMaterialRepository_CreateAndGet(t *testing.T) {
	repo := NewMaterialRepository(newTestPool(t))
	ctx := context.Background()

	if err := repo.CreateMaterial(ctx, newTestMaterial("m1", "Arduino Uno", 4)); err != nil {
		t.Fatalf("CreateMaterial failed: %v", err)
	}

	retrieved, err := repo.GetMaterial(ctx, "m1")
	if err != nil {
		t.Fatalf("GetMaterial failed: %v", err)
	}
	if retrieved.Title != "Arduino Uno" {
		t.Errorf("Expected title 'Arduino Uno', got '%s'", retrieved.Title)
	}
	if retrieved.Quantity != 4 {
		t.Errorf("Expected quantity 4, got %d", retrieved.Quantity)
	}
	if !retrieved.CreatedAt.Equal(testTime()) {
		t.Errorf("Expected created_at roundtrip, got %v", retrieved.CreatedAt)
	}
}

func TestMaterialRepository_Get_NotFound(t *testing.T) {
	repo := NewMaterialRepository(newTestPool(t))

	if _, err := repo.GetMaterial(context.Background(), "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestMaterialRepository_Create_RejectsNegativeQuantity(t *testing.T) {
	repo := NewMaterialRepository(newTestPool(t))

	err := repo.CreateMaterial(context.Background(), newTestMaterial("m1", "Arduino", -1))
	if !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("Expected ErrConstraintViolation, got %v", err)
	}
}

func TestMaterialRepository_Update(t *testing.T) {
	repo := NewMaterialRepository(newTestPool(t))
	ctx := context.Background()

	material := newTestMaterial("m1", "Arduino Uno", 4)
	if err := repo.CreateMaterial(ctx, material); err != nil {
		t.Fatalf("CreateMaterial failed: %v", err)
	}

	material.Title = "Arduino Mega"
	material.Quantity = 2
	if err := repo.UpdateMaterial(ctx, material); err != nil {
		t.Fatalf("UpdateMaterial failed: %v", err)
	}

	retrieved, err := repo.GetMaterial(ctx, "m1")
	if err != nil {
		t.Fatalf("GetMaterial failed: %v", err)
	}
	if retrieved.Title != "Arduino Mega" || retrieved.Quantity != 2 {
		t.Errorf("Expected updated fields, got %+v", retrieved)
	}
}

func TestMaterialRepository_Update_NotFound(t *testing.T) {
	repo := NewMaterialRepository(newTestPool(t))

	err := repo.UpdateMaterial(context.Background(), newTestMaterial("missing", "X", 1))
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestMaterialRepository_List_OrderedByTitle(t *testing.T) {
	repo := NewMaterialRepository(newTestPool(t))
	ctx := context.Background()

	for _, material := range []persistence.Material{
		newTestMaterial("m1", "Protoboard", 10),
		newTestMaterial("m2", "Arduino Uno", 4),
		newTestMaterial("m3", "Multímetro", 2),
	} {
		if err := repo.CreateMaterial(ctx, material); err != nil {
			t.Fatalf("CreateMaterial failed: %v", err)
		}
	}

	materials, err := repo.ListMaterials(ctx)
	if err != nil {
		t.Fatalf("ListMaterials failed: %v", err)
	}
	if len(materials) != 3 {
		t.Fatalf("Expected 3 materials, got %d", len(materials))
	}
	if materials[0].Title != "Arduino Uno" || materials[2].Title != "Protoboard" {
		t.Errorf("Expected title order, got %s / %s / %s", materials[0].Title, materials[1].Title, materials[2].Title)
	}
}

func TestMaterialRepository_Delete(t *testing.T) {
	repo := NewMaterialRepository(newTestPool(t))
	ctx := context.Background()

	if err := repo.CreateMaterial(ctx, newTestMaterial("m1", "Arduino", 4)); err != nil {
		t.Fatalf("CreateMaterial failed: %v", err)
	}

	if err := repo.DeleteMaterial(ctx, "m1"); err != nil {
		t.Fatalf("DeleteMaterial failed: %v", err)
	}
	if _, err := repo.GetMaterial(ctx, "m1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteMaterial(ctx, "m1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMaterialRepository_Delete_ClearsReservationLinks(t *testing.T) {
	pool := newTestPool(t)
	materials := NewMaterialRepository(pool)
	reservations := NewReservationRepository(pool)
	ctx := context.Background()

	if err := materials.CreateMaterial(ctx, newTestMaterial("m1", "Arduino", 4)); err != nil {
		t.Fatalf("CreateMaterial failed: %v", err)
	}
	if err := reservations.CreateReservation(ctx, newTestReservation("res1", "user1", "m1")); err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}

	if err := materials.DeleteMaterial(ctx, "m1"); err != nil {
		t.Fatalf("DeleteMaterial failed: %v", err)
	}

	retrieved, err := reservations.GetReservation(ctx, "res1")
	if err != nil {
		t.Fatalf("GetReservation failed: %v", err)
	}
	if len(retrieved.MaterialIDs) != 0 {
		t.Errorf("Expected material links cleared, got %v", retrieved.MaterialIDs)
	}
}

func TestMaterialRepository_ReserveUnit(t *testing.T) {
	repo := NewMaterialRepository(newTestPool(t))
	ctx := context.Background()

	if err := repo.CreateMaterial(ctx, newTestMaterial("m1", "Arduino", 2)); err != nil {
		t.Fatalf("CreateMaterial failed: %v", err)
	}

	if err := repo.ReserveUnit(ctx, "m1"); err != nil {
		t.Fatalf("First ReserveUnit failed: %v", err)
	}
	if err := repo.ReserveUnit(ctx, "m1"); err != nil {
		t.Fatalf("Second ReserveUnit failed: %v", err)
	}

	// Stock is gone; the conditional decrement must not drive it negative.
	if err := repo.ReserveUnit(ctx, "m1"); !errors.Is(err, persistence.ErrDepleted) {
		t.Fatalf("Expected ErrDepleted, got %v", err)
	}

	retrieved, err := repo.GetMaterial(ctx, "m1")
	if err != nil {
		t.Fatalf("GetMaterial failed: %v", err)
	}
	if retrieved.Quantity != 0 {
		t.Errorf("Expected quantity 0, got %d", retrieved.Quantity)
	}
}

func TestMaterialRepository_ReserveUnit_NotFound(t *testing.T) {
	repo := NewMaterialRepository(newTestPool(t))

	if err := repo.ReserveUnit(context.Background(), "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestMaterialRepository_ReleaseUnit(t *testing.T) {
	repo := NewMaterialRepository(newTestPool(t))
	ctx := context.Background()

	if err := repo.CreateMaterial(ctx, newTestMaterial("m1", "Arduino", 0)); err != nil {
		t.Fatalf("CreateMaterial failed: %v", err)
	}

	if err := repo.ReleaseUnit(ctx, "m1"); err != nil {
		t.Fatalf("ReleaseUnit failed: %v", err)
	}

	retrieved, err := repo.GetMaterial(ctx, "m1")
	if err != nil {
		t.Fatalf("GetMaterial failed: %v", err)
	}
	if retrieved.Quantity != 1 {
		t.Errorf("Expected quantity 1, got %d", retrieved.Quantity)
	}

	if err := repo.ReleaseUnit(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/keyval"
)

func TestQRService_Generate(t *testing.T) {
	kv := newStubKV()
	svc := NewQRService(&stubEncoder{}, kv, 200, discardLogger)

	result, err := svc.Generate(context.Background(), "Juan Dela Cruz", "2023-00123", "Cainta", "juan@icct.edu.ph")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Payload.StudentID != "2023-00123" {
		t.Fatalf("unexpected payload: %+v", result.Payload)
	}
	if result.Payload.Version != domain.QRPayloadVersion {
		t.Fatalf("expected version %s, got %s", domain.QRPayloadVersion, result.Payload.Version)
	}
	if result.Payload.GeneratedAt == "" {
		t.Fatalf("expected generation timestamp")
	}
	if !result.Exportable || len(result.Image) == 0 {
		t.Fatalf("expected rendered image")
	}

	if _, ok, _ := kv.Get(context.Background(), keyval.KeyStudentQR); !ok {
		t.Fatalf("payload not persisted")
	}
}

func TestQRService_Generate_Validation(t *testing.T) {
	svc := NewQRService(&stubEncoder{}, newStubKV(), 200, discardLogger)

	cases := [][4]string{
		{"", "2023-00123", "Cainta", ""},
		{"Juan", "", "Cainta", ""},
		{"Juan", "2023-00123", "", ""},
	}
	for _, c := range cases {
		if _, err := svc.Generate(context.Background(), c[0], c[1], c[2], c[3]); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation for %v, got %v", c, err)
		}
	}
}

func TestQRService_Generate_RenderFailureStillPersists(t *testing.T) {
	kv := newStubKV()
	svc := NewQRService(&stubEncoder{fail: true}, kv, 200, discardLogger)

	result, err := svc.Generate(context.Background(), "Juan Dela Cruz", "2023-00123", "Cainta", "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Exportable {
		t.Fatalf("failed render must not be exportable")
	}
	if result.Payload.StudentID != "2023-00123" {
		t.Fatalf("payload must survive render failure")
	}
	if _, ok, _ := kv.Get(context.Background(), keyval.KeyStudentQR); !ok {
		t.Fatalf("payload must be persisted before rendering")
	}
}

func TestQRService_LoadSaved(t *testing.T) {
	kv := newStubKV()
	svc := NewQRService(&stubEncoder{}, kv, 200, discardLogger)

	// nothing saved yet
	result, err := svc.LoadSaved(context.Background())
	if err != nil {
		t.Fatalf("LoadSaved: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result with empty store")
	}

	if _, err := svc.Generate(context.Background(), "Juan Dela Cruz", "2023-00123", "Cainta", ""); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	result, err = svc.LoadSaved(context.Background())
	if err != nil {
		t.Fatalf("LoadSaved: %v", err)
	}
	if result == nil || result.Payload.StudentID != "2023-00123" {
		t.Fatalf("saved payload not restored: %+v", result)
	}
	if !result.Exportable {
		t.Fatalf("expected re-rendered image")
	}
}

func TestQRService_LoadSaved_DiscardsCorruptPayload(t *testing.T) {
	kv := newStubKV()
	_ = kv.Set(context.Background(), keyval.KeyStudentQR, "{not json")
	svc := NewQRService(&stubEncoder{}, kv, 200, discardLogger)

	result, err := svc.LoadSaved(context.Background())
	if err != nil {
		t.Fatalf("LoadSaved: %v", err)
	}
	if result != nil {
		t.Fatalf("corrupt payload must be treated as absent")
	}
	if _, ok, _ := kv.Get(context.Background(), keyval.KeyStudentQR); ok {
		t.Fatalf("corrupt payload must be removed")
	}
}

func TestQRService_DeleteSaved(t *testing.T) {
	kv := newStubKV()
	svc := NewQRService(&stubEncoder{}, kv, 200, discardLogger)

	if _, err := svc.Generate(context.Background(), "Juan Dela Cruz", "2023-00123", "Cainta", ""); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if err := svc.DeleteSaved(context.Background(), false); !errors.Is(err, domain.ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}
	if err := svc.DeleteSaved(context.Background(), true); err != nil {
		t.Fatalf("DeleteSaved: %v", err)
	}
	if _, ok, _ := kv.Get(context.Background(), keyval.KeyStudentQR); ok {
		t.Fatalf("payload should be gone")
	}
}

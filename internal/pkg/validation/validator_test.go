package validation

import (
	"errors"
	"strings"
	"testing"
)

type polygonPayload struct {
	Coordinates []float64 `json:"coordinates" validate:"required,even"`
	Name        string    `json:"name" validate:"required,max=255"`
}

type markerForm struct {
	Latitude string  `form:"latitude" validate:"required,numeric"`
	Title    *string `json:"title,omitempty" validate:"omitnil,min=1"`
}

func TestValidateStruct_OK(t *testing.T) {
	p := polygonPayload{Coordinates: []float64{1, 2, 3, 4}, Name: "A"}
	if err := ValidateStruct(&p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStruct_UsesJSONNames(t *testing.T) {
	err := ValidateStruct(&polygonPayload{})
	if err == nil {
		t.Fatal("expected error")
	}

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(verr.Fields))
	}
	if verr.Fields[0].Message != "coordinates is required" {
		t.Errorf("unexpected message %q", verr.Fields[0].Message)
	}
	if verr.Fields[1].Message != "name is required" {
		t.Errorf("unexpected message %q", verr.Fields[1].Message)
	}
}

func TestValidateStruct_OddCoordinates(t *testing.T) {
	err := ValidateStruct(&polygonPayload{Coordinates: []float64{1, 2, 3}, Name: "A"})
	if err == nil {
		t.Fatal("expected error for odd coordinate count")
	}
	if !strings.Contains(err.Error(), "even number") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestValidateStruct_FormTagAndOmitNil(t *testing.T) {
	empty := ""
	err := ValidateStruct(&markerForm{Latitude: "abc", Title: &empty})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "latitude must be a number") {
		t.Errorf("expected latitude message, got %q", msg)
	}
	if !strings.Contains(msg, "title must be at least 1 characters") {
		t.Errorf("expected title message, got %q", msg)
	}

	if err := ValidateStruct(&markerForm{Latitude: "-12.5"}); err != nil {
		t.Errorf("nil title should be skipped: %v", err)
	}
}

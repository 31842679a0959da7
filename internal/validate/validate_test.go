package validate

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Phone string `json:"phone" validate:"required"`
	Pins  int64  `json:"pins" validate:"gt=0,max=1000"`
}

func TestStructOK(t *testing.T) {
	if err := Struct(sample{Phone: "+15550001", Pins: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(sample{Pins: 0})
	if err == nil {
		t.Fatal("expected error")
	}
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("err = %T, want *Error", err)
	}
	if verr.Fields["phone"] != "is required" {
		t.Fatalf("phone message = %q", verr.Fields["phone"])
	}
	if _, ok := verr.Fields["pins"]; !ok {
		t.Fatal("pins violation missing")
	}
	if !strings.Contains(verr.Error(), "phone is required") {
		t.Fatalf("message = %q", verr.Error())
	}
}

func TestStructMaxBound(t *testing.T) {
	err := Struct(sample{Phone: "+15550001", Pins: 1001})
	if err == nil {
		t.Fatal("expected error")
	}
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("err = %T, want *Error", err)
	}
	if verr.Fields["pins"] != "must be at most 1000" {
		t.Fatalf("pins message = %q", verr.Fields["pins"])
	}
}

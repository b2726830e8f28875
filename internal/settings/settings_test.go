package settings

import (
	"testing"
	"time"
)

func TestNormalizeFillsMissingValues(t *testing.T) {
	got := Timings{ToastSuccess: time.Second}.Normalize()
	want := Defaults()
	want.ToastSuccess = time.Second
	if got != want {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestDefaultsMatchReferenceBehaviour(t *testing.T) {
	d := Defaults()
	if d.HideResetAfter != 90*time.Second || d.ToastSuccess != 3*time.Second || d.ToastError != 4*time.Second {
		t.Fatalf("unexpected defaults %#v", d)
	}
}

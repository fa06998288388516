package logging

import (
	"errors"
	"testing"
	"time"
)

func TestNewFields(t *testing.T) {
	fields := NewFields()
	if fields == nil {
		t.Fatal("NewFields() returned nil")
	}
	if len(fields) != 0 {
		t.Errorf("NewFields() should be empty, got %d fields", len(fields))
	}
}

func TestFields_Component(t *testing.T) {
	fields := NewFields().Component("policy-engine")
	if fields["component"] != "policy-engine" {
		t.Errorf("Component() = %v", fields["component"])
	}
}

func TestFields_Operation(t *testing.T) {
	fields := NewFields().Operation("classify")
	if fields["operation"] != "classify" {
		t.Errorf("Operation() = %v", fields["operation"])
	}
}

func TestFields_Resource(t *testing.T) {
	fields := NewFields().Resource("playbook", "FIX-S3-PUBLIC")
	if fields["resource_type"] != "playbook" {
		t.Errorf("resource_type = %v", fields["resource_type"])
	}
	if fields["resource_name"] != "FIX-S3-PUBLIC" {
		t.Errorf("resource_name = %v", fields["resource_name"])
	}
}

func TestFields_ResourceWithoutName(t *testing.T) {
	fields := NewFields().Resource("playbook", "")
	if _, exists := fields["resource_name"]; exists {
		t.Error("resource_name should not be set when empty")
	}
}

func TestFields_Duration(t *testing.T) {
	fields := NewFields().Duration(150 * time.Millisecond)
	if fields["duration_ms"] != int64(150) {
		t.Errorf("duration_ms = %v", fields["duration_ms"])
	}
}

func TestFields_Error(t *testing.T) {
	fields := NewFields().Error(errors.New("boom"))
	if fields["error"] != "boom" {
		t.Errorf("error = %v", fields["error"])
	}
}

func TestFields_ErrorNil(t *testing.T) {
	fields := NewFields().Error(nil)
	if _, exists := fields["error"]; exists {
		t.Error("Error(nil) should not set error field")
	}
}

func TestFields_ToArgs(t *testing.T) {
	fields := NewFields().Component("c").Operation("o")
	args := fields.ToArgs()
	if len(args) != 4 {
		t.Fatalf("ToArgs() len = %d, want 4", len(args))
	}
}

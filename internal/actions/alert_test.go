package actions

import "testing"

func TestClassifyAlert_Empty(t *testing.T) {
	if got := ClassifyAlert(nil); got != nil {
		t.Errorf("ClassifyAlert(nil) = %+v, want nil", got)
	}
	if got := ClassifyAlert([]Anomaly{}); got != nil {
		t.Errorf("ClassifyAlert(empty) = %+v, want nil", got)
	}
}

func TestClassifyAlert_Critical(t *testing.T) {
	got := ClassifyAlert([]Anomaly{
		{Reason: "Urgent: heart rate spike"},
		{Reason: "low water"},
	})
	if got == nil {
		t.Fatal("got nil alert")
	}
	if got.Type != AlertCritical {
		t.Errorf("Type = %q, want %q", got.Type, AlertCritical)
	}
	if got.Message != "1 critical health metrics detected" {
		t.Errorf("Message = %q", got.Message)
	}
	if got.Details != "Urgent: heart rate spike" {
		t.Errorf("Details = %q", got.Details)
	}
}

func TestClassifyAlert_CriticalJoinsAllUrgentReasons(t *testing.T) {
	got := ClassifyAlert([]Anomaly{
		{Reason: "Urgent: heart rate spike"},
		{Reason: "low sleep"},
		{Reason: "Urgent: no activity recorded"},
	})
	if got == nil {
		t.Fatal("got nil alert")
	}
	if got.Message != "2 critical health metrics detected" {
		t.Errorf("Message = %q", got.Message)
	}
	if got.Details != "Urgent: heart rate spike, Urgent: no activity recorded" {
		t.Errorf("Details = %q", got.Details)
	}
}

func TestClassifyAlert_Warning(t *testing.T) {
	got := ClassifyAlert([]Anomaly{
		{Reason: "low water"},
		{Reason: "low sleep"},
	})
	if got == nil {
		t.Fatal("got nil alert")
	}
	if got.Type != AlertWarning {
		t.Errorf("Type = %q, want %q", got.Type, AlertWarning)
	}
	if got.Message != "2 health metrics need attention" {
		t.Errorf("Message = %q", got.Message)
	}
	if got.Details != "low water" {
		t.Errorf("Details = %q, want first anomaly's reason", got.Details)
	}
}

func TestClassifyAlert_MarkerIsCaseSensitive(t *testing.T) {
	got := ClassifyAlert([]Anomaly{{Reason: "urgent: heart rate spike"}})
	if got == nil {
		t.Fatal("got nil alert")
	}
	if got.Type != AlertWarning {
		t.Errorf("lowercase marker should not escalate: Type = %q", got.Type)
	}
}

func TestClassifyAlert_EmptyReasonFallsBackToGenericDetails(t *testing.T) {
	got := ClassifyAlert([]Anomaly{{Metric: "steps"}})
	if got == nil {
		t.Fatal("got nil alert")
	}
	if got.Details != "Review your health data" {
		t.Errorf("Details = %q, want generic fallback", got.Details)
	}
}

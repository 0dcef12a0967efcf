package events

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestSubjects(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{SubjectRunCreated("abc"), "staffing.run.abc.created"},
		{SubjectRunStarted("abc"), "staffing.run.abc.started"},
		{SubjectRunCompleted("abc"), "staffing.run.abc.completed"},
		{SubjectRunFailed("abc"), "staffing.run.abc.failed"},
		{SubjectRunExported("abc"), "staffing.run.abc.exported"},
		{SubjectEmployeeUpserted("emp-a"), "staffing.roster.employee.emp-a.upserted"},
		{SubjectProjectUpserted("proj-1"), "staffing.roster.project.proj-1.upserted"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, tt.got)
		}
	}
	for _, tt := range tests {
		if !strings.HasPrefix(tt.got, "staffing.run.") && !strings.HasPrefix(tt.got, "staffing.roster.") {
			t.Errorf("subject %s outside the stream's subject space", tt.got)
		}
	}
}

func TestPublishRejectsUnmarshalableData(t *testing.T) {
	c := &NATSClient{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	// A channel cannot be marshaled; the error must surface before any
	// connection use.
	if err := c.Publish("staffing.run.x.created", make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}

package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"

	"ncr-quality-backend/internal/domain/eightd"
)

func TestNewGemini_RequiresKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), "", "", ""); !errors.Is(err, eightd.ErrDrafterUnavailable) {
		t.Fatalf("want ErrDrafterUnavailable, got %v", err)
	}
}

func TestUnavailable(t *testing.T) {
	if _, err := (Unavailable{}).Draft(context.Background(), eightd.Subject{}); !errors.Is(err, eightd.ErrDrafterUnavailable) {
		t.Fatalf("got %v", err)
	}
}

func TestPrompt_EmbedsSubject(t *testing.T) {
	p := Prompt(eightd.Subject{
		Customer: "LGE", Model: "TX-100", PartName: "Bracket", PartNo: "BR-7",
		DefectContent: "burr on edge", Source: "사내",
	}, "Korean")
	for _, want := range []string{"LGE", "TX-100 / Bracket", "BR-7", "burr on edge", "사내", "Korean", "5-step"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
	if strings.Contains(Prompt(eightd.Subject{}, "English"), "part number") {
		t.Error("empty part number should be omitted")
	}
}

func TestDraftSchema(t *testing.T) {
	s := DraftSchema()
	if s.Type != genai.TypeObject || len(s.Required) != 5 {
		t.Fatalf("top-level schema = %+v", s)
	}
	cms := s.Properties["countermeasures"]
	if cms == nil || cms.Type != genai.TypeArray || cms.MinItems == nil || *cms.MinItems != 2 {
		t.Fatalf("countermeasures schema = %+v", cms)
	}
	kinds := cms.Items.Properties["type"].Enum
	if len(kinds) != 2 || kinds[0] != "Prevent" || kinds[1] != "Detection" {
		t.Fatalf("kind enum = %v", kinds)
	}
	if len(s.Properties["sevenW"].Required) != 7 {
		t.Fatalf("sevenW required = %v", s.Properties["sevenW"].Required)
	}
}

package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"ncr-quality-backend/internal/domain/eightd"
)

// Gemini drafts 8D report sections with one JSON-mode GenerateContent call.
type Gemini struct {
	client   *genai.Client
	model    string
	language string
}

func NewGemini(ctx context.Context, apiKey, model, language string) (*Gemini, error) {
	if apiKey == "" {
		return nil, eightd.ErrDrafterUnavailable
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if language == "" {
		language = "Korean"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model, language: language}, nil
}

func (g *Gemini) Draft(ctx context.Context, s eightd.Subject) ([]byte, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(s, g.language)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   DraftSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("generate draft: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("generate draft: empty response")
	}
	return []byte(text), nil
}

// Unavailable is wired when no API key is configured.
type Unavailable struct{}

func (Unavailable) Draft(context.Context, eightd.Subject) ([]byte, error) {
	return nil, eightd.ErrDrafterUnavailable
}

// Prompt describes the defect and what each report section should contain.
func Prompt(s eightd.Subject, language string) string {
	var b strings.Builder
	b.WriteString("You are a quality engineer for automotive and electronic component manufacturing.\n")
	b.WriteString("Draft an 8D corrective action report for the non-conformance below.\n\n")
	b.WriteString("Non-conformance:\n")
	fmt.Fprintf(&b, "- customer: %s\n", s.Customer)
	fmt.Fprintf(&b, "- model / part: %s / %s\n", s.Model, s.PartName)
	if s.PartNo != "" {
		fmt.Fprintf(&b, "- part number: %s\n", s.PartNo)
	}
	fmt.Fprintf(&b, "- defect: %s\n", s.DefectContent)
	fmt.Fprintf(&b, "- found at: %s\n\n", s.Source)
	b.WriteString("Sections:\n")
	b.WriteString("1. sevenW: define the problem concretely (who, what, when, where, why, howMany, howOften).\n")
	b.WriteString("2. containment: immediate containment such as sorting and quarantine.\n")
	fmt.Fprintf(&b, "3. rootCause: a %d-step why chain for occurrence (whyHappened) and for outflow (whyNotDetected).\n", eightd.WhyDepth)
	b.WriteString("4. countermeasures: at least one Prevent (occurrence) and one Detection (outflow) action.\n")
	b.WriteString("5. reviewAndConfirm: expected effect and how the fix is standardized.\n")
	fmt.Fprintf(&b, "Write every value in %s; keep technical terms in their usual form.\n", language)
	return b.String()
}

func str(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

// DraftSchema mirrors eightd.DraftResponse.
func DraftSchema() *genai.Schema {
	minCountermeasures := int64(2)
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"sevenW": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"who":      str(""),
					"what":     str(""),
					"when":     str(""),
					"where":    str(""),
					"why":      str(""),
					"howMany":  str(""),
					"howOften": str(""),
				},
				Required: []string{"who", "what", "when", "where", "why", "howMany", "howOften"},
			},
			"containment": str("immediate containment actions"),
			"rootCause": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"whyHappened":    {Type: genai.TypeArray, Items: str(""), Description: "occurrence why chain"},
					"whyNotDetected": {Type: genai.TypeArray, Items: str(""), Description: "outflow why chain"},
				},
				Required: []string{"whyHappened", "whyNotDetected"},
			},
			"countermeasures": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"action": str("countermeasure detail"),
						"type": {
							Type: genai.TypeString,
							Enum: []string{string(eightd.KindPrevent), string(eightd.KindDetection)},
						},
					},
					Required: []string{"action", "type"},
				},
				MinItems: &minCountermeasures,
			},
			"reviewAndConfirm": str("expected effect and standardization"),
		},
		Required: []string{"sevenW", "containment", "rootCause", "countermeasures", "reviewAndConfirm"},
	}
}

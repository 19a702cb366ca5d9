package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/hirecheck/hirecheck/internal/ai"
	"github.com/hirecheck/hirecheck/internal/logger"
	"github.com/hirecheck/hirecheck/internal/records"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// Assessor asks Gemini for a narrative comparison of the two documents. Its
// output is auxiliary evidence only; the matching engine never consumes it.
type Assessor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAssessor(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Assessor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Assessor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Assess builds the comparison prompt and parses the model's best-effort JSON
// answer. A malformed answer degrades to a raw-text-only assessment rather
// than an error; the verification run must not depend on the collaborator
// behaving.
func (a *Assessor) Assess(ctx context.Context, cv *records.CVDocument, pf *records.PFDocument) (*ai.NarrativeAssessment, error) {
	if cv == nil {
		return nil, fmt.Errorf("cv document is required")
	}
	if pf == nil {
		return nil, fmt.Errorf("pf document is required")
	}

	cvJSON, err := marshalRecords(cv.Records)
	if err != nil {
		return nil, fmt.Errorf("marshal cv records: %w", err)
	}

	pfJSON, err := marshalRecords(pf.Records)
	if err != nil {
		return nil, fmt.Errorf("marshal pf records: %w", err)
	}

	prompt := buildPrompt(cvJSON, pfJSON)

	a.logger.Debug("gemini assessment request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini assessment response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	assessment := parseResponse(raw)
	assessment.Raw = raw
	return assessment, nil
}

// marshalRecords renders the canonical records for the prompt. The original
// upstream entry rides along so the model sees fields the normalizer does not
// interpret (contribution amounts, job titles).
func marshalRecords(recs []records.EmploymentRecord) (string, error) {
	payload := make([]map[string]any, 0, len(recs))
	for _, r := range recs {
		payload = append(payload, map[string]any{
			"employer": r.Employer,
			"period":   r.Period(),
			"raw":      r.Raw,
		})
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func buildPrompt(cvJSON, pfJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "CV:\n{{CV_JSON}}\n\nPF:\n{{PF_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{CV_JSON}}", cvJSON)
	prompt = strings.ReplaceAll(prompt, "{{PF_JSON}}", pfJSON)
	return prompt
}

// parseResponse never fails: when the model output is not JSON the assessment
// carries only the raw text.
func parseResponse(raw string) *ai.NarrativeAssessment {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return &ai.NarrativeAssessment{}
	}

	return &ai.NarrativeAssessment{
		Summary: coerceString(data["summary"]),
		Status:  strings.ToUpper(coerceString(data["status"])),
		Details: coerceString(data["details"]),
	}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

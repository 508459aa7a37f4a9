package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/skillmatcher/internal/ai"
	"github.com/spigell/skillmatcher/internal/logger"
	"github.com/spigell/skillmatcher/internal/taxonomy"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	GenerateContentWithCache(ctx context.Context, prompt, cacheName string) (string, error)
	EnsureTaxonomyCache(ctx context.Context, snapshotID, displayName, payload string) (string, error)
}

// Extractor asks Gemini to map resume text onto taxonomy skill ids
// with evidenced proficiency levels. The taxonomy skill list is
// embedded in the prompt so the model can only answer with known ids;
// anything else is dropped downstream by profile normalization.
type Extractor struct {
	generator contentGenerator
	snapshot  *taxonomy.Snapshot
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewExtractor(generator contentGenerator, snapshot *taxonomy.Snapshot, logger *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Extractor{
		generator: generator,
		snapshot:  snapshot,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Extract sends the resume text to Gemini and parses the returned
// skill tags.
func (e *Extractor) Extract(ctx context.Context, resumeText string) (*ai.Extraction, error) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return nil, fmt.Errorf("resume text is required")
	}

	skillsJSON, err := taxonomyPayload(e.snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal taxonomy payload: %w", err)
	}

	raw, err := e.generate(ctx, skillsJSON, resumeText)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini extract response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)

	extraction, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	extraction.Raw = raw
	return extraction, nil
}

// cachedTaxonomyNote replaces the inline skill list when the payload
// already sits in a Gemini cached content resource.
const cachedTaxonomyNote = "(the taxonomy skill list above is provided as cached content)"

// generate keeps the serialized taxonomy in a Gemini content cache so
// repeated extractions against the same snapshot do not resend it. A
// cache failure falls back to inlining the payload in the prompt.
func (e *Extractor) generate(ctx context.Context, skillsJSON, resumeText string) (string, error) {
	cacheName, err := e.generator.EnsureTaxonomyCache(ctx, payloadID(skillsJSON), "", skillsJSON)
	if err != nil {
		e.logger.Debug("taxonomy cache unavailable, inlining the payload", zap.Error(err))

		prompt := buildPrompt(skillsJSON, resumeText)
		e.logPrompt(prompt)
		return e.generator.GenerateContent(ctx, prompt)
	}

	prompt := buildPrompt(cachedTaxonomyNote, resumeText)
	e.logPrompt(prompt)
	return e.generator.GenerateContentWithCache(ctx, prompt, cacheName)
}

func (e *Extractor) logPrompt(prompt string) {
	e.logger.Debug("gemini extract request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)
}

// payloadID keys the cache by payload content, so a rebuilt taxonomy
// gets a fresh cache entry.
func payloadID(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return fmt.Sprintf("%x", sum[:8])
}

// taxonomyPayload serializes the snapshot's skills for the prompt.
func taxonomyPayload(snap *taxonomy.Snapshot) (string, error) {
	type promptSkill struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Category string `json:"category,omitempty"`
	}

	skills := make([]promptSkill, 0, snap.Len())
	for _, id := range snap.IDs() {
		sk, _ := snap.Skill(id)
		skills = append(skills, promptSkill{ID: sk.ID, Name: sk.Name, Category: sk.Category})
	}

	data, err := json.MarshalIndent(skills, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func buildPrompt(skillsJSON, resumeText string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Skills:\n{{TAXONOMY_JSON}}\n\nResume:\n{{RESUME_TEXT}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{TAXONOMY_JSON}}", skillsJSON)
	prompt = strings.ReplaceAll(prompt, "{{RESUME_TEXT}}", resumeText)
	return prompt
}

func parseResponse(raw string) (*ai.Extraction, error) {
	cleaned := extractJSON(raw)

	var tags []struct {
		Skill    string `json:"skill"`
		Level    string `json:"level"`
		Evidence string `json:"evidence"`
	}
	if err := json.Unmarshal([]byte(cleaned), &tags); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	extraction := &ai.Extraction{Tags: make([]ai.SkillTag, 0, len(tags))}
	for _, tag := range tags {
		skill := strings.TrimSpace(tag.Skill)
		if skill == "" {
			continue
		}
		extraction.Tags = append(extraction.Tags, ai.SkillTag{
			Skill:    skill,
			Level:    strings.ToLower(strings.TrimSpace(tag.Level)),
			Evidence: strings.TrimSpace(tag.Evidence),
		})
	}

	return extraction, nil
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

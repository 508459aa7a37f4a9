package ai

import "context"

// SkillTag is one normalized skill observation extracted from resume
// text: a taxonomy skill id plus the proficiency the evidence
// supports.
type SkillTag struct {
	Skill    string
	Level    string
	Evidence string
}

// Extraction is the full output of one extraction call. Raw keeps the
// unparsed model response for debugging.
type Extraction struct {
	Tags []SkillTag
	Raw  string
}

// Extractor turns unstructured resume text into normalized skill tags.
// The matching core treats this stage as a black box: whatever ids the
// extractor produces still pass through taxonomy validation and
// profile normalization.
type Extractor interface {
	Extract(ctx context.Context, resumeText string) (*Extraction, error)
}

package taxonomy

// SkillRecord is the raw input for one skill, as it arrives from the
// taxonomy dataset. Parents and EquivalentTo reference other skill ids.
type SkillRecord struct {
	ID           string   `yaml:"id" mapstructure:"id"`
	Name         string   `yaml:"name" mapstructure:"name"`
	Category     string   `yaml:"category" mapstructure:"category"`
	Parents      []string `yaml:"parents" mapstructure:"parents"`
	EquivalentTo []string `yaml:"equivalent_to" mapstructure:"equivalent_to"`
}

// Skill is a validated taxonomy entry inside a built snapshot.
type Skill struct {
	ID       string
	Name     string
	Category string
	Parents  []string
}

// Relation describes how a held skill relates to a required one.
type Relation int

const (
	// RelationNone means the two skills are not connected at all.
	RelationNone Relation = iota
	// RelationExact covers the same skill or a member of the same
	// equivalence class.
	RelationExact
	// RelationNarrower means the held skill is a descendant of the
	// required one (specific implies general).
	RelationNarrower
	// RelationBroader means the held skill is an ancestor of the
	// required one (general imperfectly predicts specific).
	RelationBroader
)

func (r Relation) String() string {
	switch r {
	case RelationExact:
		return "exact"
	case RelationNarrower:
		return "narrower"
	case RelationBroader:
		return "broader"
	default:
		return "none"
	}
}

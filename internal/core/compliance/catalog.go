package compliance

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Keyword set names referenced by the rule battery.
const (
	setPOBox               = "po_box"
	setStreet              = "street"
	setOccupationContext   = "occupation_context"
	setVagueOccupation     = "vague_occupation"
	setVagueWithoutDetail  = "vague_without_detail"
	setSignature           = "signature"
	setBeneficiary         = "beneficiary"
	setRelationship        = "relationship"
	setDateOfBirth         = "date_of_birth"
	setAccountType         = "account_type"
	setInvestmentObjective = "investment_objective"
)

var requiredSets = []string{
	setPOBox, setStreet, setOccupationContext, setVagueOccupation, setVagueWithoutDetail,
	setSignature, setBeneficiary, setRelationship, setDateOfBirth, setAccountType, setInvestmentObjective,
}

var requiredMessages = []string{
	"ssn_missing", "po_box_only", "address_missing", "occupation_vague", "signature_missing",
	"signature_date_missing", "signature_date_stale", "beneficiary_missing", "relationship_missing",
	"dob_missing", "account_type_missing", "objective_missing",
}

// Catalog holds every keyword list, message and threshold the rules use.
type Catalog struct {
	Keywords   map[string][]string `yaml:"keywords"`
	Occupation struct {
		WindowChars     int `yaml:"window_chars"`
		MinContextWords int `yaml:"min_context_words"`
	} `yaml:"occupation"`
	SignatureDate struct {
		StaleAfterDays int      `yaml:"stale_after_days"`
		Layouts        []string `yaml:"layouts"`
	} `yaml:"signature_date"`
	Messages  map[string]string `yaml:"messages"`
	Checklist []ChecklistItem   `yaml:"checklist"`
}

// ChecklistItem is one required substring of the scoring checklist.
type ChecklistItem struct {
	Field    string          `yaml:"field"`
	Term     string          `yaml:"term"`
	Severity domain.Severity `yaml:"severity"`
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
})

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return defaultCatalog()
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse rule catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	for name, terms := range c.Keywords {
		for i := range terms {
			terms[i] = strings.ToLower(strings.TrimSpace(terms[i]))
		}
		c.Keywords[name] = terms
	}
	for i := range c.Checklist {
		c.Checklist[i].Term = strings.ToLower(strings.TrimSpace(c.Checklist[i].Term))
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	var problems []error
	for _, name := range requiredSets {
		if len(c.Keywords[name]) == 0 {
			problems = append(problems, fmt.Errorf("keyword set %q is empty", name))
		}
	}
	for _, key := range requiredMessages {
		if strings.TrimSpace(c.Messages[key]) == "" {
			problems = append(problems, fmt.Errorf("message %q is missing", key))
		}
	}
	if c.Occupation.WindowChars <= 0 || c.Occupation.MinContextWords <= 0 {
		problems = append(problems, errors.New("occupation thresholds must be positive"))
	}
	if c.SignatureDate.StaleAfterDays <= 0 || len(c.SignatureDate.Layouts) == 0 {
		problems = append(problems, errors.New("signature_date needs stale_after_days and layouts"))
	}
	if len(c.Checklist) == 0 {
		problems = append(problems, errors.New("checklist is empty"))
	}
	if len(problems) > 0 {
		return domain.WrapError(domain.ErrInvalidInput, "validate rule catalog", errors.Join(problems...))
	}
	return nil
}

func (c *Catalog) terms(set string) []string {
	return c.Keywords[set]
}

func (c *Catalog) message(key string, replacements ...string) string {
	msg := c.Messages[key]
	if len(replacements) > 0 {
		msg = strings.NewReplacer(replacements...).Replace(msg)
	}
	return msg
}

func (c *Catalog) staleMessage(date string, days int) string {
	return c.message("signature_date_stale", "{date}", date, "{days}", strconv.Itoa(days))
}

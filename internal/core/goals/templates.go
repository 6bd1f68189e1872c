package goals

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

//go:embed templates.yaml
var templatesYAML []byte

const statusNotStarted = "not_started"

type cardTemplate struct {
	ID            string   `yaml:"id"`
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Category      string   `yaml:"category"`
	Priority      string   `yaml:"priority"`
	PointsReward  int      `yaml:"points_reward"`
	EstimatedTime string   `yaml:"estimated_time"`
	Steps         []string `yaml:"steps"`
}

func (t cardTemplate) card() domain.PlannedGoal {
	steps := make([]string, len(t.Steps))
	copy(steps, t.Steps)
	return domain.PlannedGoal{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Category:      t.Category,
		Priority:      t.Priority,
		PointsReward:  t.PointsReward,
		EstimatedTime: t.EstimatedTime,
		Status:        statusNotStarted,
		Steps:         steps,
	}
}

type templateSet struct {
	Allocation   map[domain.GoalType]cardTemplate `yaml:"allocation"`
	Personalized struct {
		Base   []cardTemplate          `yaml:"base"`
		Risk   map[string]cardTemplate `yaml:"risk"`
		Always []cardTemplate          `yaml:"always"`
	} `yaml:"personalized"`
}

var loadTemplates = sync.OnceValue(func() *templateSet {
	var set templateSet
	if err := yaml.Unmarshal(templatesYAML, &set); err != nil {
		panic(fmt.Sprintf("goals: parse embedded templates: %v", err))
	}
	for _, goal := range []domain.GoalType{
		domain.GoalPayOffLoans, domain.GoalHomeDownPayment, domain.GoalRetirement,
		domain.GoalEmergencyFund, domain.GoalEducation,
	} {
		if _, ok := set.Allocation[goal]; !ok {
			panic(fmt.Sprintf("goals: embedded templates miss %s", goal))
		}
	}
	return &set
})

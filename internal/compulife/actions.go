package compulife

import (
	"fmt"
	"sort"
	"strings"
)

// ActionPing is the local no-op action; it never reaches the quoting API.
const ActionPing = "ping"

// ActionSpec declares how one quoting action is translated: the API path it
// dispatches to, the inbound fields allowed to pass through, defaults for
// omitted fields, and optionally a base action it extends.
type ActionSpec struct {
	Path     string
	Fields   []string
	Defaults map[string]string
	Base     string
}

// Actions is the declarative table of quoting actions. The field lists are
// the single source of truth for what may reach the quoting API; any
// inbound field not listed here is dropped.
var Actions = map[string]ActionSpec{
	"get-categories": {
		Path:     "/api/categories",
		Fields:   []string{"State", "Language"},
		Defaults: map[string]string{"Language": "EN"},
	},
	"get-companies": {
		Path:     "/api/companies",
		Fields:   []string{"State", "Language"},
		Defaults: map[string]string{"Language": "EN"},
	},
	"get-products": {
		Path:     "/api/products",
		Fields:   []string{"State", "NewCompany", "NewCategory", "Language"},
		Defaults: map[string]string{"Language": "EN"},
	},
	"quote-sidebyside": {
		Path: "/api/sidebyside",
		Fields: []string{
			"State", "BirthMonth", "Birthday", "BirthYear", "Sex", "Smoker",
			"Health", "NewCategory", "FaceAmount", "ModeUsed",
			"SortOverride1", "CompRating", "Language",
		},
		Defaults: map[string]string{
			"SortOverride1": "P",
			"CompRating":    "1",
			"Language":      "EN",
		},
	},
	"quote-health-analyzer": {
		Path: "/api/healthanalyzer",
		Base: "quote-sidebyside",
		Fields: []string{
			"HeightFeet", "HeightInches", "Weight", "Cholesterol", "HDLRatio",
			"BloodPressure", "FamilyHeartDisease", "FamilyCancer",
			"DrivingViolations", "TobaccoType", "LastTobaccoUse",
		},
	},
}

// aliases maps alternate action names onto table entries.
var aliases = map[string]string{
	"quote-compare": "quote-sidebyside",
}

// Resolve looks up an action by name, following aliases.
func Resolve(action string) (ActionSpec, bool) {
	if target, ok := aliases[action]; ok {
		action = target
	}
	spec, ok := Actions[action]
	return spec, ok
}

// ActionNames returns every accepted action name in sorted order, including
// aliases and the local ping action.
func ActionNames() []string {
	names := make([]string, 0, len(Actions)+len(aliases)+1)
	names = append(names, ActionPing)
	for name := range Actions {
		names = append(names, name)
	}
	for alias := range aliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

// UnknownActionError reports an action outside the declared table, carrying
// the accepted names for the client error response.
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q; valid actions: %s", e.Action, strings.Join(ActionNames(), ", "))
}

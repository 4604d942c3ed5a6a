package domain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TransitionTable lists, per status, the statuses a lead may move to.
// Re-issuing the current status is always allowed.
type TransitionTable struct {
	edges map[Status]map[Status]struct{}
}

type transitionFile struct {
	Transitions map[string][]string `yaml:"transitions"`
}

// DefaultTransitionTable lets every status reach every other status.
func DefaultTransitionTable() TransitionTable {
	edges := make(map[Status]map[Status]struct{}, len(allStatuses))
	for _, from := range allStatuses {
		targets := make(map[Status]struct{}, len(allStatuses))
		for _, to := range allStatuses {
			targets[to] = struct{}{}
		}
		edges[from] = targets
	}
	return TransitionTable{edges: edges}
}

// ParseTransitionTable reads a YAML document of the form
//
//	transitions:
//	  novo_lead: [em_atendimento, ganho]
//
// Statuses absent from the document get no outgoing edges.
func ParseTransitionTable(data []byte) (TransitionTable, error) {
	var file transitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return TransitionTable{}, fmt.Errorf("parse transition table: %w", err)
	}
	if len(file.Transitions) == 0 {
		return TransitionTable{}, fmt.Errorf("parse transition table: no transitions defined")
	}

	edges := make(map[Status]map[Status]struct{}, len(file.Transitions))
	for rawFrom, rawTargets := range file.Transitions {
		from, err := ParseStatus(rawFrom)
		if err != nil {
			return TransitionTable{}, fmt.Errorf("parse transition table: %w", err)
		}
		targets := make(map[Status]struct{}, len(rawTargets))
		for _, rawTo := range rawTargets {
			to, err := ParseStatus(rawTo)
			if err != nil {
				return TransitionTable{}, fmt.Errorf("parse transition table: %w", err)
			}
			targets[to] = struct{}{}
		}
		edges[from] = targets
	}

	return TransitionTable{edges: edges}, nil
}

// LoadTransitionTable reads the table from path, or returns the default
// table when path is empty.
func LoadTransitionTable(path string) (TransitionTable, error) {
	if path == "" {
		return DefaultTransitionTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return TransitionTable{}, fmt.Errorf("read transition table: %w", err)
	}
	return ParseTransitionTable(data)
}

// Allows reports whether a lead in from may move to to.
func (t TransitionTable) Allows(from, to Status) bool {
	if from == to {
		return true
	}
	targets, ok := t.edges[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// Targets returns the allowed destinations of from, in funnel order.
func (t TransitionTable) Targets(from Status) []Status {
	out := make([]Status, 0, len(allStatuses))
	for _, to := range allStatuses {
		if t.Allows(from, to) {
			out = append(out, to)
		}
	}
	return out
}

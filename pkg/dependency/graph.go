// Package dependency analyses the graph formed by conditional rules: field A
// depends on field B when one of A's showWhen, hideWhen or disableWhen rules
// references B by name.
package dependency

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Chain is a cycle of field ids in traversal order.
type Chain []string

type graph struct {
	order []string
	edges map[string][]string
}

func buildGraph(fields []model.FieldDefinition) graph {
	byName := make(map[string]string, len(fields))
	for _, field := range fields {
		if _, exists := byName[field.Name]; !exists && field.Name != "" {
			byName[field.Name] = field.ID
		}
	}

	g := graph{edges: make(map[string][]string, len(fields))}
	for _, field := range fields {
		if _, seen := g.edges[field.ID]; seen {
			continue
		}
		g.order = append(g.order, field.ID)
		var targets []string
		for _, kind := range model.RuleKinds() {
			rule := field.Config.Rule(kind)
			if rule == nil {
				continue
			}
			target, ok := byName[strings.TrimSpace(rule.Field)]
			if !ok || contains(targets, target) {
				continue
			}
			targets = append(targets, target)
		}
		g.edges[field.ID] = targets
	}
	return g
}

// Dependencies returns the ids of the fields referenced by field's rules, in
// rule-slot order. Unknown references are skipped.
func Dependencies(field model.FieldDefinition, fields []model.FieldDefinition) []string {
	g := buildGraph(append([]model.FieldDefinition{field}, fields...))
	return append([]string(nil), g.edges[field.ID]...)
}

// DetectCircularReferences walks the rule graph from every field and returns
// each distinct cycle once, regardless of where the walk entered it.
func DetectCircularReferences(fields []model.FieldDefinition) []Chain {
	g := buildGraph(fields)

	type frame struct {
		node    string
		path    []string
		visited map[string]struct{}
	}

	var chains []Chain
	seen := make(map[string]struct{})

	for _, start := range g.order {
		stack := []frame{{
			node:    start,
			path:    []string{start},
			visited: map[string]struct{}{start: {}},
		}}
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			targets := g.edges[current.node]
			for i := len(targets) - 1; i >= 0; i-- {
				next := targets[i]
				if _, onPath := current.visited[next]; onPath {
					chain := cycleFrom(current.path, next)
					key := chainKey(chain)
					if _, dup := seen[key]; !dup {
						seen[key] = struct{}{}
						chains = append(chains, chain)
					}
					continue
				}
				visited := make(map[string]struct{}, len(current.visited)+1)
				for id := range current.visited {
					visited[id] = struct{}{}
				}
				visited[next] = struct{}{}
				path := append(append(make([]string, 0, len(current.path)+1), current.path...), next)
				stack = append(stack, frame{node: next, path: path, visited: visited})
			}
		}
	}

	return chains
}

func cycleFrom(path []string, node string) Chain {
	for i, id := range path {
		if id == node {
			return append(Chain(nil), path[i:]...)
		}
	}
	return Chain{node}
}

func chainKey(chain Chain) string {
	ids := append([]string(nil), chain...)
	sort.Strings(ids)
	ids = dedupe(ids)
	return strings.Join(ids, "\x00")
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, id := range sorted {
		if i > 0 && sorted[i-1] == id {
			continue
		}
		out = append(out, id)
	}
	return out
}

// WouldCreateCircle reports whether adding a dependency from fieldID to
// targetFieldID closes a cycle, i.e. targetFieldID already depends on fieldID
// directly or transitively.
func WouldCreateCircle(fieldID, targetFieldID string, fields []model.FieldDefinition) bool {
	if fieldID == "" || targetFieldID == "" {
		return false
	}
	if fieldID == targetFieldID {
		return true
	}
	g := buildGraph(fields)

	visited := map[string]struct{}{targetFieldID: {}}
	stack := []string{targetFieldID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.edges[current] {
			if next == fieldID {
				return true
			}
			if _, ok := visited[next]; ok {
				continue
			}
			visited[next] = struct{}{}
			stack = append(stack, next)
		}
	}
	return false
}

// CanSafelyDelete reports whether no other field's rules reference fieldID.
// When deletion is unsafe the ids of the dependent fields are returned.
func CanSafelyDelete(fieldID string, fields []model.FieldDefinition) (bool, []string) {
	g := buildGraph(fields)
	var dependents []string
	for _, id := range g.order {
		if id == fieldID {
			continue
		}
		if contains(g.edges[id], fieldID) {
			dependents = append(dependents, id)
		}
	}
	return len(dependents) == 0, dependents
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

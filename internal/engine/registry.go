/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/wso2/identity-master-data-service/internal/entity/model"
	"github.com/wso2/identity-master-data-service/internal/system/log"
)

// registeredRule is a named match rule held by the registry engine. Lower
// priority values fire first.
type registeredRule interface {
	Name() string
	Priority() int
	Execute(entities []model.Entity) ([]MergeSuggestion, error)
}

// RegistryEngine holds named rule objects and fires them in priority order.
// Each rule scans the whole batch itself, so rules stay independent: one
// failing rule never blocks the others.
type RegistryEngine struct {
	registry []registeredRule
}

// NewRegistryEngine creates the registry engine variant with the built-in
// match rules registered.
func NewRegistryEngine() *RegistryEngine {

	eng := &RegistryEngine{}
	eng.Register(&scanningRule{name: RuleNameExactCompanyNameMatch, priority: 1, match: matchCompanyName})
	eng.Register(&scanningRule{name: RuleNameAddressMatch, priority: 2, match: matchAddress})
	eng.Register(&scanningRule{name: RuleNamePhoneNumberMatch, priority: 3, match: matchPhoneNumber})
	eng.Register(&scanningRule{name: RuleNameEmailDomainMatch, priority: 4, match: matchEmailDomain})
	return eng
}

// Register adds a rule to the registry, keeping the firing order sorted by
// priority.
func (re *RegistryEngine) Register(rule registeredRule) {

	re.registry = append(re.registry, rule)
	sort.SliceStable(re.registry, func(i, j int) bool {
		return re.registry[i].Priority() < re.registry[j].Priority()
	})
}

// Evaluate fires every registered rule over the batch in priority order.
func (re *RegistryEngine) Evaluate(ctx context.Context, entities []model.Entity,
	ruleBodies []string) ([]MergeSuggestion, error) {

	suggestions := []MergeSuggestion{}
	if len(entities) == 0 || len(ruleBodies) == 0 {
		return suggestions, nil
	}

	logger := log.GetLogger()
	for _, rule := range re.registry {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fired, err := rule.Execute(entities)
		if err != nil {
			logger.Warn(fmt.Sprintf("Match rule %s failed; continuing with remaining rules", rule.Name()),
				log.Error(err))
			continue
		}
		suggestions = append(suggestions, fired...)
	}
	return suggestions, nil
}

// scanningRule adapts a pair predicate into a registry rule that scans every
// unordered pair of the batch.
type scanningRule struct {
	name     string
	priority int
	match    matchFunc
}

func (sr *scanningRule) Name() string {
	return sr.name
}

func (sr *scanningRule) Priority() int {
	return sr.priority
}

func (sr *scanningRule) Execute(entities []model.Entity) ([]MergeSuggestion, error) {

	return evaluateRuleOverPairs(pairwiseRule{name: sr.name, match: sr.match}, entities)
}

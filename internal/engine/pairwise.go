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

	"github.com/wso2/identity-master-data-service/internal/entity/model"
	"github.com/wso2/identity-master-data-service/internal/system/log"
)

type matchFunc func(entity1, entity2 model.Entity) (string, bool)

type pairwiseRule struct {
	name  string
	match matchFunc
}

// PairwiseEngine runs the built-in match rules as a fixed sequence over every
// unordered pair of entities in the batch. Rule bodies are ignored beyond
// gating execution; the built-in criteria are compiled in.
type PairwiseEngine struct {
	rules []pairwiseRule
}

// NewPairwiseEngine creates the fixed-sequence engine variant.
func NewPairwiseEngine() *PairwiseEngine {

	return &PairwiseEngine{
		rules: []pairwiseRule{
			{name: RuleNameExactCompanyNameMatch, match: matchCompanyName},
			{name: RuleNameAddressMatch, match: matchAddress},
			{name: RuleNamePhoneNumberMatch, match: matchPhoneNumber},
			{name: RuleNameEmailDomainMatch, match: matchEmailDomain},
		},
	}
}

// Evaluate applies each rule to every unordered pair. A failure inside one
// rule is logged and does not stop the remaining rules.
func (pe *PairwiseEngine) Evaluate(ctx context.Context, entities []model.Entity,
	ruleBodies []string) ([]MergeSuggestion, error) {

	suggestions := []MergeSuggestion{}
	if len(entities) == 0 || len(ruleBodies) == 0 {
		return suggestions, nil
	}

	logger := log.GetLogger()
	for _, rule := range pe.rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fired, err := evaluateRuleOverPairs(rule, entities)
		if err != nil {
			logger.Warn(fmt.Sprintf("Match rule %s failed; continuing with remaining rules", rule.name),
				log.Error(err))
			continue
		}
		suggestions = append(suggestions, fired...)
	}
	return suggestions, nil
}

func evaluateRuleOverPairs(rule pairwiseRule, entities []model.Entity) (fired []MergeSuggestion, err error) {

	defer func() {
		if r := recover(); r != nil {
			fired = nil
			err = fmt.Errorf("match rule %s panicked: %v", rule.name, r)
		}
	}()

	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			reasoning, matched := rule.match(entities[i], entities[j])
			if !matched {
				continue
			}
			mergedJSON, encodeErr := encodeMergedEntity(entities[i], entities[j])
			if encodeErr != nil {
				return nil, encodeErr
			}
			fired = append(fired, MergeSuggestion{
				Entity1:                  entities[i],
				Entity2:                  entities[j],
				RuleName:                 rule.name,
				Reasoning:                reasoning,
				ProposedMergedEntityJSON: mergedJSON,
			})
		}
	}
	return fired, nil
}

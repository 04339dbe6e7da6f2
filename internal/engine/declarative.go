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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/wso2/identity-master-data-service/internal/entity/model"
	"github.com/wso2/identity-master-data-service/internal/system/cache"
	errors2 "github.com/wso2/identity-master-data-service/internal/system/errors"
	"github.com/wso2/identity-master-data-service/internal/system/log"
)

const defaultCompileCacheTTL = 10 * time.Minute

// DeclarativeEngine executes data-driven rule bodies. Bodies are JSON
// patterns compiled into matchers and run against the batch entities as
// working-memory facts; compiled rule sets are cached by a fingerprint of
// the bodies so repeated batches with unchanged rules skip compilation.
type DeclarativeEngine struct {
	compileCache *cache.Cache
}

// NewDeclarativeEngine creates the declarative engine variant with the
// default compile cache TTL.
func NewDeclarativeEngine() *DeclarativeEngine {

	return NewDeclarativeEngineWithTTL(defaultCompileCacheTTL)
}

// NewDeclarativeEngineWithTTL creates the declarative engine variant with an
// explicit compile cache TTL.
func NewDeclarativeEngineWithTTL(ttl time.Duration) *DeclarativeEngine {

	return &DeclarativeEngine{
		compileCache: cache.NewCache(ttl),
	}
}

// Evaluate compiles the rule bodies and fires them over every unordered pair
// of entities, highest salience first. A single malformed body fails the
// whole evaluation; partial rule sets are never executed silently.
func (de *DeclarativeEngine) Evaluate(ctx context.Context, entities []model.Entity,
	ruleBodies []string) ([]MergeSuggestion, error) {

	suggestions := []MergeSuggestion{}
	if len(entities) == 0 || len(ruleBodies) == 0 {
		return suggestions, nil
	}

	compiled, err := de.compile(ruleBodies)
	if err != nil {
		return nil, err
	}

	for _, rule := range compiled {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		admitted := []model.Entity{}
		for _, entity := range entities {
			if rule.admitsEntity(entity) {
				admitted = append(admitted, entity)
			}
		}
		for i := 0; i < len(admitted); i++ {
			for j := i + 1; j < len(admitted); j++ {
				if !rule.matchesPair(admitted[i], admitted[j]) {
					continue
				}
				mergedJSON, encodeErr := encodeMergedEntity(admitted[i], admitted[j])
				if encodeErr != nil {
					return nil, errors2.NewServerError(errors2.ErrorMessage{
						Code:        errors2.MATCH_ENGINE_FAILURE.Code,
						Message:     errors2.MATCH_ENGINE_FAILURE.Message,
						Description: fmt.Sprintf("Failed to build merged entity for rule: %s", rule.name),
					}, encodeErr)
				}
				suggestions = append(suggestions, MergeSuggestion{
					Entity1:                  admitted[i],
					Entity2:                  admitted[j],
					RuleName:                 rule.name,
					Reasoning:                rule.renderReasoning(admitted[i], admitted[j]),
					ProposedMergedEntityJSON: mergedJSON,
				})
			}
		}
	}
	return suggestions, nil
}

func (de *DeclarativeEngine) compile(ruleBodies []string) ([]compiledRule, error) {

	fingerprint := ruleSetFingerprint(ruleBodies)
	if cached, found := de.compileCache.Get(fingerprint); found {
		return cached.([]compiledRule), nil
	}

	compiled := make([]compiledRule, 0, len(ruleBodies))
	for index, body := range ruleBodies {
		rule, err := compileRuleBody(body)
		if err != nil {
			errorMsg := fmt.Sprintf("Failed to compile declarative rule body at position %d", index)
			log.GetLogger().Debug(errorMsg, log.Error(err))
			return nil, errors2.NewServerError(errors2.ErrorMessage{
				Code:        errors2.RULE_COMPILATION.Code,
				Message:     errors2.RULE_COMPILATION.Message,
				Description: errorMsg,
			}, err)
		}
		compiled = append(compiled, rule)
	}

	// Highest salience fires first; resolver order breaks ties.
	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].salience > compiled[j].salience
	})

	de.compileCache.Set(fingerprint, compiled)
	return compiled, nil
}

func ruleSetFingerprint(ruleBodies []string) string {

	hasher := sha256.New()
	for _, body := range ruleBodies {
		hasher.Write([]byte(body))
		hasher.Write([]byte{0})
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

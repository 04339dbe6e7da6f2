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
	"time"

	"github.com/wso2/identity-master-data-service/internal/entity/model"
	"github.com/wso2/identity-master-data-service/internal/system/config"
	"github.com/wso2/identity-master-data-service/internal/system/constants"
)

// MergeSuggestion is one engine finding: a pair of entities that a match rule
// decided should be merged, with the reasoning and the proposed merged record.
type MergeSuggestion struct {
	Entity1                  model.Entity `json:"entity1"`
	Entity2                  model.Entity `json:"entity2"`
	RuleName                 string       `json:"rule_name"`
	Reasoning                string       `json:"reasoning"`
	ProposedMergedEntityJSON string       `json:"proposed_merged_entity_json"`
}

// MatchEngine evaluates a batch of entities against a set of rule bodies and
// emits merge suggestions. Implementations must not mutate the input entities.
type MatchEngine interface {
	Evaluate(ctx context.Context, entities []model.Entity, ruleBodies []string) ([]MergeSuggestion, error)
}

// NewMatchEngine returns the engine variant selected by configuration. The
// variant is fixed per deployment; unknown types fall back to the registry
// engine.
func NewMatchEngine(engineType string) MatchEngine {

	switch engineType {
	case constants.EngineTypePairwise:
		return NewPairwiseEngine()
	case constants.EngineTypeDeclarative:
		return NewDeclarativeEngine()
	default:
		return NewRegistryEngine()
	}
}

// NewMatchEngineFromConfig builds the configured engine variant, honoring the
// declarative engine's compile cache TTL when one is set.
func NewMatchEngineFromConfig(engineConfig config.RuleEngineConfig) MatchEngine {

	if engineConfig.Type == constants.EngineTypeDeclarative && engineConfig.CompileCacheTTL > 0 {
		return NewDeclarativeEngineWithTTL(time.Duration(engineConfig.CompileCacheTTL) * time.Second)
	}
	return NewMatchEngine(engineConfig.Type)
}

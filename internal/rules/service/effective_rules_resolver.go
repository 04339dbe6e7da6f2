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

package service

import (
	"fmt"
	"sort"

	"github.com/wso2/identity-master-data-service/internal/rules/model"
	errors2 "github.com/wso2/identity-master-data-service/internal/system/errors"
	"github.com/wso2/identity-master-data-service/internal/system/log"
)

// ResolveEffectiveRules computes the ordered rule bodies to execute for a
// company and domain pair. Company rules come first, then global rules that
// are neither overridden nor shadowed by a company rule of the same name.
// An empty result with a nil error means no rules are configured; a store
// failure is surfaced as an error, never as an empty list.
func (mrs *MergeRuleService) ResolveEffectiveRules(companyId, domain string) ([]string, error) {

	logger := log.GetLogger()

	globalRules, err := mrs.GlobalStore.GetActiveGlobalRulesByDomain(domain)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to load active global merge rules for domain: %s", domain)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.RESOLVE_EFFECTIVE_RULES.Code,
			Message:     errors2.RESOLVE_EFFECTIVE_RULES.Message,
			Description: errorMsg,
		}, err)
	}

	companyRules, err := mrs.CompanyStore.GetActiveCompanyRulesByCompany(companyId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to load active company merge rules for company: %s", companyId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.RESOLVE_EFFECTIVE_RULES.Code,
			Message:     errors2.RESOLVE_EFFECTIVE_RULES.Message,
			Description: errorMsg,
		}, err)
	}

	ruleBodies := ResolveEffectiveRuleBodies(companyRules, globalRules)
	logger.Debug(fmt.Sprintf("Resolved %d effective merge rule(s) for company: %s in domain: %s", len(ruleBodies),
		companyId, domain))
	return ruleBodies, nil
}

// ResolveEffectiveRuleBodies applies the override policy on already-loaded
// rule sets. Both inputs are re-sorted by priority descending then rule name
// ascending, so the result is deterministic regardless of load order.
func ResolveEffectiveRuleBodies(companyRules []model.CompanyMergeRule,
	globalRules []model.GlobalMergeRule) []string {

	sortedCompany := make([]model.CompanyMergeRule, len(companyRules))
	copy(sortedCompany, companyRules)
	sort.SliceStable(sortedCompany, func(i, j int) bool {
		if sortedCompany[i].Priority != sortedCompany[j].Priority {
			return sortedCompany[i].Priority > sortedCompany[j].Priority
		}
		return sortedCompany[i].RuleName < sortedCompany[j].RuleName
	})

	sortedGlobal := make([]model.GlobalMergeRule, len(globalRules))
	copy(sortedGlobal, globalRules)
	sort.SliceStable(sortedGlobal, func(i, j int) bool {
		if sortedGlobal[i].Priority != sortedGlobal[j].Priority {
			return sortedGlobal[i].Priority > sortedGlobal[j].Priority
		}
		return sortedGlobal[i].RuleName < sortedGlobal[j].RuleName
	})

	// Names carrying an override. Duplicate names violate the uniqueness
	// invariant but are handled defensively: the highest-priority rule wins,
	// with the lowest rule id breaking ties.
	overridden := map[string]model.CompanyMergeRule{}
	companyNames := map[string]bool{}
	for _, rule := range sortedCompany {
		companyNames[rule.RuleName] = true
		if !rule.OverridesGlobal {
			continue
		}
		current, exists := overridden[rule.RuleName]
		if !exists || rule.Priority > current.Priority ||
			(rule.Priority == current.Priority && rule.RuleId < current.RuleId) {
			overridden[rule.RuleName] = rule
		}
	}

	ruleBodies := []string{}
	for _, rule := range sortedCompany {
		ruleBodies = append(ruleBodies, rule.RuleBody)
	}
	for _, rule := range sortedGlobal {
		if _, isOverridden := overridden[rule.RuleName]; isOverridden {
			continue
		}
		if companyNames[rule.RuleName] {
			continue
		}
		ruleBodies = append(ruleBodies, rule.RuleBody)
	}
	return ruleBodies
}

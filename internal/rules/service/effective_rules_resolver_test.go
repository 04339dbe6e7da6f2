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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wso2/identity-master-data-service/internal/rules/model"
	"github.com/wso2/identity-master-data-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func globalRule(name, body string, priority int) model.GlobalMergeRule {
	return model.GlobalMergeRule{
		RuleId:   "g-" + name,
		Domain:   "lifescience",
		RuleName: name,
		RuleBody: body,
		Priority: priority,
		IsActive: true,
	}
}

func companyRule(name, body string, priority int, overrides bool) model.CompanyMergeRule {
	return model.CompanyMergeRule{
		RuleId:          "c-" + name,
		CompanyId:       "ACME",
		RuleName:        name,
		RuleBody:        body,
		Priority:        priority,
		IsActive:        true,
		OverridesGlobal: overrides,
	}
}

func TestResolveEffectiveRuleBodies_OverrideSuppressesGlobal(t *testing.T) {

	globals := []model.GlobalMergeRule{globalRule("R1", "global-body", 10)}
	companies := []model.CompanyMergeRule{companyRule("R1", "company-body", 20, true)}

	bodies := ResolveEffectiveRuleBodies(companies, globals)

	assert.Equal(t, []string{"company-body"}, bodies)
}

func TestResolveEffectiveRuleBodies_SameNameWithoutOverrideStillShadowsGlobal(t *testing.T) {

	globals := []model.GlobalMergeRule{globalRule("R1", "global-body", 10)}
	companies := []model.CompanyMergeRule{companyRule("R1", "company-body", 5, false)}

	bodies := ResolveEffectiveRuleBodies(companies, globals)

	assert.Equal(t, []string{"company-body"}, bodies)
}

func TestResolveEffectiveRuleBodies_CompanyRulesFirstThenRemainingGlobals(t *testing.T) {

	globals := []model.GlobalMergeRule{
		globalRule("NameMatch", "g-name", 30),
		globalRule("PhoneMatch", "g-phone", 20),
		globalRule("EmailMatch", "g-email", 10),
	}
	companies := []model.CompanyMergeRule{
		companyRule("PhoneMatch", "c-phone", 5, true),
		companyRule("AddressMatch", "c-address", 50, false),
	}

	bodies := ResolveEffectiveRuleBodies(companies, globals)

	assert.Equal(t, []string{"c-address", "c-phone", "g-name", "g-email"}, bodies)
}

func TestResolveEffectiveRuleBodies_OrderedByPriorityThenName(t *testing.T) {

	globals := []model.GlobalMergeRule{
		globalRule("Zeta", "g-zeta", 10),
		globalRule("Alpha", "g-alpha", 10),
		globalRule("Mid", "g-mid", 20),
	}

	bodies := ResolveEffectiveRuleBodies(nil, globals)

	assert.Equal(t, []string{"g-mid", "g-alpha", "g-zeta"}, bodies)
}

func TestResolveEffectiveRuleBodies_DeterministicRegardlessOfInputOrder(t *testing.T) {

	globals := []model.GlobalMergeRule{
		globalRule("A", "g-a", 10),
		globalRule("B", "g-b", 20),
	}
	reversed := []model.GlobalMergeRule{globals[1], globals[0]}

	companies := []model.CompanyMergeRule{
		companyRule("X", "c-x", 1, false),
		companyRule("Y", "c-y", 2, true),
	}

	first := ResolveEffectiveRuleBodies(companies, globals)
	second := ResolveEffectiveRuleBodies(companies, reversed)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"c-y", "c-x", "g-b", "g-a"}, first)
}

func TestResolveEffectiveRuleBodies_DuplicateOverridesKeepHighestPriority(t *testing.T) {

	globals := []model.GlobalMergeRule{globalRule("R1", "global-body", 10)}
	companies := []model.CompanyMergeRule{
		{RuleId: "c-2", CompanyId: "ACME", RuleName: "R1", RuleBody: "low", Priority: 1, IsActive: true,
			OverridesGlobal: true},
		{RuleId: "c-1", CompanyId: "ACME", RuleName: "R1", RuleBody: "high", Priority: 9, IsActive: true,
			OverridesGlobal: true},
	}

	bodies := ResolveEffectiveRuleBodies(companies, globals)

	// Both company bodies are emitted; the global rule stays suppressed.
	assert.Equal(t, []string{"high", "low"}, bodies)
}

func TestResolveEffectiveRuleBodies_EmptyInputsYieldEmptyList(t *testing.T) {

	bodies := ResolveEffectiveRuleBodies(nil, nil)

	assert.NotNil(t, bodies)
	assert.Empty(t, bodies)
}

func TestResolveEffectiveRuleBodies_DoesNotMutateInputs(t *testing.T) {

	globals := []model.GlobalMergeRule{
		globalRule("Zeta", "g-zeta", 1),
		globalRule("Alpha", "g-alpha", 2),
	}

	_ = ResolveEffectiveRuleBodies(nil, globals)

	assert.Equal(t, "Zeta", globals[0].RuleName)
	assert.Equal(t, "Alpha", globals[1].RuleName)
}

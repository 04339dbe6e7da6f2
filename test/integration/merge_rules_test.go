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

package integration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-master-data-service/internal/rules/model"
	"github.com/wso2/identity-master-data-service/internal/rules/service"
	errors2 "github.com/wso2/identity-master-data-service/internal/system/errors"
)

func TestGlobalRule_CreateUpdateDelete(t *testing.T) {
	svc := service.GetMergeRuleService()

	added, err := svc.AddGlobalRule(model.GlobalMergeRuleAPIRequest{
		Domain:      "retail",
		RuleName:    "AddressMatch",
		Description: "Entities sharing a long address",
		RuleBody:    `{"name":"AddressMatch","salience":30}`,
		Priority:    30,
		IsActive:    true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, added.RuleId)

	fetched, err := svc.GetGlobalRule(added.RuleId)
	require.NoError(t, err)
	assert.Equal(t, "retail", fetched.Domain)
	assert.Equal(t, "AddressMatch", fetched.RuleName)
	assert.Equal(t, 30, fetched.Priority)
	assert.True(t, fetched.IsActive)

	newPriority := 45
	newDescription := "Entities sharing a normalized address"
	updated, err := svc.PatchGlobalRule(added.RuleId, model.MergeRuleUpdateRequest{
		Priority:    &newPriority,
		Description: &newDescription,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.Priority)
	assert.Equal(t, "Entities sharing a normalized address", updated.Description)
	assert.Equal(t, "AddressMatch", updated.RuleName)

	err = svc.DeleteGlobalRule(added.RuleId)
	require.NoError(t, err)

	_, err = svc.GetGlobalRule(added.RuleId)
	require.Error(t, err)
	var clientError *errors2.ClientError
	require.True(t, errors.As(err, &clientError))
	assert.Equal(t, errors2.RULE_NOT_FOUND.Code, clientError.Code)
}

func TestGlobalRule_DuplicateNameRejected(t *testing.T) {
	svc := service.GetMergeRuleService()

	request := model.GlobalMergeRuleAPIRequest{
		Domain:   "logistics",
		RuleName: "PhoneNumberMatch",
		RuleBody: `{"name":"PhoneNumberMatch","salience":20}`,
		Priority: 20,
		IsActive: true,
	}
	added, err := svc.AddGlobalRule(request)
	require.NoError(t, err)
	defer func() { _ = svc.DeleteGlobalRule(added.RuleId) }()

	_, err = svc.AddGlobalRule(request)
	require.Error(t, err)
	var clientError *errors2.ClientError
	require.True(t, errors.As(err, &clientError))
	assert.Equal(t, errors2.DUPLICATE_RULE_NAME.Code, clientError.Code)
}

func TestCompanyRule_CreateAndList(t *testing.T) {
	svc := service.GetMergeRuleService()

	added, err := svc.AddCompanyRule(model.CompanyMergeRuleAPIRequest{
		CompanyId:       "acme-corp",
		RuleName:        "SourceSystemMatch",
		RuleBody:        `{"name":"SourceSystemMatch","salience":5}`,
		Priority:        5,
		IsActive:        true,
		OverridesGlobal: false,
	})
	require.NoError(t, err)
	defer func() { _ = svc.DeleteCompanyRule(added.RuleId) }()

	rules, err := svc.GetCompanyRulesByCompany("acme-corp")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "SourceSystemMatch", rules[0].RuleName)
	assert.False(t, rules[0].OverridesGlobal)
}

func TestEffectiveRules_OverrideSuppressesGlobal(t *testing.T) {
	svc := service.GetMergeRuleService()

	globalShadowed, err := svc.AddGlobalRule(model.GlobalMergeRuleAPIRequest{
		Domain:   "insurance",
		RuleName: "EmailDomainMatch",
		RuleBody: `{"name":"EmailDomainMatch","salience":10,"scope":"global"}`,
		Priority: 10,
		IsActive: true,
	})
	require.NoError(t, err)
	defer func() { _ = svc.DeleteGlobalRule(globalShadowed.RuleId) }()

	globalKept, err := svc.AddGlobalRule(model.GlobalMergeRuleAPIRequest{
		Domain:   "insurance",
		RuleName: "ExactCompanyNameMatch",
		RuleBody: `{"name":"ExactCompanyNameMatch","salience":40}`,
		Priority: 40,
		IsActive: true,
	})
	require.NoError(t, err)
	defer func() { _ = svc.DeleteGlobalRule(globalKept.RuleId) }()

	companyOverride, err := svc.AddCompanyRule(model.CompanyMergeRuleAPIRequest{
		CompanyId:       "omega-insure",
		RuleName:        "EmailDomainMatch",
		RuleBody:        `{"name":"EmailDomainMatch","salience":50,"scope":"company"}`,
		Priority:        50,
		IsActive:        true,
		OverridesGlobal: true,
	})
	require.NoError(t, err)
	defer func() { _ = svc.DeleteCompanyRule(companyOverride.RuleId) }()

	ruleBodies, err := svc.ResolveEffectiveRules("omega-insure", "insurance")
	require.NoError(t, err)

	require.Len(t, ruleBodies, 2)
	assert.Equal(t, `{"name":"EmailDomainMatch","salience":50,"scope":"company"}`, ruleBodies[0])
	assert.Equal(t, `{"name":"ExactCompanyNameMatch","salience":40}`, ruleBodies[1])
	assert.NotContains(t, ruleBodies, `{"name":"EmailDomainMatch","salience":10,"scope":"global"}`)
}

func TestEffectiveRules_InactiveRulesExcluded(t *testing.T) {
	svc := service.GetMergeRuleService()

	inactive, err := svc.AddGlobalRule(model.GlobalMergeRuleAPIRequest{
		Domain:   "energy",
		RuleName: "AddressMatch",
		RuleBody: `{"name":"AddressMatch","salience":30}`,
		Priority: 30,
		IsActive: false,
	})
	require.NoError(t, err)
	defer func() { _ = svc.DeleteGlobalRule(inactive.RuleId) }()

	ruleBodies, err := svc.ResolveEffectiveRules("any-company", "energy")
	require.NoError(t, err)
	assert.Empty(t, ruleBodies)
}

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

package model

type GlobalMergeRuleAPIRequest struct {
	Domain      string `json:"domain" validate:"required"`
	RuleName    string `json:"rule_name" validate:"required"`
	Description string `json:"description"`
	RuleBody    string `json:"rule_body" validate:"required"`
	Priority    int    `json:"priority" validate:"gte=0"`
	IsActive    bool   `json:"is_active"`
}

type CompanyMergeRuleAPIRequest struct {
	CompanyId       string `json:"company_id" validate:"required"`
	RuleName        string `json:"rule_name" validate:"required"`
	Description     string `json:"description"`
	RuleBody        string `json:"rule_body" validate:"required"`
	Priority        int    `json:"priority" validate:"gte=0"`
	IsActive        bool   `json:"is_active"`
	OverridesGlobal bool   `json:"overrides_global"`
}

// MergeRuleUpdateRequest carries a partial update. Nil fields are left
// unchanged.
type MergeRuleUpdateRequest struct {
	Description     *string `json:"description"`
	RuleBody        *string `json:"rule_body"`
	Priority        *int    `json:"priority" validate:"omitempty,gte=0"`
	IsActive        *bool   `json:"is_active"`
	OverridesGlobal *bool   `json:"overrides_global"`
}

type GlobalMergeRuleAPIResponse struct {
	RuleId      string `json:"rule_id"`
	Domain      string `json:"domain"`
	RuleName    string `json:"rule_name"`
	Description string `json:"description"`
	RuleBody    string `json:"rule_body"`
	Priority    int    `json:"priority"`
	IsActive    bool   `json:"is_active"`
}

type CompanyMergeRuleAPIResponse struct {
	RuleId          string `json:"rule_id"`
	CompanyId       string `json:"company_id"`
	RuleName        string `json:"rule_name"`
	Description     string `json:"description"`
	RuleBody        string `json:"rule_body"`
	Priority        int    `json:"priority"`
	IsActive        bool   `json:"is_active"`
	OverridesGlobal bool   `json:"overrides_global"`
}

// EffectiveRulesAPIResponse is the resolved, ordered rule body list for one
// company and domain pair.
type EffectiveRulesAPIResponse struct {
	CompanyId  string   `json:"company_id"`
	Domain     string   `json:"domain"`
	RuleBodies []string `json:"rule_bodies"`
}

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

// GlobalMergeRule is a match rule that applies to every company operating in
// its domain. Rule names are unique within a domain.
type GlobalMergeRule struct {
	RuleId      string `json:"rule_id"`
	Domain      string `json:"domain"`
	RuleName    string `json:"rule_name"`
	Description string `json:"description,omitempty"`
	RuleBody    string `json:"rule_body"`
	Priority    int    `json:"priority"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

// CompanyMergeRule is a match rule scoped to a single company. When
// OverridesGlobal is set, the global rule of the same name is suppressed
// during effective rule resolution. Rule names are unique within a company.
type CompanyMergeRule struct {
	RuleId          string `json:"rule_id"`
	CompanyId       string `json:"company_id"`
	RuleName        string `json:"rule_name"`
	Description     string `json:"description,omitempty"`
	RuleBody        string `json:"rule_body"`
	Priority        int    `json:"priority"`
	IsActive        bool   `json:"is_active"`
	OverridesGlobal bool   `json:"overrides_global"`
	CreatedAt       int64  `json:"created_at"`
	UpdatedAt       int64  `json:"updated_at"`
}

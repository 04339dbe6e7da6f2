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

	"github.com/wso2/identity-master-data-service/internal/engine"
	"github.com/wso2/identity-master-data-service/internal/rules/model"
	"github.com/wso2/identity-master-data-service/internal/system/log"
)

// defaultGlobalRules are the built-in match criteria as seedable global rule
// requests. Priorities mirror the salience each rule body declares.
var defaultGlobalRules = []model.GlobalMergeRuleAPIRequest{
	{
		RuleName:    "ExactCompanyNameMatch",
		Description: "Organizations whose names match exactly, ignoring case.",
		RuleBody:    engine.DefaultCompanyNameRuleBody,
		Priority:    40,
		IsActive:    true,
	},
	{
		RuleName:    "AddressMatch",
		Description: "Entities sharing the same address, ignoring case.",
		RuleBody:    engine.DefaultAddressRuleBody,
		Priority:    30,
		IsActive:    true,
	},
	{
		RuleName:    "PhoneNumberMatch",
		Description: "Entities whose phone numbers share the same digits.",
		RuleBody:    engine.DefaultPhoneNumberRuleBody,
		Priority:    20,
		IsActive:    true,
	},
	{
		RuleName:    "EmailDomainMatch",
		Description: "Entities whose email addresses share a domain.",
		RuleBody:    engine.DefaultEmailDomainRuleBody,
		Priority:    10,
		IsActive:    true,
	},
}

// SeedDefaultGlobalRules inserts the built-in match rules as global rules for
// each listed domain. A domain already owning a rule of the same name keeps
// its rule untouched, so repeated startups are no-ops.
func (mrs *MergeRuleService) SeedDefaultGlobalRules(domains []string) error {

	logger := log.GetLogger()
	seeded := 0
	for _, domain := range domains {
		for _, seed := range defaultGlobalRules {
			existingRule, err := mrs.GlobalStore.GetGlobalRuleByName(domain, seed.RuleName)
			if err != nil {
				return err
			}
			if existingRule != nil {
				continue
			}
			request := seed
			request.Domain = domain
			if _, err := mrs.AddGlobalRule(request); err != nil {
				return err
			}
			seeded++
		}
	}
	if seeded > 0 {
		logger.Info(fmt.Sprintf("Seeded %d default global merge rule(s) across %d domain(s)", seeded, len(domains)))
	}
	return nil
}

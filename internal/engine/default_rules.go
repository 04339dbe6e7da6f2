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

// Declarative rule bodies equivalent to the built-in match rules. Startup
// seeds these as global rules for the domains listed under
// rule_engine.seed_domains, so a fresh install matches the fixed-rule
// variants out of the box.

const DefaultCompanyNameRuleBody = `{
  "name": "ExactCompanyNameMatch",
  "salience": 40,
  "when": [
    {"field": "type", "operator": "equals", "value": "Organization"},
    {"field": "name", "operator": "present"}
  ],
  "match": [
    {"field": "name", "operator": "equals_ignore_case"}
  ],
  "reasoning": "Company names match exactly: {entity1.name}"
}`

const DefaultAddressRuleBody = `{
  "name": "AddressMatch",
  "salience": 30,
  "when": [
    {"field": "address", "operator": "longer_than", "value": 10}
  ],
  "match": [
    {"field": "address", "operator": "equals_ignore_case"}
  ],
  "reasoning": "Addresses match: {entity1.address}"
}`

const DefaultPhoneNumberRuleBody = `{
  "name": "PhoneNumberMatch",
  "salience": 20,
  "when": [
    {"field": "phone", "operator": "min_length", "value": 10}
  ],
  "match": [
    {"field": "phone", "operator": "digits_equal"}
  ],
  "reasoning": "Phone numbers match: {entity1.phone} = {entity2.phone}"
}`

const DefaultEmailDomainRuleBody = `{
  "name": "EmailDomainMatch",
  "salience": 10,
  "when": [
    {"field": "email", "operator": "contains", "value": "@"}
  ],
  "match": [
    {"field": "email", "operator": "email_domain_equals"}
  ],
  "reasoning": "Email domains match: {entity1.email_domain}"
}`

// DefaultRuleBodies returns the built-in criteria as declarative rule bodies,
// ordered by salience descending.
func DefaultRuleBodies() []string {

	return []string{
		DefaultCompanyNameRuleBody,
		DefaultAddressRuleBody,
		DefaultPhoneNumberRuleBody,
		DefaultEmailDomainRuleBody,
	}
}

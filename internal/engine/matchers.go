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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wso2/identity-master-data-service/internal/entity/model"
	"github.com/wso2/identity-master-data-service/internal/system/constants"
)

// Names of the built-in match rules.
const (
	RuleNameExactCompanyNameMatch = "ExactCompanyNameMatch"
	RuleNameAddressMatch          = "AddressMatch"
	RuleNamePhoneNumberMatch      = "PhoneNumberMatch"
	RuleNameEmailDomainMatch      = "EmailDomainMatch"
)

// matchCompanyName fires when both entities are organizations with non-empty
// names that are equal ignoring case.
func matchCompanyName(entity1, entity2 model.Entity) (string, bool) {

	if entity1.Type != constants.EntityTypeOrganization || entity2.Type != constants.EntityTypeOrganization {
		return "", false
	}
	if entity1.Name == "" || entity2.Name == "" {
		return "", false
	}
	if !strings.EqualFold(entity1.Name, entity2.Name) {
		return "", false
	}
	return "Company names match exactly: " + entity1.Name, true
}

// matchAddress fires when both entities have addresses longer than ten
// characters that are equal ignoring case.
func matchAddress(entity1, entity2 model.Entity) (string, bool) {

	if len(entity1.Address) <= 10 || len(entity2.Address) <= 10 {
		return "", false
	}
	if !strings.EqualFold(entity1.Address, entity2.Address) {
		return "", false
	}
	return "Addresses match: " + entity1.Address, true
}

// matchPhoneNumber fires when both entities have phone strings of at least
// ten characters whose digits are equal after formatting is stripped.
func matchPhoneNumber(entity1, entity2 model.Entity) (string, bool) {

	if len(entity1.Phone) < 10 || len(entity2.Phone) < 10 {
		return "", false
	}
	if stripNonDigits(entity1.Phone) != stripNonDigits(entity2.Phone) {
		return "", false
	}
	return "Phone numbers match: " + entity1.Phone + " = " + entity2.Phone, true
}

// matchEmailDomain fires when both entities carry an email address and the
// substring from "@" onward is byte-equal. The comparison is case sensitive
// on purpose; name matching is not.
func matchEmailDomain(entity1, entity2 model.Entity) (string, bool) {

	domain1 := emailDomain(entity1.Email)
	domain2 := emailDomain(entity2.Email)
	if domain1 == "" || domain2 == "" {
		return "", false
	}
	if domain1 != domain2 {
		return "", false
	}
	return "Email domains match: " + domain1, true
}

func stripNonDigits(value string) string {

	var builder strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// emailDomain returns the substring from the first "@" onward, or an empty
// string when the value contains no "@".
func emailDomain(email string) string {

	index := strings.Index(email, "@")
	if index < 0 {
		return ""
	}
	return email[index:]
}

func encodeMergedEntity(entity1, entity2 model.Entity) (string, error) {

	merged := model.BuildMergedEntity(entity1, entity2)
	mergedJSON, err := json.Marshal(merged)
	if err != nil {
		return "", fmt.Errorf("failed to serialize merged entity for pair %s, %s: %w", entity1.Id, entity2.Id, err)
	}
	return string(mergedJSON), nil
}

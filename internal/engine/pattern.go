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
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wso2/identity-master-data-service/internal/entity/model"
)

// rulePattern is the declarative rule body format. A body is a JSON document:
//
//	{
//	  "name": "ExactCompanyNameMatch",
//	  "salience": 10,
//	  "when": [
//	    {"field": "type", "operator": "equals", "value": "Organization"},
//	    {"field": "name", "operator": "present"}
//	  ],
//	  "match": [
//	    {"field": "name", "operator": "equals_ignore_case"}
//	  ],
//	  "reasoning": "Company names match exactly: {entity1.name}"
//	}
//
// "when" conditions gate each entity individually; "match" conditions compare
// a pair of gated entities. Rules with higher salience fire first.
type rulePattern struct {
	Name      string            `json:"name"`
	Salience  int               `json:"salience"`
	When      []entityCondition `json:"when"`
	Match     []pairCondition   `json:"match"`
	Reasoning string            `json:"reasoning"`
}

type entityCondition struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value,omitempty"`
}

type pairCondition struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
}

// Entity condition operators.
const (
	opEquals     = "equals"
	opNotEquals  = "not_equals"
	opPresent    = "present"
	opContains   = "contains"
	opMinLength  = "min_length"
	opLongerThan = "longer_than"
)

// Pair condition operators.
const (
	opPairEquals            = "equals"
	opPairEqualsIgnoreCase  = "equals_ignore_case"
	opPairDigitsEqual       = "digits_equal"
	opPairEmailDomainEquals = "email_domain_equals"
)

type compiledRule struct {
	name      string
	salience  int
	when      []entityCondition
	match     []pairCondition
	reasoning string
}

// compileRuleBody parses and validates one declarative rule body. Any
// malformed body is a compile error; callers fail the whole batch on it.
func compileRuleBody(body string) (compiledRule, error) {

	decoder := json.NewDecoder(bytes.NewReader([]byte(body)))
	decoder.DisallowUnknownFields()

	var pattern rulePattern
	if err := decoder.Decode(&pattern); err != nil {
		return compiledRule{}, fmt.Errorf("invalid rule body syntax: %w", err)
	}
	if pattern.Name == "" {
		return compiledRule{}, fmt.Errorf("rule body is missing a name")
	}
	if len(pattern.Match) == 0 {
		return compiledRule{}, fmt.Errorf("rule %s declares no match conditions", pattern.Name)
	}

	for _, condition := range pattern.When {
		if !isEntityField(condition.Field) {
			return compiledRule{}, fmt.Errorf("rule %s references unknown field %q", pattern.Name, condition.Field)
		}
		switch condition.Operator {
		case opEquals, opNotEquals, opContains:
			if _, ok := condition.Value.(string); !ok {
				return compiledRule{}, fmt.Errorf("rule %s: operator %s on field %s requires a string value",
					pattern.Name, condition.Operator, condition.Field)
			}
		case opMinLength, opLongerThan:
			if _, ok := condition.Value.(float64); !ok {
				return compiledRule{}, fmt.Errorf("rule %s: operator %s on field %s requires a numeric value",
					pattern.Name, condition.Operator, condition.Field)
			}
		case opPresent:
		default:
			return compiledRule{}, fmt.Errorf("rule %s uses unknown entity operator %q", pattern.Name,
				condition.Operator)
		}
	}

	for _, condition := range pattern.Match {
		if !isEntityField(condition.Field) {
			return compiledRule{}, fmt.Errorf("rule %s references unknown field %q", pattern.Name, condition.Field)
		}
		switch condition.Operator {
		case opPairEquals, opPairEqualsIgnoreCase, opPairDigitsEqual, opPairEmailDomainEquals:
		default:
			return compiledRule{}, fmt.Errorf("rule %s uses unknown pair operator %q", pattern.Name,
				condition.Operator)
		}
	}

	return compiledRule{
		name:      pattern.Name,
		salience:  pattern.Salience,
		when:      pattern.When,
		match:     pattern.Match,
		reasoning: pattern.Reasoning,
	}, nil
}

func isEntityField(field string) bool {

	switch field {
	case "id", "type", "name", "address", "email", "phone", "source_system":
		return true
	}
	return false
}

func entityFieldValue(entity model.Entity, field string) string {

	switch field {
	case "id":
		return entity.Id
	case "type":
		return entity.Type
	case "name":
		return entity.Name
	case "address":
		return entity.Address
	case "email":
		return entity.Email
	case "phone":
		return entity.Phone
	case "source_system":
		return entity.SourceSystem
	}
	return ""
}

// admitsEntity reports whether the entity satisfies every "when" condition.
func (cr compiledRule) admitsEntity(entity model.Entity) bool {

	for _, condition := range cr.when {
		value := entityFieldValue(entity, condition.Field)
		switch condition.Operator {
		case opEquals:
			if value != condition.Value.(string) {
				return false
			}
		case opNotEquals:
			if value == condition.Value.(string) {
				return false
			}
		case opPresent:
			if value == "" {
				return false
			}
		case opContains:
			if !strings.Contains(value, condition.Value.(string)) {
				return false
			}
		case opMinLength:
			if len(value) < int(condition.Value.(float64)) {
				return false
			}
		case opLongerThan:
			if len(value) <= int(condition.Value.(float64)) {
				return false
			}
		}
	}
	return true
}

// matchesPair reports whether a pair of admitted entities satisfies every
// "match" condition.
func (cr compiledRule) matchesPair(entity1, entity2 model.Entity) bool {

	for _, condition := range cr.match {
		value1 := entityFieldValue(entity1, condition.Field)
		value2 := entityFieldValue(entity2, condition.Field)
		switch condition.Operator {
		case opPairEquals:
			if value1 != value2 {
				return false
			}
		case opPairEqualsIgnoreCase:
			if !strings.EqualFold(value1, value2) {
				return false
			}
		case opPairDigitsEqual:
			if stripNonDigits(value1) != stripNonDigits(value2) {
				return false
			}
		case opPairEmailDomainEquals:
			domain1 := emailDomain(value1)
			domain2 := emailDomain(value2)
			if domain1 == "" || domain1 != domain2 {
				return false
			}
		}
	}
	return true
}

// renderReasoning expands {entity1.<field>} and {entity2.<field>} placeholders
// in the pattern's reasoning template. The pseudo-field email_domain resolves
// to the substring from "@" onward.
func (cr compiledRule) renderReasoning(entity1, entity2 model.Entity) string {

	if cr.reasoning == "" {
		return fmt.Sprintf("Rule %s matched entities %s and %s", cr.name, entity1.Id, entity2.Id)
	}

	expand := func(template string, prefix string, entity model.Entity) string {
		for _, field := range []string{"id", "type", "name", "address", "email", "phone", "source_system"} {
			template = strings.ReplaceAll(template, "{"+prefix+"."+field+"}", entityFieldValue(entity, field))
		}
		return strings.ReplaceAll(template, "{"+prefix+".email_domain}", emailDomain(entity.Email))
	}

	rendered := expand(cr.reasoning, "entity1", entity1)
	return expand(rendered, "entity2", entity2)
}

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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-master-data-service/internal/entity/model"
)

func TestCompileRuleBody_RejectsMalformedBodies(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{
			name: "invalid json",
			body: `{"name": "Broken"`,
		},
		{
			name: "unknown top level field",
			body: `{"name":"X","match":[{"field":"name","operator":"equals"}],"condition":"bogus"}`,
		},
		{
			name: "missing name",
			body: `{"match":[{"field":"name","operator":"equals"}]}`,
		},
		{
			name: "no match conditions",
			body: `{"name":"X","when":[{"field":"name","operator":"present"}]}`,
		},
		{
			name: "unknown entity field",
			body: `{"name":"X","when":[{"field":"vat_number","operator":"present"}],"match":[{"field":"name","operator":"equals"}]}`,
		},
		{
			name: "unknown entity operator",
			body: `{"name":"X","when":[{"field":"name","operator":"matches_regex","value":".*"}],"match":[{"field":"name","operator":"equals"}]}`,
		},
		{
			name: "unknown pair operator",
			body: `{"name":"X","match":[{"field":"name","operator":"sounds_like"}]}`,
		},
		{
			name: "string operator with numeric value",
			body: `{"name":"X","when":[{"field":"name","operator":"equals","value":7}],"match":[{"field":"name","operator":"equals"}]}`,
		},
		{
			name: "length operator with string value",
			body: `{"name":"X","when":[{"field":"address","operator":"longer_than","value":"ten"}],"match":[{"field":"address","operator":"equals"}]}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := compileRuleBody(tc.body)
			require.Error(t, err)
		})
	}
}

func TestCompileRuleBody_AcceptsDefaultRules(t *testing.T) {
	for _, body := range DefaultRuleBodies() {
		compiled, err := compileRuleBody(body)
		require.NoError(t, err)
		assert.NotEmpty(t, compiled.name)
		assert.NotEmpty(t, compiled.match)
	}
}

func TestCompiledRule_RenderReasoningPlaceholders(t *testing.T) {
	compiled, err := compileRuleBody(`{
		"name": "EmailDomainMatch",
		"match": [{"field": "email", "operator": "email_domain_equals"}],
		"reasoning": "Email domains match: {entity1.email_domain}"
	}`)
	require.NoError(t, err)

	entity1 := model.Entity{Id: "a", Email: "sales@globex.com"}
	entity2 := model.Entity{Id: "b", Email: "ops@globex.com"}

	assert.Equal(t, "Email domains match: @globex.com", compiled.renderReasoning(entity1, entity2))
}

func TestCompiledRule_RenderReasoningWithoutTemplate(t *testing.T) {
	compiled, err := compileRuleBody(`{
		"name": "SourceSystemMatch",
		"match": [{"field": "source_system", "operator": "equals"}]
	}`)
	require.NoError(t, err)

	entity1 := model.Entity{Id: "a"}
	entity2 := model.Entity{Id: "b"}

	assert.Equal(t, "Rule SourceSystemMatch matched entities a and b",
		compiled.renderReasoning(entity1, entity2))
}

func TestCompiledRule_WhenConditionsGateEntities(t *testing.T) {
	compiled, err := compileRuleBody(`{
		"name": "AddressMatch",
		"when": [
			{"field": "address", "operator": "longer_than", "value": 10}
		],
		"match": [{"field": "address", "operator": "equals_ignore_case"}]
	}`)
	require.NoError(t, err)

	assert.True(t, compiled.admitsEntity(model.Entity{Address: "450 Industrial Parkway"}))
	assert.False(t, compiled.admitsEntity(model.Entity{Address: "PO Box 9"}))
	assert.False(t, compiled.admitsEntity(model.Entity{}))
}

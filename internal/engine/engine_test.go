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
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-master-data-service/internal/entity/model"
	"github.com/wso2/identity-master-data-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func sampleBatch() []model.Entity {
	return []model.Entity{
		{Id: "E1", Type: "Organization", Name: "Acme Corp", Phone: "555-123-4567"},
		{Id: "E2", Type: "Organization", Name: "ACME CORP", Phone: "555-123-4567"},
		{Id: "E3", Type: "Organization", Name: "Different Co", Phone: "555-987-6543"},
	}
}

func suggestionNames(suggestions []MergeSuggestion) []string {
	names := []string{}
	for _, s := range suggestions {
		names = append(names, s.RuleName)
	}
	return names
}

func assertAcmeBatchSuggestions(t *testing.T, suggestions []MergeSuggestion) {
	t.Helper()
	require.Len(t, suggestions, 2)
	assert.ElementsMatch(t, []string{RuleNameExactCompanyNameMatch, RuleNamePhoneNumberMatch},
		suggestionNames(suggestions))
	for _, s := range suggestions {
		assert.Equal(t, "E1", s.Entity1.Id)
		assert.Equal(t, "E2", s.Entity2.Id)
	}
}

func TestPairwiseEngine_AcmeBatch(t *testing.T) {

	suggestions, err := NewPairwiseEngine().Evaluate(context.Background(), sampleBatch(), []string{"builtin"})
	require.NoError(t, err)
	assertAcmeBatchSuggestions(t, suggestions)
}

func TestRegistryEngine_AcmeBatch(t *testing.T) {

	suggestions, err := NewRegistryEngine().Evaluate(context.Background(), sampleBatch(), []string{"builtin"})
	require.NoError(t, err)
	assertAcmeBatchSuggestions(t, suggestions)
}

func TestDeclarativeEngine_AcmeBatchWithDefaultRules(t *testing.T) {

	suggestions, err := NewDeclarativeEngine().Evaluate(context.Background(), sampleBatch(), DefaultRuleBodies())
	require.NoError(t, err)
	assertAcmeBatchSuggestions(t, suggestions)
}

func TestEngines_EmptyInputsYieldNoSuggestions(t *testing.T) {

	engines := []MatchEngine{NewPairwiseEngine(), NewRegistryEngine(), NewDeclarativeEngine()}
	for _, eng := range engines {
		suggestions, err := eng.Evaluate(context.Background(), nil, DefaultRuleBodies())
		require.NoError(t, err)
		assert.Empty(t, suggestions)

		suggestions, err = eng.Evaluate(context.Background(), sampleBatch(), nil)
		require.NoError(t, err)
		assert.Empty(t, suggestions)
	}
}

func TestPairwiseEngine_ReasoningAndMergedEntity(t *testing.T) {

	entities := []model.Entity{
		{Id: "a", Type: "Organization", Name: "Globex", Email: "x@globex.com",
			Attributes: map[string]interface{}{"tier": "gold"}},
		{Id: "b", Type: "Organization", Name: "globex", Address: "742 Evergreen Terrace, Springfield",
			Email: "y@globex.com"},
	}

	suggestions, err := NewPairwiseEngine().Evaluate(context.Background(), entities, []string{"builtin"})
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	byName := map[string]MergeSuggestion{}
	for _, s := range suggestions {
		byName[s.RuleName] = s
	}

	nameMatch, ok := byName[RuleNameExactCompanyNameMatch]
	require.True(t, ok)
	assert.Equal(t, "Company names match exactly: Globex", nameMatch.Reasoning)

	emailMatch, ok := byName[RuleNameEmailDomainMatch]
	require.True(t, ok)
	assert.Equal(t, "Email domains match: @globex.com", emailMatch.Reasoning)

	var merged model.Entity
	require.NoError(t, json.Unmarshal([]byte(nameMatch.ProposedMergedEntityJSON), &merged))
	assert.Equal(t, "a-b", merged.Id)
	assert.Equal(t, "Globex", merged.Name)
	assert.Equal(t, "742 Evergreen Terrace, Springfield", merged.Address)
	assert.Equal(t, map[string]interface{}{"tier": "gold"}, merged.Attributes)
}

func TestMatchEmailDomain_CaseSensitive(t *testing.T) {

	entity1 := model.Entity{Id: "a", Email: "x@Acme.com"}
	entity2 := model.Entity{Id: "b", Email: "y@acme.com"}

	_, matched := matchEmailDomain(entity1, entity2)
	assert.False(t, matched)

	_, matched = matchEmailDomain(entity2, model.Entity{Id: "c", Email: "z@acme.com"})
	assert.True(t, matched)
}

func TestMatchAddress_RequiresLengthOverTen(t *testing.T) {

	short1 := model.Entity{Id: "a", Address: "short st"}
	short2 := model.Entity{Id: "b", Address: "short st"}
	_, matched := matchAddress(short1, short2)
	assert.False(t, matched)

	long1 := model.Entity{Id: "a", Address: "100 Industrial Way"}
	long2 := model.Entity{Id: "b", Address: "100 INDUSTRIAL WAY"}
	reasoning, matched := matchAddress(long1, long2)
	assert.True(t, matched)
	assert.Equal(t, "Addresses match: 100 Industrial Way", reasoning)
}

func TestMatchCompanyName_RequiresOrganizationType(t *testing.T) {

	person := model.Entity{Id: "a", Type: "Person", Name: "Acme Corp"}
	org := model.Entity{Id: "b", Type: "Organization", Name: "Acme Corp"}

	_, matched := matchCompanyName(person, org)
	assert.False(t, matched)
}

func TestMatchPhoneNumber_StripsFormatting(t *testing.T) {

	entity1 := model.Entity{Id: "a", Phone: "+1 (555) 123-4567"}
	entity2 := model.Entity{Id: "b", Phone: "1-555-123-4567"}

	reasoning, matched := matchPhoneNumber(entity1, entity2)
	assert.True(t, matched)
	assert.Equal(t, "Phone numbers match: +1 (555) 123-4567 = 1-555-123-4567", reasoning)

	_, matched = matchPhoneNumber(model.Entity{Id: "a", Phone: "555-1234"}, entity2)
	assert.False(t, matched)
}

func TestEngines_DoNotMutateInputEntities(t *testing.T) {

	entities := sampleBatch()
	original := sampleBatch()

	_, err := NewRegistryEngine().Evaluate(context.Background(), entities, []string{"builtin"})
	require.NoError(t, err)
	assert.Equal(t, original, entities)
}

func TestDeclarativeEngine_MalformedBodyFailsWholeBatch(t *testing.T) {

	bodies := []string{DefaultCompanyNameRuleBody, `{"name": "Broken", "match": [{"field": "name", "operator": "frobnicate"}]}`}

	suggestions, err := NewDeclarativeEngine().Evaluate(context.Background(), sampleBatch(), bodies)
	require.Error(t, err)
	assert.Nil(t, suggestions)
}

func TestDeclarativeEngine_CompileCacheReusesRuleSet(t *testing.T) {

	eng := NewDeclarativeEngine()
	bodies := DefaultRuleBodies()

	_, err := eng.Evaluate(context.Background(), sampleBatch(), bodies)
	require.NoError(t, err)
	assert.Equal(t, 1, eng.compileCache.Len())

	_, err = eng.Evaluate(context.Background(), sampleBatch(), bodies)
	require.NoError(t, err)
	assert.Equal(t, 1, eng.compileCache.Len())
}

func TestDeclarativeEngine_CustomPattern(t *testing.T) {

	body := `{
	  "name": "SourceSystemMatch",
	  "salience": 5,
	  "when": [
	    {"field": "source_system", "operator": "present"}
	  ],
	  "match": [
	    {"field": "source_system", "operator": "equals"}
	  ],
	  "reasoning": "Source systems match: {entity1.source_system}"
	}`

	entities := []model.Entity{
		{Id: "a", SourceSystem: "crm"},
		{Id: "b", SourceSystem: "crm"},
		{Id: "c", SourceSystem: "erp"},
	}

	suggestions, err := NewDeclarativeEngine().Evaluate(context.Background(), entities, []string{body})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "SourceSystemMatch", suggestions[0].RuleName)
	assert.Equal(t, "Source systems match: crm", suggestions[0].Reasoning)
	assert.Equal(t, "a", suggestions[0].Entity1.Id)
	assert.Equal(t, "b", suggestions[0].Entity2.Id)
}

func TestEngines_CancelledContextStopsEvaluation(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRegistryEngine().Evaluate(ctx, sampleBatch(), []string{"builtin"})
	assert.ErrorIs(t, err, context.Canceled)
}

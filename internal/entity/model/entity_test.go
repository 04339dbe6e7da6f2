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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMergedEntityPrefersFirstEntityFields(t *testing.T) {

	entity1 := Entity{
		Id:           "org-1",
		Type:         "Organization",
		Name:         "Acme Corp",
		Email:        "info@acme.com",
		SourceSystem: "crm",
	}
	entity2 := Entity{
		Id:           "org-2",
		Type:         "Organization",
		Name:         "ACME Corporation",
		Address:      "100 Industrial Way, Springfield",
		Email:        "sales@acme.com",
		Phone:        "+1 (555) 010-2000",
		SourceSystem: "erp",
	}

	merged := BuildMergedEntity(entity1, entity2)

	assert.Equal(t, "org-1-org-2", merged.Id)
	assert.Equal(t, "Acme Corp", merged.Name)
	assert.Equal(t, "info@acme.com", merged.Email)
	assert.Equal(t, "crm", merged.SourceSystem)
	// Fields empty on the first entity fall back to the second.
	assert.Equal(t, "100 Industrial Way, Springfield", merged.Address)
	assert.Equal(t, "+1 (555) 010-2000", merged.Phone)
}

func TestBuildMergedEntityAttributesNotCombined(t *testing.T) {

	entity1 := Entity{
		Id:         "p-1",
		Attributes: map[string]interface{}{"segment": "enterprise"},
	}
	entity2 := Entity{
		Id:         "p-2",
		Attributes: map[string]interface{}{"segment": "smb", "region": "emea"},
	}

	merged := BuildMergedEntity(entity1, entity2)

	assert.Equal(t, map[string]interface{}{"segment": "enterprise"}, merged.Attributes)
	assert.NotContains(t, merged.Attributes, "region")
}

func TestBuildMergedEntityAttributesFallBackToSecond(t *testing.T) {

	entity1 := Entity{Id: "p-1"}
	entity2 := Entity{
		Id:         "p-2",
		Attributes: map[string]interface{}{"region": "emea"},
	}

	merged := BuildMergedEntity(entity1, entity2)

	assert.Equal(t, map[string]interface{}{"region": "emea"}, merged.Attributes)

	// The merged map must not alias the input entity's map.
	merged.Attributes["region"] = "apac"
	assert.Equal(t, "emea", entity2.Attributes["region"])
}

func TestBuildMergedEntityDoesNotMutateInputs(t *testing.T) {

	entity1 := Entity{Id: "a", Name: "First"}
	entity2 := Entity{Id: "b", Name: "Second", Phone: "5550100200"}

	_ = BuildMergedEntity(entity1, entity2)

	assert.Equal(t, Entity{Id: "a", Name: "First"}, entity1)
	assert.Equal(t, Entity{Id: "b", Name: "Second", Phone: "5550100200"}, entity2)
}

func TestGetAttribute(t *testing.T) {

	entity := Entity{Attributes: map[string]interface{}{"tier": "gold"}}

	assert.Equal(t, "gold", entity.GetAttribute("tier"))
	assert.Nil(t, entity.GetAttribute("missing"))
	assert.Nil(t, Entity{}.GetAttribute("tier"))
}

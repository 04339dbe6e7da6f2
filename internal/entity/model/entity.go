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

// Entity is a single source record eligible for deduplication. Entities are
// immutable inputs to a matching run; the service never persists them.
type Entity struct {
	Id           string                 `json:"id"`
	Type         string                 `json:"type"`
	Name         string                 `json:"name,omitempty"`
	Address      string                 `json:"address,omitempty"`
	Email        string                 `json:"email,omitempty"`
	Phone        string                 `json:"phone,omitempty"`
	SourceSystem string                 `json:"source_system,omitempty"`
	Attributes   map[string]interface{} `json:"attributes,omitempty"`
}

// GetAttribute returns the value of a dynamic attribute, or nil when absent.
func (e Entity) GetAttribute(key string) interface{} {
	if e.Attributes == nil {
		return nil
	}
	return e.Attributes[key]
}

// BuildMergedEntity constructs the proposed merged record for a pair of
// entities. Field by field, the first entity's value wins when non-empty,
// otherwise the second entity's value is taken. The synthesized id is
// "<id1>-<id2>". Attribute maps are not combined: the first entity's full
// map wins when present, otherwise the second's.
func BuildMergedEntity(entity1, entity2 Entity) Entity {

	merged := Entity{
		Id:           entity1.Id + "-" + entity2.Id,
		Type:         preferNonEmpty(entity1.Type, entity2.Type),
		Name:         preferNonEmpty(entity1.Name, entity2.Name),
		Address:      preferNonEmpty(entity1.Address, entity2.Address),
		Email:        preferNonEmpty(entity1.Email, entity2.Email),
		Phone:        preferNonEmpty(entity1.Phone, entity2.Phone),
		SourceSystem: preferNonEmpty(entity1.SourceSystem, entity2.SourceSystem),
	}

	attributes := entity1.Attributes
	if attributes == nil {
		attributes = entity2.Attributes
	}
	if attributes != nil {
		// Copy so the merged record never aliases an input entity's map.
		merged.Attributes = make(map[string]interface{}, len(attributes))
		for key, value := range attributes {
			merged.Attributes[key] = value
		}
	}

	return merged
}

func preferNonEmpty(first, second string) string {
	if first != "" {
		return first
	}
	return second
}

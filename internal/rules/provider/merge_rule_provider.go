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

package provider

import (
	"github.com/wso2/identity-master-data-service/internal/rules/service"
)

// MergeRuleProviderInterface defines the interface for the merge rule provider.
type MergeRuleProviderInterface interface {
	GetMergeRuleService() service.MergeRuleServiceInterface
}

// MergeRuleProvider is the default implementation of the MergeRuleProviderInterface.
type MergeRuleProvider struct{}

// NewMergeRuleProvider creates a new instance of MergeRuleProvider.
func NewMergeRuleProvider() MergeRuleProviderInterface {

	return &MergeRuleProvider{}
}

// GetMergeRuleService returns the merge rule service instance.
func (mrp *MergeRuleProvider) GetMergeRuleService() service.MergeRuleServiceInterface {

	return service.GetMergeRuleService()
}

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

package constants

type contextKey string

const (
	// TraceIDContextKey carries the request trace id through the call chain.
	TraceIDContextKey contextKey = "traceId"
)

const (
	// ApiBasePath is the base path under which all services are mounted.
	ApiBasePath = "/api/v1"
)

// Resource names used in API responses.
const (
	GlobalRuleResource     = "global-rule"
	CompanyRuleResource    = "company-rule"
	MergeCandidateResource = "merge-candidate"
	AuditLogResource       = "audit-log"
	EntityBatchResource    = "entity-batch"
)

// Entity type tags recognized by the fixed match rules.
const (
	EntityTypeOrganization = "Organization"
	EntityTypePerson       = "Person"
)

// Match engine variants selectable from deployment configuration.
const (
	EngineTypePairwise    = "pairwise"
	EngineTypeRegistry    = "registry"
	EngineTypeDeclarative = "declarative"
)

/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package services

import (
	"net/http"
	"strings"

	"github.com/wso2/identity-master-data-service/internal/rules/handler"
)

type MergeRulesService struct {
	mergeRulesHandler *handler.MergeRulesHandler
}

func NewMergeRulesService() *MergeRulesService {
	return &MergeRulesService{
		mergeRulesHandler: handler.NewMergeRulesHandler(),
	}
}

// Route handles all global and company merge rule endpoints.
func (s *MergeRulesService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method

	switch {
	case method == http.MethodPost && path == "/global-rules":
		s.mergeRulesHandler.AddGlobalRule(w, r)

	case method == http.MethodGet && path == "/global-rules":
		s.mergeRulesHandler.GetGlobalRules(w, r)

	case method == http.MethodGet && strings.HasPrefix(path, "/global-rules/"):
		s.mergeRulesHandler.GetGlobalRule(w, r)

	case method == http.MethodPatch && strings.HasPrefix(path, "/global-rules/"):
		s.mergeRulesHandler.PatchGlobalRule(w, r)

	case method == http.MethodDelete && strings.HasPrefix(path, "/global-rules/"):
		s.mergeRulesHandler.DeleteGlobalRule(w, r)

	case method == http.MethodGet && strings.HasPrefix(path, "/company-rules/effective/"):
		s.mergeRulesHandler.GetEffectiveRules(w, r)

	case method == http.MethodPost && path == "/company-rules":
		s.mergeRulesHandler.AddCompanyRule(w, r)

	case method == http.MethodGet && path == "/company-rules":
		s.mergeRulesHandler.GetCompanyRules(w, r)

	case method == http.MethodGet && strings.HasPrefix(path, "/company-rules/"):
		s.mergeRulesHandler.GetCompanyRule(w, r)

	case method == http.MethodPatch && strings.HasPrefix(path, "/company-rules/"):
		s.mergeRulesHandler.PatchCompanyRule(w, r)

	case method == http.MethodDelete && strings.HasPrefix(path, "/company-rules/"):
		s.mergeRulesHandler.DeleteCompanyRule(w, r)

	default:
		http.NotFound(w, r)
	}
}

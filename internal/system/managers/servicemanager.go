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

package managers

import (
	"net/http"
	"strings"

	"github.com/wso2/identity-master-data-service/internal/system/services"
	"github.com/wso2/identity-master-data-service/internal/system/utils"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type ServiceManager struct {
	mux *http.ServeMux
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {

	return &ServiceManager{
		mux: mux,
	}
}

func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	mergeRulesService := services.NewMergeRulesService()
	mergeCandidatesService := services.NewMergeCandidatesService()
	healthService := services.NewHealthService()

	// Health and readiness probes live outside the API base path.
	sm.mux.HandleFunc("/health", healthService.Route)
	sm.mux.HandleFunc("/ready", healthService.Route)

	// Single dispatcher for all API services
	utils.MountAPIDispatcher(sm.mux, apiBasePath, func(w http.ResponseWriter, r *http.Request) {
		// Internal path after base path stripping
		path := strings.TrimSuffix(r.URL.Path, "/")

		// Dispatch to correct service based on path
		switch {
		case strings.HasPrefix(path, "/global-rules"), strings.HasPrefix(path, "/company-rules"):
			mergeRulesService.Route(w, r)
		case strings.HasPrefix(path, "/merge-candidates"), strings.HasPrefix(path, "/entities"):
			mergeCandidatesService.Route(w, r)
		default:
			http.NotFound(w, r)
		}
	})
	return nil
}

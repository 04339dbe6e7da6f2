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

	"github.com/wso2/identity-master-data-service/internal/candidates/handler"
)

type MergeCandidatesService struct {
	mergeCandidatesHandler *handler.MergeCandidatesHandler
}

func NewMergeCandidatesService() *MergeCandidatesService {
	return &MergeCandidatesService{
		mergeCandidatesHandler: handler.NewMergeCandidatesHandler(),
	}
}

// Route handles entity ingestion and merge candidate review endpoints.
func (s *MergeCandidatesService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method

	switch {
	case method == http.MethodPost && path == "/entities/process":
		s.mergeCandidatesHandler.ProcessEntities(w, r)

	case method == http.MethodPost && path == "/merge-candidates/approve-all-pending":
		s.mergeCandidatesHandler.ApproveAllPending(w, r)

	case method == http.MethodGet && path == "/merge-candidates":
		s.mergeCandidatesHandler.GetMergeCandidates(w, r)

	case method == http.MethodGet && strings.HasSuffix(path, "/audit-trail") &&
		strings.HasPrefix(path, "/merge-candidates/"):
		s.mergeCandidatesHandler.GetAuditTrail(w, r)

	case method == http.MethodPut && strings.HasSuffix(path, "/review") &&
		strings.HasPrefix(path, "/merge-candidates/"):
		s.mergeCandidatesHandler.ReviewMergeCandidate(w, r)

	case method == http.MethodGet && strings.HasPrefix(path, "/merge-candidates/"):
		s.mergeCandidatesHandler.GetMergeCandidate(w, r)

	default:
		http.NotFound(w, r)
	}
}

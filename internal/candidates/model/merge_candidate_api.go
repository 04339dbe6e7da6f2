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
	entitymodel "github.com/wso2/identity-master-data-service/internal/entity/model"
)

// ProcessEntitiesAPIRequest is the entity ingestion payload: a batch of
// source records plus the company and domain whose rules apply to it.
type ProcessEntitiesAPIRequest struct {
	CompanyId string               `json:"company_id" validate:"required"`
	Domain    string               `json:"domain" validate:"required"`
	Entities  []entitymodel.Entity `json:"entities" validate:"dive"`
}

// ReviewAPIRequest carries a human review decision for one merge candidate.
type ReviewAPIRequest struct {
	Status  string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	Comment string `json:"comment"`
}

// BulkReviewResult reports the outcome of an approve-all-pending run. The
// operation never fails as a whole on individual candidate failures.
type BulkReviewResult struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	FailedIds []string `json:"failed_ids,omitempty"`
}

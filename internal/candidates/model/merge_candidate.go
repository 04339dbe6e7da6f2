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

// Merge candidate review states. PENDING_REVIEW is the only non-terminal
// state; APPROVED and REJECTED are terminal.
const (
	StatusPendingReview = "PENDING_REVIEW"
	StatusApproved      = "APPROVED"
	StatusRejected      = "REJECTED"
)

// MergeCandidate is the durable unit of human review: a pair of entity
// snapshots, the proposed merged record, the reasoning, and the review state.
// Candidates are created in PENDING_REVIEW and mutated only by review
// transitions.
type MergeCandidate struct {
	CandidateId              string `json:"candidate_id"`
	Entity1JSON              string `json:"entity1_json"`
	Entity2JSON              string `json:"entity2_json"`
	ProposedMergedEntityJSON string `json:"proposed_merged_entity_json"`
	Reasoning                string `json:"reasoning"`
	Status                   string `json:"status"`
	ReviewComment            string `json:"review_comment,omitempty"`
	CreatedAt                int64  `json:"created_at"`
	UpdatedAt                int64  `json:"updated_at"`
}

// AuditLog is an append-only record of one rule firing, tied to exactly one
// merge candidate. Entries are never mutated or deleted.
type AuditLog struct {
	LogId              string `json:"log_id"`
	CandidateId        string `json:"candidate_id"`
	RuleName           string `json:"rule_name"`
	RuleDetails        string `json:"rule_details"`
	Entity1Id          string `json:"entity1_id"`
	Entity2Id          string `json:"entity2_id"`
	BotDecisionToMerge bool   `json:"bot_decision_to_merge"`
	CreatedAt          int64  `json:"created_at"`
}

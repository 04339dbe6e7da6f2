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

package scripts

// Global merge rule queries

var InsertGlobalRule = map[string]string{
	"postgres": `INSERT INTO global_merge_rules
	(rule_id, domain, rule_name, description, rule_body, priority, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
}

var GetGlobalRule = map[string]string{
	"postgres": `SELECT rule_id, domain, rule_name, description, rule_body, priority, is_active, created_at, updated_at
	FROM global_merge_rules WHERE rule_id = $1`,
}

var GetGlobalRuleByName = map[string]string{
	"postgres": `SELECT rule_id, domain, rule_name, description, rule_body, priority, is_active, created_at, updated_at
	FROM global_merge_rules WHERE domain = $1 AND rule_name = $2`,
}

var GetGlobalRulesByDomain = map[string]string{
	"postgres": `SELECT rule_id, domain, rule_name, description, rule_body, priority, is_active, created_at, updated_at
	FROM global_merge_rules WHERE domain = $1 ORDER BY priority DESC, rule_name ASC`,
}

var GetActiveGlobalRulesByDomain = map[string]string{
	"postgres": `SELECT rule_id, domain, rule_name, description, rule_body, priority, is_active, created_at, updated_at
	FROM global_merge_rules WHERE domain = $1 AND is_active = true ORDER BY priority DESC, rule_name ASC`,
}

var UpdateGlobalRule = map[string]string{
	"postgres": `UPDATE global_merge_rules SET domain = $1, rule_name = $2, description = $3, rule_body = $4,
	priority = $5, is_active = $6, updated_at = $7 WHERE rule_id = $8`,
}

var DeleteGlobalRule = map[string]string{
	"postgres": `DELETE FROM global_merge_rules WHERE rule_id = $1`,
}

// Company merge rule queries

var InsertCompanyRule = map[string]string{
	"postgres": `INSERT INTO company_merge_rules
	(rule_id, company_id, rule_name, description, rule_body, priority, is_active, overrides_global, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
}

var GetCompanyRule = map[string]string{
	"postgres": `SELECT rule_id, company_id, rule_name, description, rule_body, priority, is_active, overrides_global,
	created_at, updated_at FROM company_merge_rules WHERE rule_id = $1`,
}

var GetCompanyRuleByName = map[string]string{
	"postgres": `SELECT rule_id, company_id, rule_name, description, rule_body, priority, is_active, overrides_global,
	created_at, updated_at FROM company_merge_rules WHERE company_id = $1 AND rule_name = $2`,
}

var GetCompanyRulesByCompany = map[string]string{
	"postgres": `SELECT rule_id, company_id, rule_name, description, rule_body, priority, is_active, overrides_global,
	created_at, updated_at FROM company_merge_rules WHERE company_id = $1 ORDER BY priority DESC, rule_name ASC`,
}

var GetActiveCompanyRulesByCompany = map[string]string{
	"postgres": `SELECT rule_id, company_id, rule_name, description, rule_body, priority, is_active, overrides_global,
	created_at, updated_at FROM company_merge_rules WHERE company_id = $1 AND is_active = true
	ORDER BY priority DESC, rule_name ASC`,
}

var UpdateCompanyRule = map[string]string{
	"postgres": `UPDATE company_merge_rules SET company_id = $1, rule_name = $2, description = $3, rule_body = $4,
	priority = $5, is_active = $6, overrides_global = $7, updated_at = $8 WHERE rule_id = $9`,
}

var DeleteCompanyRule = map[string]string{
	"postgres": `DELETE FROM company_merge_rules WHERE rule_id = $1`,
}

// Merge candidate queries

var InsertMergeCandidate = map[string]string{
	"postgres": `INSERT INTO merge_candidates
	(candidate_id, entity1_json, entity2_json, proposed_merged_entity_json, reasoning, status, review_comment,
	created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
}

var GetMergeCandidate = map[string]string{
	"postgres": `SELECT candidate_id, entity1_json, entity2_json, proposed_merged_entity_json, reasoning, status,
	review_comment, created_at, updated_at FROM merge_candidates WHERE candidate_id = $1`,
}

var GetMergeCandidatesByStatus = map[string]string{
	"postgres": `SELECT candidate_id, entity1_json, entity2_json, proposed_merged_entity_json, reasoning, status,
	review_comment, created_at, updated_at FROM merge_candidates WHERE status = $1 ORDER BY created_at ASC`,
}

var GetAllMergeCandidates = map[string]string{
	"postgres": `SELECT candidate_id, entity1_json, entity2_json, proposed_merged_entity_json, reasoning, status,
	review_comment, created_at, updated_at FROM merge_candidates ORDER BY created_at ASC`,
}

// UpdateMergeCandidateStatusIfPending is a compare-and-swap on status. A zero
// row count means the candidate is missing or no longer pending.
var UpdateMergeCandidateStatusIfPending = map[string]string{
	"postgres": `UPDATE merge_candidates SET status = $1, review_comment = $2, updated_at = $3
	WHERE candidate_id = $4 AND status = 'PENDING_REVIEW'`,
}

// Audit log queries

var InsertAuditLog = map[string]string{
	"postgres": `INSERT INTO audit_logs
	(log_id, candidate_id, rule_name, rule_details, entity1_id, entity2_id, bot_decision_to_merge, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
}

var GetAuditLogsByCandidate = map[string]string{
	"postgres": `SELECT log_id, candidate_id, rule_name, rule_details, entity1_id, entity2_id, bot_decision_to_merge,
	created_at FROM audit_logs WHERE candidate_id = $1 ORDER BY created_at ASC, log_id ASC`,
}

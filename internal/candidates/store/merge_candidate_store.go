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

package store

import (
	"context"
	"fmt"

	"github.com/wso2/identity-master-data-service/internal/candidates/model"
	"github.com/wso2/identity-master-data-service/internal/system/database/provider"
	"github.com/wso2/identity-master-data-service/internal/system/database/scripts"
	errors2 "github.com/wso2/identity-master-data-service/internal/system/errors"
	"github.com/wso2/identity-master-data-service/internal/system/log"
)

// MergeCandidateStoreInterface defines the persistence operations for merge
// candidates and their audit trail.
type MergeCandidateStoreInterface interface {
	CreateBatch(ctx context.Context, candidates []model.MergeCandidate, auditLogs []model.AuditLog) error
	GetMergeCandidate(candidateId string) (*model.MergeCandidate, error)
	GetMergeCandidatesByStatus(status string) ([]model.MergeCandidate, error)
	GetAllMergeCandidates() ([]model.MergeCandidate, error)
	UpdateStatusIfPending(candidateId, status, comment string, updatedAt int64) (int64, error)
	GetAuditLogs(candidateId string) ([]model.AuditLog, error)
}

// MergeCandidateStore is the default implementation of the
// MergeCandidateStoreInterface.
type MergeCandidateStore struct{}

// GetMergeCandidateStore creates a new instance of MergeCandidateStore.
func GetMergeCandidateStore() MergeCandidateStoreInterface {

	return &MergeCandidateStore{}
}

// CreateBatch persists one batch's merge candidates and their audit rows as a
// single transaction. Either every derived record becomes visible or none.
func (mcs *MergeCandidateStore) CreateBatch(ctx context.Context, candidates []model.MergeCandidate,
	auditLogs []model.AuditLog) error {

	if len(candidates) == 0 {
		return nil
	}

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for persisting merge candidates"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		errorMsg := "Failed to begin transaction for persisting merge candidates"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.BEGIN_TRANSACTION.Code,
			Message:     errors2.BEGIN_TRANSACTION.Message,
			Description: errorMsg,
		}, err)
	}

	dbType := provider.NewDBProvider().GetDBType()
	candidateQuery := scripts.InsertMergeCandidate[dbType]
	auditQuery := scripts.InsertAuditLog[dbType]

	for _, candidate := range candidates {
		_, err = tx.ExecContext(ctx, candidateQuery, candidate.CandidateId, candidate.Entity1JSON,
			candidate.Entity2JSON, candidate.ProposedMergedEntityJSON, candidate.Reasoning, candidate.Status,
			candidate.ReviewComment, candidate.CreatedAt, candidate.UpdatedAt)
		if err != nil {
			return rollbackCreateBatch(tx, err,
				fmt.Sprintf("Failed to insert merge candidate: %s", candidate.CandidateId))
		}
	}

	for _, auditLog := range auditLogs {
		_, err = tx.ExecContext(ctx, auditQuery, auditLog.LogId, auditLog.CandidateId, auditLog.RuleName,
			auditLog.RuleDetails, auditLog.Entity1Id, auditLog.Entity2Id, auditLog.BotDecisionToMerge,
			auditLog.CreatedAt)
		if err != nil {
			return rollbackCreateBatch(tx, err,
				fmt.Sprintf("Failed to insert audit log for merge candidate: %s", auditLog.CandidateId))
		}
	}

	if err := tx.Commit(); err != nil {
		errorMsg := "Failed to commit transaction for persisting merge candidates"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.COMMIT_TRANSACTION.Code,
			Message:     errors2.COMMIT_TRANSACTION.Message,
			Description: errorMsg,
		}, err)
	}

	logger.Info(fmt.Sprintf("Persisted %d merge candidate(s) with %d audit row(s)", len(candidates),
		len(auditLogs)))
	return nil
}

// GetMergeCandidate fetches one merge candidate by its id. A nil candidate
// with a nil error means the candidate does not exist.
func (mcs *MergeCandidateStore) GetMergeCandidate(candidateId string) (*model.MergeCandidate, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching merge candidate: %s", candidateId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetMergeCandidate[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, candidateId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch merge candidate: %s", candidateId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MERGE_CANDIDATES.Code,
			Message:     errors2.FETCH_MERGE_CANDIDATES.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		logger.Debug(fmt.Sprintf("No merge candidate found for id: %s", candidateId))
		return nil, nil
	}

	candidate := buildMergeCandidateFromRow(results[0])
	return &candidate, nil
}

// GetMergeCandidatesByStatus fetches all merge candidates in a given status,
// oldest first.
func (mcs *MergeCandidateStore) GetMergeCandidatesByStatus(status string) ([]model.MergeCandidate, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching merge candidates in status: %s", status)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetMergeCandidatesByStatus[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, status)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch merge candidates in status: %s", status)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MERGE_CANDIDATES.Code,
			Message:     errors2.FETCH_MERGE_CANDIDATES.Message,
			Description: errorMsg,
		}, err)
	}

	candidates := []model.MergeCandidate{}
	for _, row := range results {
		candidates = append(candidates, buildMergeCandidateFromRow(row))
	}
	return candidates, nil
}

// GetAllMergeCandidates fetches every merge candidate regardless of status,
// oldest first.
func (mcs *MergeCandidateStore) GetAllMergeCandidates() ([]model.MergeCandidate, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for fetching merge candidates"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetAllMergeCandidates[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query)
	if err != nil {
		errorMsg := "Failed to fetch merge candidates"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MERGE_CANDIDATES.Code,
			Message:     errors2.FETCH_MERGE_CANDIDATES.Message,
			Description: errorMsg,
		}, err)
	}

	candidates := []model.MergeCandidate{}
	for _, row := range results {
		candidates = append(candidates, buildMergeCandidateFromRow(row))
	}
	return candidates, nil
}

// UpdateStatusIfPending performs a compare-and-swap transition: the status is
// changed only while the candidate is still PENDING_REVIEW. The affected row
// count is returned so callers can distinguish a lost race from a missing
// candidate.
func (mcs *MergeCandidateStore) UpdateStatusIfPending(candidateId, status, comment string,
	updatedAt int64) (int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for reviewing merge candidate: %s", candidateId)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.UpdateMergeCandidateStatusIfPending[provider.NewDBProvider().GetDBType()]
	rowsAffected, err := dbClient.ExecuteUpdate(query, status, comment, updatedAt, candidateId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to update status of merge candidate: %s", candidateId)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_MERGE_CANDIDATE.Code,
			Message:     errors2.UPDATE_MERGE_CANDIDATE.Message,
			Description: errorMsg,
		}, err)
	}
	return rowsAffected, nil
}

// GetAuditLogs fetches the audit trail of one merge candidate ordered by
// timestamp ascending.
func (mcs *MergeCandidateStore) GetAuditLogs(candidateId string) ([]model.AuditLog, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching audit logs of candidate: %s", candidateId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetAuditLogsByCandidate[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, candidateId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch audit logs for merge candidate: %s", candidateId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_AUDIT_LOGS.Code,
			Message:     errors2.FETCH_AUDIT_LOGS.Message,
			Description: errorMsg,
		}, err)
	}

	auditLogs := []model.AuditLog{}
	for _, row := range results {
		var auditLog model.AuditLog
		auditLog.LogId = row["log_id"].(string)
		auditLog.CandidateId = row["candidate_id"].(string)
		auditLog.RuleName = row["rule_name"].(string)
		auditLog.RuleDetails = row["rule_details"].(string)
		auditLog.Entity1Id = row["entity1_id"].(string)
		auditLog.Entity2Id = row["entity2_id"].(string)
		auditLog.BotDecisionToMerge = row["bot_decision_to_merge"].(bool)
		auditLog.CreatedAt = row["created_at"].(int64)
		auditLogs = append(auditLogs, auditLog)
	}
	return auditLogs, nil
}

func rollbackCreateBatch(tx interface{ Rollback() error }, cause error, errorMsg string) error {

	logger := log.GetLogger()
	if rollbackErr := tx.Rollback(); rollbackErr != nil {
		logger.Debug("Failed to rollback merge candidate batch transaction", log.Error(rollbackErr))
	}
	logger.Debug(errorMsg, log.Error(cause))
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        errors2.ADD_MERGE_CANDIDATE.Code,
		Message:     errors2.ADD_MERGE_CANDIDATE.Message,
		Description: errorMsg,
	}, cause)
}

func buildMergeCandidateFromRow(row map[string]interface{}) model.MergeCandidate {

	var candidate model.MergeCandidate
	candidate.CandidateId = row["candidate_id"].(string)
	candidate.Entity1JSON = row["entity1_json"].(string)
	candidate.Entity2JSON = row["entity2_json"].(string)
	candidate.ProposedMergedEntityJSON = row["proposed_merged_entity_json"].(string)
	candidate.Reasoning = row["reasoning"].(string)
	candidate.Status = row["status"].(string)
	candidate.ReviewComment = row["review_comment"].(string)
	candidate.CreatedAt = row["created_at"].(int64)
	candidate.UpdatedAt = row["updated_at"].(int64)
	return candidate
}

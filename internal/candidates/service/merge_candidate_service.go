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

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wso2/identity-master-data-service/internal/candidates/model"
	"github.com/wso2/identity-master-data-service/internal/candidates/store"
	"github.com/wso2/identity-master-data-service/internal/engine"
	entitymodel "github.com/wso2/identity-master-data-service/internal/entity/model"
	rulesservice "github.com/wso2/identity-master-data-service/internal/rules/service"
	"github.com/wso2/identity-master-data-service/internal/system/config"
	errors2 "github.com/wso2/identity-master-data-service/internal/system/errors"
	"github.com/wso2/identity-master-data-service/internal/system/log"
)

// RuleResolverInterface is the slice of the rule service the orchestrator
// depends on.
type RuleResolverInterface interface {
	ResolveEffectiveRules(companyId, domain string) ([]string, error)
}

type MergeCandidateServiceInterface interface {
	ProcessEntityBatch(ctx context.Context, companyId, domain string, entities []entitymodel.Entity) error
	ReviewMergeCandidate(candidateId, targetStatus, comment string) (*model.MergeCandidate, error)
	ApproveAllPending(comment string) (model.BulkReviewResult, error)
	GetMergeCandidate(candidateId string) (*model.MergeCandidate, error)
	GetMergeCandidatesByStatus(status string) ([]model.MergeCandidate, error)
	GetAllMergeCandidates() ([]model.MergeCandidate, error)
	GetAuditTrail(candidateId string) ([]model.AuditLog, error)
}

// MergeCandidateService is the default implementation of the
// MergeCandidateServiceInterface.
type MergeCandidateService struct {
	Store    store.MergeCandidateStoreInterface
	Resolver RuleResolverInterface
	Engine   engine.MatchEngine
}

var (
	candidateService     MergeCandidateServiceInterface
	candidateServiceOnce sync.Once
)

// GetMergeCandidateService returns the shared merge candidate service. The
// match engine is built once from configuration, so compiled rule artifacts
// survive across batches instead of being rebuilt per request.
func GetMergeCandidateService() MergeCandidateServiceInterface {

	candidateServiceOnce.Do(func() {
		candidateService = &MergeCandidateService{
			Store:    store.GetMergeCandidateStore(),
			Resolver: rulesservice.GetMergeRuleService(),
			Engine:   engine.NewMatchEngineFromConfig(config.GetMDSRuntime().Config.RuleEngine),
		}
	})
	return candidateService
}

// ProcessEntityBatch resolves the effective rules for the company and domain,
// evaluates the batch, and persists every suggestion as a PENDING_REVIEW
// merge candidate with its audit row. An empty batch or an empty rule set is
// a no-op, not an error.
func (mcs *MergeCandidateService) ProcessEntityBatch(ctx context.Context, companyId, domain string,
	entities []entitymodel.Entity) error {

	logger := log.GetLogger()
	if len(entities) == 0 {
		logger.Debug("No entities provided for merge processing")
		return nil
	}

	ruleBodies, err := mcs.Resolver.ResolveEffectiveRules(companyId, domain)
	if err != nil {
		return err
	}
	if len(ruleBodies) == 0 {
		logger.Debug(fmt.Sprintf("No effective merge rules for company: %s in domain: %s; skipping batch",
			companyId, domain))
		return nil
	}

	suggestions, err := mcs.Engine.Evaluate(ctx, entities, ruleBodies)
	if err != nil {
		return err
	}
	if len(suggestions) == 0 {
		logger.Debug(fmt.Sprintf("No merge suggestions generated for company: %s in domain: %s", companyId, domain))
		return nil
	}

	// Nothing was committed yet; a cancelled caller discards the evaluation.
	if err := ctx.Err(); err != nil {
		return err
	}

	candidates := make([]model.MergeCandidate, 0, len(suggestions))
	auditLogs := make([]model.AuditLog, 0, len(suggestions))
	now := time.Now().UTC().Unix()

	for _, suggestion := range suggestions {
		entity1JSON, err := json.Marshal(suggestion.Entity1)
		if err != nil {
			return serializationError(suggestion.Entity1.Id, err)
		}
		entity2JSON, err := json.Marshal(suggestion.Entity2)
		if err != nil {
			return serializationError(suggestion.Entity2.Id, err)
		}

		candidateId := uuid.New().String()
		candidates = append(candidates, model.MergeCandidate{
			CandidateId:              candidateId,
			Entity1JSON:              string(entity1JSON),
			Entity2JSON:              string(entity2JSON),
			ProposedMergedEntityJSON: suggestion.ProposedMergedEntityJSON,
			Reasoning:                suggestion.Reasoning,
			Status:                   model.StatusPendingReview,
			CreatedAt:                now,
			UpdatedAt:                now,
		})
		auditLogs = append(auditLogs, model.AuditLog{
			LogId:              uuid.New().String(),
			CandidateId:        candidateId,
			RuleName:           suggestion.RuleName,
			RuleDetails:        suggestion.Reasoning,
			Entity1Id:          suggestion.Entity1.Id,
			Entity2Id:          suggestion.Entity2.Id,
			BotDecisionToMerge: true,
			CreatedAt:          now,
		})
	}

	if err := mcs.Store.CreateBatch(ctx, candidates, auditLogs); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Created %d merge candidate(s) for company: %s in domain: %s", len(candidates),
		companyId, domain))
	return nil
}

// ReviewMergeCandidate applies a human review decision. Only PENDING_REVIEW
// candidates can transition, and only to APPROVED or REJECTED; a candidate
// already in a terminal state fails the call rather than being overwritten.
func (mcs *MergeCandidateService) ReviewMergeCandidate(candidateId, targetStatus,
	comment string) (*model.MergeCandidate, error) {

	if targetStatus != model.StatusApproved && targetStatus != model.StatusRejected {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_TARGET_STATUS.Code,
			Message:     errors2.INVALID_TARGET_STATUS.Message,
			Description: fmt.Sprintf("Target status must be %s or %s", model.StatusApproved, model.StatusRejected),
		}, http.StatusBadRequest)
	}

	rowsAffected, err := mcs.Store.UpdateStatusIfPending(candidateId, targetStatus, comment,
		time.Now().UTC().Unix())
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		candidate, err := mcs.Store.GetMergeCandidate(candidateId)
		if err != nil {
			return nil, err
		}
		if candidate == nil {
			return nil, errors2.NewClientError(errors2.ErrorMessage{
				Code:        errors2.MERGE_CANDIDATE_NOT_FOUND.Code,
				Message:     errors2.MERGE_CANDIDATE_NOT_FOUND.Message,
				Description: fmt.Sprintf("No merge candidate found with id: %s", candidateId),
			}, http.StatusNotFound)
		}
		if candidate.Status != model.StatusPendingReview {
			return nil, errors2.NewClientError(errors2.ErrorMessage{
				Code:    errors2.INVALID_STATUS_TRANSITION.Code,
				Message: errors2.INVALID_STATUS_TRANSITION.Message,
				Description: fmt.Sprintf("Merge candidate %s is already %s and cannot be reviewed again",
					candidateId, candidate.Status),
			}, http.StatusConflict)
		}
		// The row was pending on re-read but the swap found it changed: a
		// concurrent review won the race.
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.STALE_CANDIDATE_STATE.Code,
			Message:     errors2.STALE_CANDIDATE_STATE.Message,
			Description: fmt.Sprintf("Merge candidate %s was reviewed concurrently; retry the read", candidateId),
		}, http.StatusConflict)
	}

	return mcs.Store.GetMergeCandidate(candidateId)
}

// ApproveAllPending attempts to approve every PENDING_REVIEW candidate
// independently. Individual failures are counted, never propagated; the
// returned result reports how many transitions succeeded and failed.
func (mcs *MergeCandidateService) ApproveAllPending(comment string) (model.BulkReviewResult, error) {

	logger := log.GetLogger()
	pending, err := mcs.Store.GetMergeCandidatesByStatus(model.StatusPendingReview)
	if err != nil {
		return model.BulkReviewResult{}, err
	}

	result := model.BulkReviewResult{}
	for _, candidate := range pending {
		if _, err := mcs.ReviewMergeCandidate(candidate.CandidateId, model.StatusApproved, comment); err != nil {
			logger.Warn(fmt.Sprintf("Failed to approve merge candidate: %s", candidate.CandidateId),
				log.Error(err))
			result.Failed++
			result.FailedIds = append(result.FailedIds, candidate.CandidateId)
			continue
		}
		result.Succeeded++
	}

	logger.Info(fmt.Sprintf("Bulk approval finished: %d succeeded, %d failed", result.Succeeded, result.Failed))
	return result, nil
}

// GetMergeCandidate fetches one merge candidate by its id.
func (mcs *MergeCandidateService) GetMergeCandidate(candidateId string) (*model.MergeCandidate, error) {

	candidate, err := mcs.Store.GetMergeCandidate(candidateId)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.MERGE_CANDIDATE_NOT_FOUND.Code,
			Message:     errors2.MERGE_CANDIDATE_NOT_FOUND.Message,
			Description: fmt.Sprintf("No merge candidate found with id: %s", candidateId),
		}, http.StatusNotFound)
	}
	return candidate, nil
}

// GetMergeCandidatesByStatus lists merge candidates in one review state.
func (mcs *MergeCandidateService) GetMergeCandidatesByStatus(status string) ([]model.MergeCandidate, error) {

	if status != model.StatusPendingReview && status != model.StatusApproved && status != model.StatusRejected {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: fmt.Sprintf("Unknown merge candidate status: %s", status),
		}, http.StatusBadRequest)
	}
	return mcs.Store.GetMergeCandidatesByStatus(status)
}

// GetAllMergeCandidates lists every merge candidate.
func (mcs *MergeCandidateService) GetAllMergeCandidates() ([]model.MergeCandidate, error) {

	return mcs.Store.GetAllMergeCandidates()
}

// GetAuditTrail fetches a candidate's audit entries ordered by timestamp
// ascending.
func (mcs *MergeCandidateService) GetAuditTrail(candidateId string) ([]model.AuditLog, error) {

	candidate, err := mcs.Store.GetMergeCandidate(candidateId)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.MERGE_CANDIDATE_NOT_FOUND.Code,
			Message:     errors2.MERGE_CANDIDATE_NOT_FOUND.Message,
			Description: fmt.Sprintf("No merge candidate found with id: %s", candidateId),
		}, http.StatusNotFound)
	}
	return mcs.Store.GetAuditLogs(candidateId)
}

func serializationError(entityId string, cause error) error {

	errorMsg := fmt.Sprintf("Failed to serialize entity snapshot: %s", entityId)
	log.GetLogger().Debug(errorMsg, log.Error(cause))
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        errors2.ADD_MERGE_CANDIDATE.Code,
		Message:     errors2.ADD_MERGE_CANDIDATE.Message,
		Description: errorMsg,
	}, cause)
}

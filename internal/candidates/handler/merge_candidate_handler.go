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

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wso2/identity-master-data-service/internal/candidates/model"
	"github.com/wso2/identity-master-data-service/internal/candidates/provider"
	"github.com/wso2/identity-master-data-service/internal/system/authn"
	"github.com/wso2/identity-master-data-service/internal/system/config"
	"github.com/wso2/identity-master-data-service/internal/system/constants"
	mdscontext "github.com/wso2/identity-master-data-service/internal/system/context"
	errors2 "github.com/wso2/identity-master-data-service/internal/system/errors"
	"github.com/wso2/identity-master-data-service/internal/system/log"
	"github.com/wso2/identity-master-data-service/internal/system/security"
	"github.com/wso2/identity-master-data-service/internal/system/utils"
)

var validate = validator.New()

type MergeCandidatesHandler struct{}

func NewMergeCandidatesHandler() *MergeCandidatesHandler {

	return &MergeCandidatesHandler{}
}

// ProcessEntities runs a batch of source entities through the effective rules
// of the requested company and domain, persisting every suggestion as a
// pending merge candidate.
func (mch *MergeCandidatesHandler) ProcessEntities(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "entities:process")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var request model.ProcessEntitiesAPIRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "entity batch"),
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}
	if err := validate.Struct(request); err != nil {
		utils.HandleError(w, validationError(err, "entity batch"))
		return
	}

	ctx := r.Context()
	timeoutSecs := config.GetMDSRuntime().Config.RuleEngine.QueryTimeoutSecs
	if timeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSecs)*time.Second)
		defer cancel()
	}

	candidateService := provider.NewMergeCandidateProvider().GetMergeCandidateService()
	err = candidateService.ProcessEntityBatch(ctx, request.CompanyId, request.Domain, request.Entities)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	// Audit log for batch processing
	logger := log.GetLogger()
	traceID := mdscontext.GetTraceID(r.Context())
	logger.Audit(log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      request.CompanyId,
		TargetType:    log.TargetTypeEntityBatch,
		ActionID:      log.ActionProcessEntityBatch,
		TraceID:       traceID,
		Data: map[string]string{
			"domain":       request.Domain,
			"entity_count": strconv.Itoa(len(request.Entities)),
		},
	})

	utils.RespondJSON(w, http.StatusAccepted, map[string]string{
		"status": "processed",
	}, constants.EntityBatchResource)
}

// GetMergeCandidates lists merge candidates, optionally filtered by status.
func (mch *MergeCandidatesHandler) GetMergeCandidates(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "merge_candidates:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	candidateService := provider.NewMergeCandidateProvider().GetMergeCandidateService()

	var candidates []model.MergeCandidate
	if status := r.URL.Query().Get("status"); status != "" {
		candidates, err = candidateService.GetMergeCandidatesByStatus(status)
	} else {
		candidates, err = candidateService.GetAllMergeCandidates()
	}
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, candidates, constants.MergeCandidateResource)
}

// GetMergeCandidate fetches a single merge candidate by id.
func (mch *MergeCandidatesHandler) GetMergeCandidate(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "merge_candidates:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	candidateId := utils.ExtractPathParam(r, "/merge-candidates/")
	if candidateId == "" {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.MERGE_CANDIDATE_NOT_FOUND.Code,
			Message:     errors2.MERGE_CANDIDATE_NOT_FOUND.Message,
			Description: "Invalid path for merge candidate retrieval",
		}, http.StatusNotFound)
		utils.HandleError(w, clientError)
		return
	}

	candidateService := provider.NewMergeCandidateProvider().GetMergeCandidateService()
	candidate, err := candidateService.GetMergeCandidate(candidateId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, candidate, constants.MergeCandidateResource)
}

// GetAuditTrail fetches the audit rows recorded for one merge candidate.
func (mch *MergeCandidatesHandler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "merge_candidates:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	candidateId := utils.ExtractPathParam(r, "/merge-candidates/")
	if candidateId == "" {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	candidateService := provider.NewMergeCandidateProvider().GetMergeCandidateService()
	auditLogs, err := candidateService.GetAuditTrail(candidateId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, auditLogs, constants.AuditLogResource)
}

// ReviewMergeCandidate applies a human review decision to a pending merge
// candidate.
func (mch *MergeCandidatesHandler) ReviewMergeCandidate(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "merge_candidates:review")
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	candidateId := utils.ExtractPathParam(r, "/merge-candidates/")
	if candidateId == "" {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	var reviewRequest model.ReviewAPIRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&reviewRequest); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "merge candidate review"),
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}
	if err := validate.Struct(reviewRequest); err != nil {
		utils.HandleError(w, validationError(err, "merge candidate review"))
		return
	}

	candidateService := provider.NewMergeCandidateProvider().GetMergeCandidateService()
	candidate, err := candidateService.ReviewMergeCandidate(candidateId, reviewRequest.Status, reviewRequest.Comment)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	// Audit log for the review decision
	logger := log.GetLogger()
	traceID := mdscontext.GetTraceID(r.Context())
	logger.Audit(log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      candidateId,
		TargetType:    log.TargetTypeMergeCandidate,
		ActionID:      log.ActionReviewMergeCandidate,
		TraceID:       traceID,
		Data:          map[string]string{"status": reviewRequest.Status},
	})

	utils.RespondJSON(w, http.StatusOK, candidate, constants.MergeCandidateResource)
}

// ApproveAllPending approves every pending merge candidate, reporting how
// many transitions succeeded and which ones failed.
func (mch *MergeCandidatesHandler) ApproveAllPending(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "merge_candidates:review")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	comment := r.URL.Query().Get("comment")

	candidateService := provider.NewMergeCandidateProvider().GetMergeCandidateService()
	result, err := candidateService.ApproveAllPending(comment)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	// Audit log for the bulk approval
	logger := log.GetLogger()
	traceID := mdscontext.GetTraceID(r.Context())
	logger.Audit(log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetType:    log.TargetTypeMergeCandidate,
		ActionID:      log.ActionApproveAllPending,
		TraceID:       traceID,
		Data: map[string]string{
			"succeeded": strconv.Itoa(result.Succeeded),
			"failed":    strconv.Itoa(result.Failed),
		},
	})

	utils.RespondJSON(w, http.StatusOK, result, constants.MergeCandidateResource)
}

// validationError converts a validator failure into a client error naming the
// first offending field.
func validationError(err error, resourceName string) error {

	description := "Invalid payload for " + resourceName + "."
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		first := validationErrors[0]
		description = "Field '" + first.Field() + "' failed validation rule '" + first.Tag() +
			"' for " + resourceName + "."
	}
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.BAD_REQUEST.Code,
		Message:     errors2.BAD_REQUEST.Message,
		Description: description,
	}, http.StatusBadRequest)
}

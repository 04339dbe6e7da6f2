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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/wso2/identity-master-data-service/internal/rules/model"
	"github.com/wso2/identity-master-data-service/internal/rules/provider"
	"github.com/wso2/identity-master-data-service/internal/system/authn"
	"github.com/wso2/identity-master-data-service/internal/system/constants"
	mdscontext "github.com/wso2/identity-master-data-service/internal/system/context"
	errors2 "github.com/wso2/identity-master-data-service/internal/system/errors"
	"github.com/wso2/identity-master-data-service/internal/system/log"
	"github.com/wso2/identity-master-data-service/internal/system/security"
	"github.com/wso2/identity-master-data-service/internal/system/utils"
)

var validate = validator.New()

type MergeRulesHandler struct{}

func NewMergeRulesHandler() *MergeRulesHandler {

	return &MergeRulesHandler{}
}

// AddGlobalRule handles adding a new global merge rule.
func (mrh *MergeRulesHandler) AddGlobalRule(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "merge_rules:create")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var ruleInRequest model.GlobalMergeRuleAPIRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&ruleInRequest); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "global merge rule"),
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}
	if err := validate.Struct(ruleInRequest); err != nil {
		utils.HandleError(w, validationError(err, "global merge rule"))
		return
	}

	ruleService := provider.NewMergeRuleProvider().GetMergeRuleService()
	addedRule, err := ruleService.AddGlobalRule(ruleInRequest)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	// Audit log for global rule creation
	logger := log.GetLogger()
	traceID := mdscontext.GetTraceID(r.Context())
	logger.Audit(log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      addedRule.RuleId,
		TargetType:    log.TargetTypeGlobalRule,
		ActionID:      log.ActionAddGlobalRule,
		TraceID:       traceID,
		Data: map[string]string{
			"domain":    addedRule.Domain,
			"rule_name": addedRule.RuleName,
		},
	})

	utils.RespondJSON(w, http.StatusCreated, toGlobalRuleResponse(*addedRule), constants.GlobalRuleResource)
}

// GetGlobalRules handles fetching all global rules of a domain.
func (mrh *MergeRulesHandler) GetGlobalRules(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "merge_rules:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Query parameter 'domain' is required for global rule retrieval",
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}

	ruleService := provider.NewMergeRuleProvider().GetMergeRuleService()
	rules, err := ruleService.GetGlobalRulesByDomain(domain)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	rulesResponse := make([]model.GlobalMergeRuleAPIResponse, 0, len(rules))
	for _, rule := range rules {
		rulesResponse = append(rulesResponse, toGlobalRuleResponse(rule))
	}
	utils.RespondJSON(w, http.StatusOK, rulesResponse, constants.GlobalRuleResource)
}

// GetGlobalRule fetches a specific global merge rule.
func (mrh *MergeRulesHandler) GetGlobalRule(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "merge_rules:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	ruleId := utils.ExtractPathParam(r, "/global-rules/")
	if ruleId == "" {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.RULE_NOT_FOUND.Code,
			Message:     errors2.RULE_NOT_FOUND.Message,
			Description: "Invalid path for global rule retrieval",
		}, http.StatusNotFound)
		utils.HandleError(w, clientError)
		return
	}
	ruleService := provider.NewMergeRuleProvider().GetMergeRuleService()
	rule, err := ruleService.GetGlobalRule(ruleId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, toGlobalRuleResponse(*rule), constants.GlobalRuleResource)
}

// PatchGlobalRule applies partial updates to a global merge rule.
func (mrh *MergeRulesHandler) PatchGlobalRule(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "merge_rules:update")
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	ruleId := utils.ExtractPathParam(r, "/global-rules/")
	if ruleId == "" {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}
	var ruleUpdateRequest model.MergeRuleUpdateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&ruleUpdateRequest); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "global merge rule"),
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}
	if err := validate.Struct(ruleUpdateRequest); err != nil {
		utils.HandleError(w, validationError(err, "global merge rule"))
		return
	}

	ruleService := provider.NewMergeRuleProvider().GetMergeRuleService()
	updatedRule, err := ruleService.PatchGlobalRule(ruleId, ruleUpdateRequest)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	// Audit log for global rule update
	logger := log.GetLogger()
	traceID := mdscontext.GetTraceID(r.Context())
	logger.Audit(log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      ruleId,
		TargetType:    log.TargetTypeGlobalRule,
		ActionID:      log.ActionUpdateGlobalRule,
		TraceID:       traceID,
		Data:          map[string]string{"domain": updatedRule.Domain},
	})

	utils.RespondJSON(w, http.StatusOK, toGlobalRuleResponse(*updatedRule), constants.GlobalRuleResource)
}

// DeleteGlobalRule removes a global merge rule.
func (mrh *MergeRulesHandler) DeleteGlobalRule(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "merge_rules:delete")
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	ruleId := utils.ExtractPathParam(r, "/global-rules/")
	if ruleId == "" {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}
	ruleService := provider.NewMergeRuleProvider().GetMergeRuleService()
	err = ruleService.DeleteGlobalRule(ruleId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	// Audit log for global rule deletion
	logger := log.GetLogger()
	traceID := mdscontext.GetTraceID(r.Context())
	logger.Audit(log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      ruleId,
		TargetType:    log.TargetTypeGlobalRule,
		ActionID:      log.ActionDeleteGlobalRule,
		TraceID:       traceID,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNoContent)
}

// AddCompanyRule handles adding a new company merge rule.
func (mrh *MergeRulesHandler) AddCompanyRule(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "merge_rules:create")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var ruleInRequest model.CompanyMergeRuleAPIRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&ruleInRequest); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "company merge rule"),
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}
	if err := validate.Struct(ruleInRequest); err != nil {
		utils.HandleError(w, validationError(err, "company merge rule"))
		return
	}

	ruleService := provider.NewMergeRuleProvider().GetMergeRuleService()
	addedRule, err := ruleService.AddCompanyRule(ruleInRequest)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	// Audit log for company rule creation
	logger := log.GetLogger()
	traceID := mdscontext.GetTraceID(r.Context())
	logger.Audit(log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      addedRule.RuleId,
		TargetType:    log.TargetTypeCompanyRule,
		ActionID:      log.ActionAddCompanyRule,
		TraceID:       traceID,
		Data: map[string]string{
			"company_id": addedRule.CompanyId,
			"rule_name":  addedRule.RuleName,
		},
	})

	utils.RespondJSON(w, http.StatusCreated, toCompanyRuleResponse(*addedRule), constants.CompanyRuleResource)
}

// GetCompanyRules handles fetching all rules of a company.
func (mrh *MergeRulesHandler) GetCompanyRules(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "merge_rules:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	companyId := r.URL.Query().Get("company_id")
	if companyId == "" {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Query parameter 'company_id' is required for company rule retrieval",
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}

	ruleService := provider.NewMergeRuleProvider().GetMergeRuleService()
	rules, err := ruleService.GetCompanyRulesByCompany(companyId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	rulesResponse := make([]model.CompanyMergeRuleAPIResponse, 0, len(rules))
	for _, rule := range rules {
		rulesResponse = append(rulesResponse, toCompanyRuleResponse(rule))
	}
	utils.RespondJSON(w, http.StatusOK, rulesResponse, constants.CompanyRuleResource)
}

// GetCompanyRule fetches a specific company merge rule.
func (mrh *MergeRulesHandler) GetCompanyRule(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "merge_rules:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	ruleId := utils.ExtractPathParam(r, "/company-rules/")
	if ruleId == "" {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.RULE_NOT_FOUND.Code,
			Message:     errors2.RULE_NOT_FOUND.Message,
			Description: "Invalid path for company rule retrieval",
		}, http.StatusNotFound)
		utils.HandleError(w, clientError)
		return
	}
	ruleService := provider.NewMergeRuleProvider().GetMergeRuleService()
	rule, err := ruleService.GetCompanyRule(ruleId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, toCompanyRuleResponse(*rule), constants.CompanyRuleResource)
}

// PatchCompanyRule applies partial updates to a company merge rule.
func (mrh *MergeRulesHandler) PatchCompanyRule(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "merge_rules:update")
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	ruleId := utils.ExtractPathParam(r, "/company-rules/")
	if ruleId == "" {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}
	var ruleUpdateRequest model.MergeRuleUpdateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&ruleUpdateRequest); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "company merge rule"),
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}
	if err := validate.Struct(ruleUpdateRequest); err != nil {
		utils.HandleError(w, validationError(err, "company merge rule"))
		return
	}

	ruleService := provider.NewMergeRuleProvider().GetMergeRuleService()
	updatedRule, err := ruleService.PatchCompanyRule(ruleId, ruleUpdateRequest)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	// Audit log for company rule update
	logger := log.GetLogger()
	traceID := mdscontext.GetTraceID(r.Context())
	logger.Audit(log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      ruleId,
		TargetType:    log.TargetTypeCompanyRule,
		ActionID:      log.ActionUpdateCompanyRule,
		TraceID:       traceID,
		Data:          map[string]string{"company_id": updatedRule.CompanyId},
	})

	utils.RespondJSON(w, http.StatusOK, toCompanyRuleResponse(*updatedRule), constants.CompanyRuleResource)
}

// DeleteCompanyRule removes a company merge rule.
func (mrh *MergeRulesHandler) DeleteCompanyRule(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "merge_rules:delete")
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	ruleId := utils.ExtractPathParam(r, "/company-rules/")
	if ruleId == "" {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}
	ruleService := provider.NewMergeRuleProvider().GetMergeRuleService()
	err = ruleService.DeleteCompanyRule(ruleId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	// Audit log for company rule deletion
	logger := log.GetLogger()
	traceID := mdscontext.GetTraceID(r.Context())
	logger.Audit(log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      ruleId,
		TargetType:    log.TargetTypeCompanyRule,
		ActionID:      log.ActionDeleteCompanyRule,
		TraceID:       traceID,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNoContent)
}

// GetEffectiveRules resolves and returns the ordered rule body list for a
// company and domain pair.
func (mrh *MergeRulesHandler) GetEffectiveRules(w http.ResponseWriter, r *http.Request) {

	err := security.AuthnAndAuthz(r, "merge_rules:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	companyId := utils.ExtractPathParam(r, "/company-rules/effective/")
	domain := utils.ExtractPathParam(r, "/company-rules/effective/"+companyId+"/")
	if companyId == "" || domain == "" {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Effective rule resolution requires both a company id and a domain in the path",
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}

	ruleService := provider.NewMergeRuleProvider().GetMergeRuleService()
	ruleBodies, err := ruleService.ResolveEffectiveRules(companyId, domain)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	response := model.EffectiveRulesAPIResponse{
		CompanyId:  companyId,
		Domain:     domain,
		RuleBodies: ruleBodies,
	}
	utils.RespondJSON(w, http.StatusOK, response, constants.CompanyRuleResource)
}

func toGlobalRuleResponse(rule model.GlobalMergeRule) model.GlobalMergeRuleAPIResponse {

	return model.GlobalMergeRuleAPIResponse{
		RuleId:      rule.RuleId,
		Domain:      rule.Domain,
		RuleName:    rule.RuleName,
		Description: rule.Description,
		RuleBody:    rule.RuleBody,
		Priority:    rule.Priority,
		IsActive:    rule.IsActive,
	}
}

func toCompanyRuleResponse(rule model.CompanyMergeRule) model.CompanyMergeRuleAPIResponse {

	return model.CompanyMergeRuleAPIResponse{
		RuleId:          rule.RuleId,
		CompanyId:       rule.CompanyId,
		RuleName:        rule.RuleName,
		Description:     rule.Description,
		RuleBody:        rule.RuleBody,
		Priority:        rule.Priority,
		IsActive:        rule.IsActive,
		OverridesGlobal: rule.OverridesGlobal,
	}
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
